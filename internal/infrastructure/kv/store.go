package kv

import "context"

// Store is a prefix-scanning key-value abstraction over the hosted store.
//
// Values are opaque byte payloads (JSON at the call sites). GetByPrefix
// returns values in unspecified order; callers sort. There are no
// transactions and no compare-and-swap: any I/O failure propagates as a
// generic storage error and is treated as non-retryable within a request.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	GetByPrefix(ctx context.Context, prefix string) ([][]byte, error)
	Close() error
}
