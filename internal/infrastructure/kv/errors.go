package kv

import "errors"

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("kv: key not found")

// IsNotFound reports whether err means the key was absent rather than a
// storage failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
