package kv

import (
	"context"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

// RedisConfig mirrors config.RedisConfig without importing the config package.
type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

// RedisStore is a hosted key-value backend on top of go-redis.
type RedisStore struct {
	client *redislib.Client
}

// OpenRedis creates a Redis client and performs a health check.
func OpenRedis(cfg RedisConfig) (*RedisStore, error) {
	opts, err := redislib.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}

	client := redislib.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redislib.Nil {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// GetByPrefix walks the keyspace with SCAN and fetches the matching values
// in one MGET. Order is unspecified, as the Store contract allows.
func (s *RedisStore) GetByPrefix(ctx context.Context, prefix string) ([][]byte, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	raw, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	values := make([][]byte, 0, len(raw))
	for _, item := range raw {
		// Keys can vanish between SCAN and MGET.
		if str, ok := item.(string); ok {
			values = append(values, []byte(str))
		}
	}
	return values, nil
}

// Close closes the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks connectivity for the monitor.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
