package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
// Backend failures are logged by the backend and surface as a miss too,
// so a cache outage never fails the request it is accelerating.
var ErrCacheMiss = errors.New("cache: miss")

// Cache is the key-value contract shared by the redis and in-memory
// backends. The backend is chosen once at startup.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

func Get[T any](ctx context.Context, c Cache, key string) (*T, error) {
	value, err := c.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if string(value) == "null" {
		return nil, nil
	}

	var result T
	if err := json.Unmarshal(value, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func GetMany[T any](ctx context.Context, c Cache, key string) ([]*T, error) {
	value, err := c.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if string(value) == "null" {
		return nil, nil
	}

	var result []*T
	if err := json.Unmarshal(value, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// GetOrSet is the read-through wrapper: cached value on hit, otherwise the
// producer runs and its result is stored under ttl. The result is cached
// only when the producer succeeds, and store errors are swallowed; the
// produced value is returned either way.
func GetOrSet[T any](ctx context.Context, c Cache, key string, ttl time.Duration, produce func() (T, error)) (T, error) {
	cached, err := Get[T](ctx, c, key)
	if err == nil && cached != nil {
		return *cached, nil
	}

	value, err := produce()
	if err != nil {
		return value, err
	}

	_ = c.Set(ctx, key, value, ttl)

	return value, nil
}
