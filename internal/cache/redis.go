package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type redisCache struct {
	rdb *redis.Client
	logger *zap.Logger
}

// NewRedis returns a Cache backed by a remote redis instance. Pattern
// deletion enumerates keys server-side with KEYS glob matching.
func NewRedis(rdb *redis.Client, logger *zap.Logger) Cache {
	return &redisCache{
		rdb: rdb,
		logger: logger,
	}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		c.logger.Sugar().Errorf("failed to get key(%s) from redis: %s", key, err.Error())
		return nil, ErrCacheMiss
	}

	return value, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	valueJSON, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if err := c.rdb.Set(ctx, key, valueJSON, ttl).Err(); err != nil {
		c.logger.Sugar().Errorf("failed to set key(%s) in redis: %s", key, err.Error())
	}

	return nil
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Sugar().Errorf("failed to delete keys from redis: %s", err.Error())
	}

	return nil
}

func (c *redisCache) DeleteByPattern(ctx context.Context, pattern string) error {
	keys, err := c.rdb.Keys(ctx, pattern).Result()
	if err != nil {
		c.logger.Sugar().Errorf("failed to list keys by pattern(%s) in redis: %s", pattern, err.Error())
		return nil
	}

	return c.Delete(ctx, keys...)
}
