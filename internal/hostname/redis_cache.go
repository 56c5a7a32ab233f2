package hostname

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "wcp:hostname:"

// RedisCache is a Cache backed by Redis string keys with expiry.
type RedisCache struct {
	client redis.Cmdable
}

// NewRedisCache returns a cache using client.
func NewRedisCache(client redis.Cmdable) *RedisCache {
	return &RedisCache{client: client}
}

// Get returns the cached URL for hostname. A missing key is ("", false, nil).
func (c *RedisCache) Get(ctx context.Context, hostname string) (string, bool, error) {
	v, err := c.client.Get(ctx, cacheKey(hostname)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Set stores target for hostname with ttl. A ttl <= 0 stores without expiry.
func (c *RedisCache) Set(ctx context.Context, hostname, target string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return c.client.Set(ctx, cacheKey(hostname), target, ttl).Err()
}

func cacheKey(hostname string) string {
	return cacheKeyPrefix + hostname
}

// NewRedisClient creates a Redis client and verifies connectivity.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}
