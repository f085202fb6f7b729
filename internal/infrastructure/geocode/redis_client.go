package geocode

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache adapts *redis.Client to the cacheClient interface CachedGeocoder
// depends on.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache wraps an existing Redis client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get returns ErrCacheMiss when the key is absent, matching cacheClient's
// contract so CachedGeocoder doesn't need to know about redis.Nil.
func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Set stores value under key with the given TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

var _ cacheClient = (*RedisCache)(nil)
