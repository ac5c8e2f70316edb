package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "slates"

// redisClient is the subset of *redis.Client the cache uses.
type redisClient interface {
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisCache stores datasets under slates:{kind}:{sport}:{date} with no expiry.
type RedisCache struct {
	client redisClient
}

// NewRedisCache wraps an existing client.
func NewRedisCache(client redisClient) *RedisCache {
	return &RedisCache{client: client}
}

// OpenRedis parses a redis:// URL and connects.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// RedisKey returns the redis key for key.
func RedisKey(key Key) string {
	return fmt.Sprintf("%s:%s:%s:%s", redisKeyPrefix, key.Kind, key.Sport, key.Date)
}

// Has reports whether key exists. Lookup errors count as a miss so the caller
// falls through to a fetch.
func (c *RedisCache) Has(ctx context.Context, key Key) bool {
	if c == nil || c.client == nil || key.Validate() != nil {
		return false
	}
	n, err := c.client.Exists(ctx, RedisKey(key)).Result()
	return err == nil && n > 0
}

// Load reads the payload stored under key.
func (c *RedisCache) Load(ctx context.Context, key Key) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("redis cache not configured")
	}
	if err := key.Validate(); err != nil {
		return nil, err
	}
	val, err := c.client.Get(ctx, RedisKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return []byte(val), nil
}

// Store writes payload under key without expiry.
func (c *RedisCache) Store(ctx context.Context, key Key, payload []byte) error {
	if c == nil || c.client == nil {
		return &WriteError{Key: key, Err: errors.New("redis cache not configured")}
	}
	if err := key.Validate(); err != nil {
		return &WriteError{Key: key, Err: err}
	}
	if err := c.client.Set(ctx, RedisKey(key), payload, 0).Err(); err != nil {
		return &WriteError{Key: key, Err: err}
	}
	return nil
}
