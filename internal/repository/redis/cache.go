package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
)

// ResponseCache stores rendered public listing responses in Redis. Keys are
// namespaced so a flush of the prefix clears the whole cache.
type ResponseCache struct {
	client *redis.Client
	prefix string
}

var _ port.Cache = (*ResponseCache)(nil)

// NewResponseCache constructs a cache using the provided Redis client.
func NewResponseCache(client *redis.Client, prefix string) *ResponseCache {
	if prefix == "" {
		prefix = "cache"
	}
	return &ResponseCache{client: client, prefix: prefix}
}

// Get returns the cached payload and whether it was present.
func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return value, true, nil
}

// Set stores the payload under the key for the given TTL.
func (c *ResponseCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *ResponseCache) key(key string) string {
	return fmt.Sprintf("%s:%s", c.prefix, key)
}
