package port

import (
	"context"
	"time"
)

// Cache is the TTL cache capability injected into the public GET handlers.
// Get returns (nil, false, nil) on a miss; expiry is enforced by the backend.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
