package port

import (
	"context"
	"time"
)

// CacheRepository stores opaque payloads. A miss is reported as false, not as an error.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
