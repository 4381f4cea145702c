package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"taskapp/internal/core/port"
)

type memoryCache struct {
	store *gocache.Cache
}

func NewMemoryCache(defaultTTL time.Duration) port.CacheRepository {
	return &memoryCache{
		store: gocache.New(defaultTTL, 2*defaultTTL),
	}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, found := c.store.Get(key)

	if !found {
		return nil, false, nil
	}

	payload, ok := value.([]byte)

	return payload, ok, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.store.Set(key, value, ttl)

	return nil
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		c.store.Delete(key)
	}

	return nil
}
