package cache

import (
	"context"
	"slices"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is an in-process cache with per-entry expiration.
// Expired entries are swept periodically.
type MemoryCache struct {
	c *gocache.Cache
}

// NewMemoryCache creates a memory cache. defaultTTL applies to Set calls
// with a zero ttl; pass 0 for entries that never expire by default.
func NewMemoryCache(defaultTTL time.Duration) Cache {
	exp := gocache.NoExpiration
	if defaultTTL > 0 {
		exp = defaultTTL
	}
	return &MemoryCache{c: gocache.New(exp, 10*time.Minute)}
}

// Get retrieves a value from the cache.
func (m *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(v.([]byte)), true, nil
}

// Set stores a copy of data.
func (m *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	exp := gocache.DefaultExpiration
	if ttl > 0 {
		exp = ttl
	}
	m.c.Set(key, slices.Clone(data), exp)
	return nil
}

// Delete removes a value from the cache.
func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	m.c.Delete(key)
	return nil
}

// Len returns the number of stored entries, including expired ones not yet swept.
func (m *MemoryCache) Len() int {
	return m.c.ItemCount()
}

// Close drops all entries.
func (m *MemoryCache) Close() error {
	m.c.Flush()
	return nil
}

var _ Cache = (*MemoryCache)(nil)
