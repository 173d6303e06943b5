// Package cache provides key/value caching for craftwise.
//
// Two things are cached: fetched remote recipe documents (so a recipe source
// keeps working offline) and resolution responses (keyed by target, amount,
// pool snapshot and recipe table version, so any change to the inputs yields
// a new key and stale entries simply age out).
//
// Backends:
//   - [FileCache]: hash-sharded JSON files, for the CLI
//   - [MemoryCache]: in-process expiring map, for the HTTP server
//   - [RedisCache]: shared cache for several server instances
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"fmt"
	"time"
)

// Default TTLs for cached values.
const (
	// TTLSource is how long a fetched recipe document is kept.
	TTLSource = 7 * 24 * time.Hour

	// TTLResolve is how long a resolution response is kept. Keys embed the
	// pool and table fingerprints, so the TTL only bounds cache size.
	TTLResolve = 10 * time.Minute
)

// Cache stores opaque byte values under string keys.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. The bool is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Keyer generates cache keys.
type Keyer interface {
	// SourceKey generates a key for a fetched recipe document.
	SourceKey(url string) string

	// ResolveKey generates a key for a resolution response.
	ResolveKey(target string, amount int, opts ResolveKeyOpts) string
}

// ResolveKeyOpts carries the fingerprints a resolution depends on.
type ResolveKeyOpts struct {
	PoolHash     string `json:"pool"`
	TableVersion string `json:"table"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SourceKey returns "source:<hash(url)>".
func (DefaultKeyer) SourceKey(url string) string {
	return hashKey("source", url)
}

// ResolveKey returns "resolve:<target>:<amount>:<hash(opts)>".
func (DefaultKeyer) ResolveKey(target string, amount int, opts ResolveKeyOpts) string {
	fp, _ := HashJSON(opts)
	return fmt.Sprintf("resolve:%s:%d:%s", Hash([]byte(target))[:16], amount, fp[:32])
}
