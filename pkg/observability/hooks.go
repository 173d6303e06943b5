// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through globally registered hook interfaces; the
// defaults do nothing. A binary that wants metrics registers its own
// implementations once at startup.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetWorkshopHooks(&myWorkshopHooks{})
//	    observability.SetPoolHooks(&myPoolHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Workshop().OnResolveStart(ctx, target, amount)
//	// ... resolve ...
//	observability.Workshop().OnResolveComplete(ctx, target, amount, craftable, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Workshop Hooks
// =============================================================================

// WorkshopHooks receives events from resolution and crafting.
type WorkshopHooks interface {
	// Resolve events
	OnResolveStart(ctx context.Context, target string, amount int)
	OnResolveComplete(ctx context.Context, target string, amount int, craftable bool, duration time.Duration, err error)

	// OnCraft records a committed (or dry-run) craft.
	OnCraft(ctx context.Context, target string, amount int, dryRun bool, duration time.Duration, err error)

	// OnRecipesReloaded records a published recipe table.
	OnRecipesReloaded(ctx context.Context, recipes int, version string)
}

// =============================================================================
// Pool Hooks
// =============================================================================

// PoolHooks receives events from resource pool persistence.
type PoolHooks interface {
	// OnPoolLoad records a read of the persisted pool.
	OnPoolLoad(ctx context.Context, backend string, items int, duration time.Duration, err error)

	// OnPoolMutation records a load-modify-store cycle.
	OnPoolMutation(ctx context.Context, backend, op string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopWorkshopHooks is a no-op implementation of WorkshopHooks.
type NoopWorkshopHooks struct{}

func (NoopWorkshopHooks) OnResolveStart(context.Context, string, int) {}
func (NoopWorkshopHooks) OnResolveComplete(context.Context, string, int, bool, time.Duration, error) {
}
func (NoopWorkshopHooks) OnCraft(context.Context, string, int, bool, time.Duration, error) {}
func (NoopWorkshopHooks) OnRecipesReloaded(context.Context, int, string)                  {}

// NoopPoolHooks is a no-op implementation of PoolHooks.
type NoopPoolHooks struct{}

func (NoopPoolHooks) OnPoolLoad(context.Context, string, int, time.Duration, error)        {}
func (NoopPoolHooks) OnPoolMutation(context.Context, string, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	workshopHooks WorkshopHooks = NoopWorkshopHooks{}
	poolHooks     PoolHooks     = NoopPoolHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetWorkshopHooks registers custom workshop hooks.
// This should be called once at application startup.
func SetWorkshopHooks(h WorkshopHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		workshopHooks = h
	}
}

// SetPoolHooks registers custom pool hooks.
func SetPoolHooks(h PoolHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		poolHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Workshop returns the registered workshop hooks.
func Workshop() WorkshopHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return workshopHooks
}

// Pool returns the registered pool hooks.
func Pool() PoolHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return poolHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	workshopHooks = NoopWorkshopHooks{}
	poolHooks = NoopPoolHooks{}
	cacheHooks = NoopCacheHooks{}
}
