// Package workshop ties the recipe registry, the resource pool and the
// crafting algorithms together.
//
// A [Workshop] is what the CLI and the HTTP server talk to. It captures the
// current recipe table and a pool snapshot once per call, so a concurrent
// recipe reload or pool mutation never changes a resolution halfway through.
// Resolutions are cached under a key that includes the pool hash and the
// table version; any change to either produces a fresh key.
//
//	w := workshop.New(registry, pool, cache.NewMemoryCache(time.Minute), nil, logger)
//	res, hit, err := w.Resolve(ctx, "Lantern", 2, workshop.ResolveOptions{})
//
// Crafts go through [pool.Pool.Apply], so the feasibility check and the
// commit see the same stock.
package workshop
