// Package pkg provides the core libraries for Craftwise crafting resolution.
//
// # Overview
//
// Craftwise answers one question: given what I own, what does it take to
// craft this item? It walks recipe trees against a resource pool, crafts the
// intermediates that owned stock already covers, and reports the remaining
// deficit as a tree. The pkg directory is organized into:
//
//  1. [recipe] - Recipe tables, parsing, prioritized sources and the registry
//  2. [craft] - Pure algorithms: expansion, resolution, craft execution
//  3. [pool] - The persistent resource pool and its storage backends
//  4. [workshop] - Orchestration with caching (the entry point for CLI and API)
//  5. [render] - Text, JSON, DOT and SVG output of requirement trees
//  6. [server] - The HTTP JSON API
//
// # Architecture
//
// The typical data flow:
//
//	Recipe sources (bundled, files, remote)
//	         ↓
//	    [recipe] Builder + Registry (merged, cycle-free table)
//	         ↓
//	    [workshop] snapshot the [pool], check the [cache]
//	         ↓
//	    [craft] Resolver (synthesis ledger + deficit tree)
//	         ↓
//	    [render] text / JSON / DOT / SVG
//
// # Quick Start
//
// Resolve a target against a stock snapshot:
//
//	import (
//	    "github.com/matzehuels/craftwise/pkg/craft"
//	    "github.com/matzehuels/craftwise/pkg/pool"
//	    "github.com/matzehuels/craftwise/pkg/recipe"
//	)
//
//	recipes, _ := recipe.ParseJSON(data)
//	r := craft.NewResolver(recipe.NewTable(recipes))
//
//	res, _ := r.Resolve("Lantern", 2, pool.Stock{"Coal": 3, "Log": 4})
//	fmt.Println(res.Craftable(), res.Missing())
//
// With persistence and caching, go through a workshop:
//
//	store := pool.NewFileStore("pool.json", logger)
//	w := workshop.New(registry, pool.New(store), cache.NewMemoryCache(time.Minute), nil, logger)
//	result, cached, err := w.Resolve(ctx, "Lantern", 2, workshop.ResolveOptions{})
//
// # Supporting Packages
//
// [cache] - Cache interface with file, memory, Redis and null backends, plus
// the keyer that derives resolution keys from pool and table hashes.
//
// [errors] - Coded errors shared by every layer; the server maps codes to
// HTTP statuses.
//
// [observability] - Hook interfaces for metrics and tracing with no-op
// defaults.
//
// [httputil] - Retry with exponential backoff for remote recipe sources.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/craft/...              # Specific package
//	go test -run Example                 # Examples only
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB stores
//
// [recipe]: https://pkg.go.dev/github.com/matzehuels/craftwise/pkg/recipe
// [craft]: https://pkg.go.dev/github.com/matzehuels/craftwise/pkg/craft
// [pool]: https://pkg.go.dev/github.com/matzehuels/craftwise/pkg/pool
// [workshop]: https://pkg.go.dev/github.com/matzehuels/craftwise/pkg/workshop
// [render]: https://pkg.go.dev/github.com/matzehuels/craftwise/pkg/render
// [server]: https://pkg.go.dev/github.com/matzehuels/craftwise/pkg/server
// [cache]: https://pkg.go.dev/github.com/matzehuels/craftwise/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/craftwise/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/craftwise/pkg/observability
// [httputil]: https://pkg.go.dev/github.com/matzehuels/craftwise/pkg/httputil
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/craftwise/pkg/buildinfo
package pkg
