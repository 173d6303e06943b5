// Package recipe provides the immutable recipe table consumed by the crafting
// resolver, and the machinery that builds it from prioritized sources.
//
// # Table
//
// A [Table] maps an output item to its [Recipe]: an ordered list of
// ingredients with a per-unit quantity. Items without an entry are raw
// materials. Ingredient order is significant because sibling ingredients
// claim shared stock in declaration order, so parsers preserve document
// order instead of relying on map iteration.
//
// # Sources and the Builder
//
// A [Source] yields recipes with a priority. The [Builder] merges sources so
// that, per output item, the recipe from the highest-priority source wins
// outright; on equal priority the source loaded later wins. A source that
// fails to load contributes nothing and the failure is logged.
//
// Built-in sources:
//   - [BundledSource]: defaults compiled into the binary
//   - [FileSource]: a JSON or TOML document on disk
//   - [RemoteSource]: a JSON document fetched over HTTP with retry and cache fallback
//   - [MapSource]: in-memory recipes
//
// # Registry
//
// A [Registry] publishes the current table through an atomic pointer.
// Reloads build a fresh table and swap it in, so a resolution that already
// captured a table keeps a consistent view.
//
//	reg := recipe.NewRegistry(recipe.NewBuilder(logger,
//	    recipe.NewBundledSource(0),
//	    recipe.NewFileSource("overrides.toml", 100),
//	))
//	if _, err := reg.Reload(ctx); err != nil {
//	    return err
//	}
//	table := reg.Table()
package recipe
