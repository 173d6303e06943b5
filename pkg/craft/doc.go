// Package craft answers "what is still missing to craft N of X" and commits
// crafts against a stock of owned items.
//
// # Expander
//
// [Expander.Expand] builds the naive requirement tree: the total cost of
// producing N units from nothing, ignoring stock. [Expander.Flatten] lists
// one level of direct ingredients for materials displays.
//
// # Resolver
//
// [Resolver.Resolve] runs two passes over a private copy of the stock.
//
// Phase A simulates synthesis bottom-up. Each intermediate is asked to
// produce only what its parent's stock does not already cover, and an item
// can be produced only as far as its scarcest direct ingredient allows
// (the bottleneck rule). Synthesized quantities are recorded in a [Ledger].
//
// Phase B walks the recipe graph again under the updated stock and builds a
// deficit tree: each node's amount is what is still missing. Ingredients are
// visited in declaration order and claim stock as they go, so when two
// siblings share a sub-ingredient the earlier one is served first.
//
// # Executor
//
// [Executor.Craft] commits a craft to a stock: it adds the output, then
// consumes ingredients top-down, auto-producing any intermediate that runs
// short from its own ingredients. It never refuses; raw shortfalls are
// clamped at zero and reported in the [Receipt].
//
// All three detect recipe cycles per call and fail with a RECIPE_CYCLE error
// rather than recursing forever.
package craft
