package workshop

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/craftwise/pkg/cache"
	"github.com/matzehuels/craftwise/pkg/craft"
	"github.com/matzehuels/craftwise/pkg/errors"
	"github.com/matzehuels/craftwise/pkg/observability"
	"github.com/matzehuels/craftwise/pkg/pool"
	"github.com/matzehuels/craftwise/pkg/recipe"
)

// Workshop runs resolutions and crafts against a live recipe registry and
// resource pool. It is safe for concurrent use.
type Workshop struct {
	Recipes *recipe.Registry
	Pool    *pool.Pool
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
}

// New creates a workshop.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
func New(recipes *recipe.Registry, p *pool.Pool, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Workshop {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Workshop{
		Recipes: recipes,
		Pool:    p,
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
	}
}

// ResolveOptions controls [Workshop.Resolve].
type ResolveOptions struct {
	// NoCache skips the result cache for both lookup and store.
	NoCache bool
}

// ResolveResult is the wire shape of a resolution: the resolver response
// plus the derived status fields and the fingerprints it was computed from.
type ResolveResult struct {
	craft.Response

	Amount    int            `json:"amount"`
	Produced  int            `json:"produced"`
	Craftable bool           `json:"craftable"`
	Missing   map[string]int `json:"missing"`

	// FromStock is set when every node of the deficit tree is zero: owned
	// stock covers the whole request once the synthesized items are made.
	FromStock bool `json:"from_stock"`

	// Synthesized is the ledger in first-synthesis order.
	Synthesized []craft.LedgerEntry `json:"synthesized"`

	TableVersion string `json:"table_version"`
	PoolHash     string `json:"pool_hash"`
}

func newResolveResult(res *craft.Resolution, tableVersion, poolHash string) *ResolveResult {
	return &ResolveResult{
		Response:     res.Response(),
		Amount:       res.Amount,
		Produced:     res.Produced,
		Craftable:    res.Craftable(),
		Missing:      res.Missing(),
		FromStock:    res.Tree.AllZero(),
		Synthesized:  res.Ledger.Entries(),
		TableVersion: tableVersion,
		PoolHash:     poolHash,
	}
}

// Resolve computes what is missing to craft amount units of target from the
// current pool. The bool reports whether the result came from the cache.
func (w *Workshop) Resolve(ctx context.Context, target string, amount int, opts ResolveOptions) (result *ResolveResult, hit bool, err error) {
	if err := validateRequest(target, amount); err != nil {
		return nil, false, err
	}

	start := time.Now()
	observability.Workshop().OnResolveStart(ctx, target, amount)
	defer func() {
		craftable := result != nil && result.Craftable
		observability.Workshop().OnResolveComplete(ctx, target, amount, craftable, time.Since(start), err)
	}()

	table := w.Recipes.Table()
	stock, err := w.Pool.Snapshot(ctx)
	if err != nil {
		return nil, false, err
	}
	poolHash := stock.Hash()

	useCache := !opts.NoCache && !cache.Disabled(w.Cache)
	var key string
	if useCache {
		key = w.Keyer.ResolveKey(target, amount, cache.ResolveKeyOpts{
			PoolHash:     poolHash,
			TableVersion: table.Version(),
		})

		if data, ok, err := w.Cache.Get(ctx, key); err == nil && ok {
			var cached ResolveResult
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "resolve")
				w.Logger.Debug("resolution cache hit", "target", target, "amount", amount)
				return &cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "resolve")
	}

	res, err := craft.NewResolver(table).Resolve(target, amount, stock)
	if err != nil {
		return nil, false, err
	}
	result = newResolveResult(res, table.Version(), poolHash)

	w.Logger.Debug("resolved",
		"target", target,
		"amount", amount,
		"craftable", result.Craftable,
		"synthesized", len(result.Synthesized),
		"duration", time.Since(start))

	if useCache {
		if data, err := json.Marshal(result); err == nil {
			if err := w.Cache.Set(ctx, key, data, cache.TTLResolve); err != nil {
				w.Logger.Warn("resolution cache write failed", "err", err)
			} else {
				observability.Cache().OnCacheSet(ctx, "resolve", len(data))
			}
		}
	}
	return result, false, nil
}

// CraftOptions controls [Workshop.Craft].
type CraftOptions struct {
	// Force commits the craft even when the resolver reports missing items.
	// Raw shortfalls are then clamped to zero.
	Force bool

	// DryRun computes the post-craft pool without persisting it.
	DryRun bool
}

// CraftResult describes a committed or simulated craft.
type CraftResult struct {
	Receipt   *craft.Receipt `json:"receipt"`
	Craftable bool           `json:"craftable"`
	Forced    bool           `json:"forced"`
	DryRun    bool           `json:"dry_run"`

	// Pool is the stock after the craft.
	Pool pool.Stock `json:"pool"`
}

// InsufficientStockError is returned by [Workshop.Craft] when the pool does
// not cover the request and Force was not set.
type InsufficientStockError struct {
	Target  string
	Amount  int
	Missing map[string]int
	Tree    *craft.Node
}

func (e *InsufficientStockError) Error() string {
	return e.Unwrap().Error()
}

// Unwrap exposes the coded error so [errors.GetCode] reports
// INSUFFICIENT_STOCK.
func (e *InsufficientStockError) Unwrap() error {
	parts := make([]string, 0, len(e.Missing))
	for _, item := range slices.Sorted(maps.Keys(e.Missing)) {
		parts = append(parts, fmt.Sprintf("%d×%s", e.Missing[item], item))
	}
	return errors.New(errors.ErrCodeInsufficientStock,
		"cannot craft %d×%s: missing %s", e.Amount, e.Target, strings.Join(parts, ", "))
}

// Craft resolves target against the pool and, if it is craftable or Force
// is set, commits it. The check and the commit run inside one pool mutation.
func (w *Workshop) Craft(ctx context.Context, target string, amount int, opts CraftOptions) (result *CraftResult, err error) {
	if err := validateRequest(target, amount); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		observability.Workshop().OnCraft(ctx, target, amount, opts.DryRun, time.Since(start), err)
	}()

	table := w.Recipes.Table()
	commit := func(stock pool.Stock) error {
		res, err := craft.NewResolver(table).Resolve(target, amount, stock)
		if err != nil {
			return err
		}
		if !res.Craftable() && !opts.Force {
			return &InsufficientStockError{
				Target:  target,
				Amount:  amount,
				Missing: res.Missing(),
				Tree:    res.Tree,
			}
		}
		receipt, err := craft.NewExecutor(table).Craft(stock, target, amount)
		if err != nil {
			return err
		}
		result = &CraftResult{
			Receipt:   receipt,
			Craftable: res.Craftable(),
			Forced:    opts.Force && !res.Craftable(),
			DryRun:    opts.DryRun,
			Pool:      stock,
		}
		return nil
	}

	if opts.DryRun {
		stock, err := w.Pool.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		if err := commit(stock); err != nil {
			return nil, err
		}
		stock.Clamp()
		return result, nil
	}

	if err := w.Pool.Apply(ctx, "craft", commit); err != nil {
		return nil, err
	}
	result.Pool = result.Pool.Clone()

	w.Logger.Info("crafted",
		"target", target,
		"amount", amount,
		"forced", result.Forced,
		"auto_crafted", len(result.Receipt.AutoCrafted),
		"duration", time.Since(start))
	return result, nil
}

// Expand returns the naive expansion tree for amount units of name. It does
// not consult the pool.
func (w *Workshop) Expand(ctx context.Context, name string, amount int) (*craft.Node, error) {
	if err := validateRequest(name, amount); err != nil {
		return nil, err
	}
	return craft.NewExpander(w.Recipes.Table()).Expand(name, amount)
}

// Materials lists what producing amount units of name takes: the direct
// ingredients one level deep and the raw totals.
type Materials struct {
	Name   string         `json:"name"`
	Amount int            `json:"amount"`
	Direct map[string]int `json:"direct"`
	Raw    map[string]int `json:"raw"`
}

// Materials returns the materials list for amount units of name.
func (w *Workshop) Materials(ctx context.Context, name string, amount int) (*Materials, error) {
	if err := validateRequest(name, amount); err != nil {
		return nil, err
	}
	e := craft.NewExpander(w.Recipes.Table())
	raw, err := e.RawTotals(name, amount)
	if err != nil {
		return nil, err
	}
	direct, err := e.Flatten(name, amount)
	if err != nil {
		return nil, err
	}
	return &Materials{
		Name:   name,
		Amount: amount,
		Direct: direct,
		Raw:    raw,
	}, nil
}

// Recipe returns the recipe for name, or ITEM_NOT_FOUND with suggestions in
// the message.
func (w *Workshop) Recipe(name string) (recipe.Recipe, error) {
	if err := errors.ValidateItemName(name); err != nil {
		return recipe.Recipe{}, err
	}
	r, ok := w.Recipes.Table().Lookup(name)
	if !ok {
		return recipe.Recipe{}, w.notFound(name)
	}
	return r, nil
}

// Known reports whether name appears anywhere in the current recipe table.
func (w *Workshop) Known(name string) bool {
	t := w.Recipes.Table()
	if t.Has(name) {
		return true
	}
	_, found := slices.BinarySearch(t.Items(), name)
	return found
}

func (w *Workshop) notFound(name string) error {
	msg := fmt.Sprintf("no recipe for %q", name)
	if s := w.Suggest(name); len(s) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(s, ", "))
	}
	return errors.New(errors.ErrCodeItemNotFound, "%s", msg)
}

// ReloadRecipes rebuilds the recipe table from its sources and publishes it.
func (w *Workshop) ReloadRecipes(ctx context.Context) (*recipe.Table, error) {
	t, err := w.Recipes.Reload(ctx)
	if err != nil {
		return nil, err
	}
	observability.Workshop().OnRecipesReloaded(ctx, t.Len(), t.Version())
	return t, nil
}

// Close releases the cache and the pool's store.
func (w *Workshop) Close() error {
	cerr := w.Cache.Close()
	if w.Pool != nil {
		if err := w.Pool.Close(); err != nil {
			return err
		}
	}
	return cerr
}

func validateRequest(name string, amount int) error {
	if err := errors.ValidateItemName(name); err != nil {
		return err
	}
	return errors.ValidateAmount(amount)
}
