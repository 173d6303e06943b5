package workshop

import (
	"context"
	stderrors "errors"
	"maps"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/craftwise/pkg/cache"
	"github.com/matzehuels/craftwise/pkg/errors"
	"github.com/matzehuels/craftwise/pkg/observability"
	"github.com/matzehuels/craftwise/pkg/pool"
	"github.com/matzehuels/craftwise/pkg/recipe"
)

const testRecipes = `{
	"A": {"B": 2},
	"B": {"C": 3},
	"Lantern": {"Torch": 1, "Iron Plate": 1},
	"Torch": {"Stick": 1, "Coal": 1},
	"Stick": {"Plank": 2},
	"Iron Plate": {"Iron Ingot": 3},
	"Iron Ingot": {"Iron Ore": 1, "Coal": 1}
}`

func newTestWorkshop(t *testing.T, initial pool.Stock) (*Workshop, *pool.MemoryStore) {
	t.Helper()
	recipes, err := recipe.ParseJSON([]byte(testRecipes))
	if err != nil {
		t.Fatal(err)
	}
	store := pool.NewMemoryStore(initial)
	w := New(
		recipe.NewStaticRegistry(recipe.NewTable(recipes)),
		pool.New(store),
		cache.NewMemoryCache(time.Minute),
		nil,
		nil,
	)
	t.Cleanup(func() { w.Close() })
	return w, store
}

func TestResolveFromStock(t *testing.T) {
	w, _ := newTestWorkshop(t, pool.Stock{"C": 6})

	res, _, err := w.Resolve(context.Background(), "A", 1, ResolveOptions{})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !res.FromStock || !res.Craftable {
		t.Errorf("FromStock = %v, Craftable = %v, want both true", res.FromStock, res.Craftable)
	}
	if res.Produced != 1 {
		t.Errorf("Produced = %d, want 1", res.Produced)
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWorkshop(t, pool.Stock{"C": 4})

	res, hit, err := w.Resolve(ctx, "A", 1, ResolveOptions{})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if hit {
		t.Error("first Resolve() should miss the cache")
	}
	if res.Craftable || res.FromStock {
		t.Errorf("Craftable = %v, FromStock = %v, want both false", res.Craftable, res.FromStock)
	}
	if !maps.Equal(res.Missing, map[string]int{"C": 2}) {
		t.Errorf("Missing = %v, want map[C:2]", res.Missing)
	}
	if !maps.Equal(res.Messages, map[string]int{"B": 1}) {
		t.Errorf("Messages = %v, want map[B:1]", res.Messages)
	}
	if res.FullRecipe.Amount != 1 || res.FullRecipe.Ingredients[0].Amount != 1 {
		t.Errorf("unexpected tree: %+v", res.FullRecipe)
	}

	again, hit, err := w.Resolve(ctx, "A", 1, ResolveOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Error("second Resolve() should hit the cache")
	}
	if again.Name != "A" || !maps.Equal(again.Missing, res.Missing) {
		t.Errorf("cached result = %+v, want %+v", again, res)
	}

	if _, hit, _ := w.Resolve(ctx, "A", 1, ResolveOptions{NoCache: true}); hit {
		t.Error("NoCache Resolve() should not hit the cache")
	}
}

type countingKeyer struct {
	cache.Keyer
	resolveKeys int
}

func (k *countingKeyer) ResolveKey(target string, amount int, opts cache.ResolveKeyOpts) string {
	k.resolveKeys++
	return k.Keyer.ResolveKey(target, amount, opts)
}

func TestResolveWithoutCacheSkipsKeys(t *testing.T) {
	ctx := context.Background()
	recipes, err := recipe.ParseJSON([]byte(testRecipes))
	if err != nil {
		t.Fatal(err)
	}
	keyer := &countingKeyer{Keyer: cache.NewDefaultKeyer()}
	w := New(recipe.NewStaticRegistry(recipe.NewTable(recipes)), pool.New(pool.NewMemoryStore(pool.Stock{"C": 4})), nil, keyer, nil)
	defer w.Close()

	for range 2 {
		if _, hit, err := w.Resolve(ctx, "A", 1, ResolveOptions{}); err != nil || hit {
			t.Fatalf("Resolve() hit = %v, err = %v", hit, err)
		}
	}
	if keyer.resolveKeys != 0 {
		t.Errorf("derived %d resolve keys with caching disabled", keyer.resolveKeys)
	}
}

func TestResolveCacheFollowsPool(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWorkshop(t, pool.Stock{"C": 4})

	if _, _, err := w.Resolve(ctx, "A", 1, ResolveOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := w.Pool.Set(ctx, "C", 6); err != nil {
		t.Fatal(err)
	}

	res, hit, err := w.Resolve(ctx, "A", 1, ResolveOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("Resolve() after a pool change should miss the cache")
	}
	if !res.Craftable {
		t.Error("Craftable = false after restocking, want true")
	}
}

func TestResolveValidation(t *testing.T) {
	w, _ := newTestWorkshop(t, nil)

	tests := []struct {
		name   string
		target string
		amount int
		want   errors.Code
	}{
		{"empty target", "", 1, errors.ErrCodeInvalidItem},
		{"zero amount", "A", 0, errors.ErrCodeInvalidAmount},
		{"negative amount", "A", -3, errors.ErrCodeInvalidAmount},
		{"huge amount", "A", errors.MaxAmount + 1, errors.ErrCodeInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := w.Resolve(context.Background(), tt.target, tt.amount, ResolveOptions{})
			if got := errors.GetCode(err); got != tt.want {
				t.Errorf("Resolve() code = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCraft(t *testing.T) {
	ctx := context.Background()
	w, store := newTestWorkshop(t, pool.Stock{"Stick": 5, "Coal": 5})

	res, err := w.Craft(ctx, "Torch", 2, CraftOptions{})
	if err != nil {
		t.Fatalf("Craft() error: %v", err)
	}
	want := pool.Stock{"Stick": 3, "Coal": 3, "Torch": 2}
	if !maps.Equal(res.Pool, want) {
		t.Errorf("result pool = %v, want %v", res.Pool, want)
	}
	if !res.Craftable || res.Forced {
		t.Errorf("Craftable = %v, Forced = %v", res.Craftable, res.Forced)
	}
	if store.Saves() != 1 {
		t.Errorf("store saves = %d, want 1", store.Saves())
	}

	got, err := w.Pool.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !maps.Equal(got, want) {
		t.Errorf("persisted pool = %v, want %v", got, want)
	}
}

func TestCraftUsesSynthesis(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWorkshop(t, pool.Stock{"C": 6})

	res, err := w.Craft(ctx, "A", 1, CraftOptions{})
	if err != nil {
		t.Fatalf("Craft() error: %v", err)
	}
	if want := (pool.Stock{"A": 1, "C": 0}); !maps.Equal(res.Pool, want) {
		t.Errorf("pool = %v, want %v", res.Pool, want)
	}
	if !maps.Equal(res.Receipt.AutoCrafted, map[string]int{"B": 2}) {
		t.Errorf("AutoCrafted = %v, want map[B:2]", res.Receipt.AutoCrafted)
	}
}

func TestCraftInsufficientStock(t *testing.T) {
	ctx := context.Background()
	w, store := newTestWorkshop(t, pool.Stock{"C": 4})

	_, err := w.Craft(ctx, "A", 1, CraftOptions{})
	if got := errors.GetCode(err); got != errors.ErrCodeInsufficientStock {
		t.Fatalf("Craft() code = %q, want %q (err %v)", got, errors.ErrCodeInsufficientStock, err)
	}

	var insufficient *InsufficientStockError
	if !stderrors.As(err, &insufficient) {
		t.Fatalf("error %T is not *InsufficientStockError", err)
	}
	if !maps.Equal(insufficient.Missing, map[string]int{"C": 2}) {
		t.Errorf("Missing = %v, want map[C:2]", insufficient.Missing)
	}
	if !strings.Contains(err.Error(), "2×C") {
		t.Errorf("error message %q should name the missing items", err)
	}
	if store.Saves() != 0 {
		t.Errorf("refused craft saved the pool %d times", store.Saves())
	}
}

func TestCraftForce(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWorkshop(t, pool.Stock{"Plank": 3, "Coal": 1})

	res, err := w.Craft(ctx, "Torch", 2, CraftOptions{Force: true})
	if err != nil {
		t.Fatalf("Craft() error: %v", err)
	}
	if !res.Forced {
		t.Error("Forced = false, want true")
	}
	if want := (pool.Stock{"Plank": 0, "Coal": 0, "Torch": 2}); !maps.Equal(res.Pool, want) {
		t.Errorf("pool = %v, want %v", res.Pool, want)
	}
	if !maps.Equal(res.Receipt.Shortfall, map[string]int{"Plank": 1, "Coal": 1}) {
		t.Errorf("Shortfall = %v", res.Receipt.Shortfall)
	}
}

func TestCraftDryRun(t *testing.T) {
	ctx := context.Background()
	initial := pool.Stock{"Stick": 5, "Coal": 5}
	w, store := newTestWorkshop(t, initial)

	res, err := w.Craft(ctx, "Torch", 2, CraftOptions{DryRun: true})
	if err != nil {
		t.Fatalf("Craft() error: %v", err)
	}
	if !res.DryRun || res.Pool["Torch"] != 2 {
		t.Errorf("dry run result = %+v", res)
	}
	if store.Saves() != 0 {
		t.Errorf("dry run saved the pool %d times", store.Saves())
	}
	got, _ := w.Pool.Snapshot(ctx)
	if !maps.Equal(got, initial) {
		t.Errorf("pool after dry run = %v, want %v", got, initial)
	}
}

func TestCraftConcurrent(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWorkshop(t, pool.Stock{"Stick": 10, "Coal": 10})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := w.Craft(ctx, "Torch", 1, CraftOptions{}); err != nil {
				t.Errorf("Craft() error: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := w.Pool.Snapshot(ctx)
	if want := (pool.Stock{"Stick": 0, "Coal": 0, "Torch": 10}); !maps.Equal(got, want) {
		t.Errorf("pool = %v, want %v", got, want)
	}
}

func TestMaterials(t *testing.T) {
	w, _ := newTestWorkshop(t, nil)

	m, err := w.Materials(context.Background(), "Torch", 2)
	if err != nil {
		t.Fatal(err)
	}
	if !maps.Equal(m.Direct, map[string]int{"Stick": 2, "Coal": 2}) {
		t.Errorf("Direct = %v", m.Direct)
	}
	if !maps.Equal(m.Raw, map[string]int{"Plank": 4, "Coal": 2}) {
		t.Errorf("Raw = %v", m.Raw)
	}
}

func TestExpand(t *testing.T) {
	w, _ := newTestWorkshop(t, pool.Stock{"Torch": 100})

	n, err := w.Expand(context.Background(), "Lantern", 2)
	if err != nil {
		t.Fatal(err)
	}
	if n.Amount != 2 || n.Ingredients[0].Name != "Torch" || n.Ingredients[0].Amount != 2 {
		t.Errorf("Expand ignores the pool, got %+v", n.Ingredients[0])
	}
}

func TestSuggest(t *testing.T) {
	w, _ := newTestWorkshop(t, nil)

	tests := []struct {
		query string
		want  []string
	}{
		{"Torhc", []string{"Torch"}},
		{"torch", []string{"Torch"}},
		{"iron", []string{"Iron Ore", "Iron Ingot", "Iron Plate"}},
		{"Torch", []string{}},
		{"Xylophone", []string{}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := w.Suggest(tt.query)
			if len(got) != len(tt.want) || (len(got) > 0 && !slices.Equal(got, tt.want)) {
				t.Errorf("Suggest(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestRecipeNotFound(t *testing.T) {
	w, _ := newTestWorkshop(t, nil)

	if _, err := w.Recipe("Torch"); err != nil {
		t.Fatalf("Recipe(Torch) error: %v", err)
	}

	_, err := w.Recipe("Torhc")
	if !errors.Is(err, errors.ErrCodeItemNotFound) {
		t.Fatalf("Recipe(Torhc) error = %v, want %s", err, errors.ErrCodeItemNotFound)
	}
	if !strings.Contains(err.Error(), "did you mean Torch") {
		t.Errorf("error %q should suggest Torch", err)
	}
}

func TestKnown(t *testing.T) {
	w, _ := newTestWorkshop(t, nil)

	for name, want := range map[string]bool{"Torch": true, "Coal": true, "Dragon Egg": false} {
		if got := w.Known(name); got != want {
			t.Errorf("Known(%q) = %v, want %v", name, got, want)
		}
	}
}

type recordingHooks struct {
	observability.NoopWorkshopHooks

	mu     sync.Mutex
	crafts []string
}

func (h *recordingHooks) OnCraft(_ context.Context, target string, _ int, dryRun bool, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	entry := target
	if dryRun {
		entry += " dry"
	}
	if err != nil {
		entry += " " + string(errors.GetCode(err))
	}
	h.crafts = append(h.crafts, entry)
}

func TestCraftHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetWorkshopHooks(hooks)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	w, _ := newTestWorkshop(t, pool.Stock{"C": 4})

	w.Craft(ctx, "A", 1, CraftOptions{})
	w.Craft(ctx, "A", 1, CraftOptions{DryRun: true, Force: true})

	want := []string{"A INSUFFICIENT_STOCK", "A dry"}
	if !slices.Equal(hooks.crafts, want) {
		t.Errorf("crafts = %v, want %v", hooks.crafts, want)
	}
}
