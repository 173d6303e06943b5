package craft

import (
	"maps"
	"testing"

	"github.com/matzehuels/craftwise/pkg/errors"
	"github.com/matzehuels/craftwise/pkg/pool"
	"github.com/matzehuels/craftwise/pkg/recipe"
)

func TestCraftFromIntermediates(t *testing.T) {
	e := NewExecutor(table(t, torchRecipes))
	stock := pool.Stock{"Stick": 5, "Coal": 5}

	rec, err := e.Craft(stock, "Torch", 2)
	if err != nil {
		t.Fatalf("Craft() error: %v", err)
	}

	want := pool.Stock{"Stick": 3, "Coal": 3, "Torch": 2}
	if !maps.Equal(stock, want) {
		t.Errorf("stock = %v, want %v", stock, want)
	}
	if !rec.Complete() {
		t.Errorf("Complete() = false, shortfall %v", rec.Shortfall)
	}
	if len(rec.AutoCrafted) != 0 {
		t.Errorf("AutoCrafted = %v, want empty", rec.AutoCrafted)
	}
}

func TestCraftAutoCraftsAndClamps(t *testing.T) {
	e := NewExecutor(table(t, torchRecipes))
	stock := pool.Stock{"Plank": 3, "Coal": 1}

	rec, err := e.Craft(stock, "Torch", 2)
	if err != nil {
		t.Fatalf("Craft() error: %v", err)
	}

	if want := (pool.Stock{"Plank": 0, "Coal": 0, "Torch": 2}); !maps.Equal(stock, want) {
		t.Errorf("stock = %v, want %v", stock, want)
	}
	if _, ok := stock["Stick"]; ok {
		t.Error("intermediate absent from stock should not be created")
	}

	tests := []struct {
		name string
		got  map[string]int
		want map[string]int
	}{
		{"AutoCrafted", rec.AutoCrafted, map[string]int{"Stick": 2}},
		{"Consumed", rec.Consumed, map[string]int{"Plank": 3, "Coal": 1}},
		{"Shortfall", rec.Shortfall, map[string]int{"Plank": 1, "Coal": 1}},
	}
	for _, tt := range tests {
		if !maps.Equal(tt.got, tt.want) {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
	if rec.Complete() {
		t.Error("Complete() = true, want false")
	}
}

func TestCraftRawTarget(t *testing.T) {
	e := NewExecutor(table(t, torchRecipes))
	stock := pool.Stock{"Coal": 1}

	rec, err := e.Craft(stock, "Coal", 3)
	if err != nil {
		t.Fatal(err)
	}
	if stock["Coal"] != 4 {
		t.Errorf("Coal = %d, want 4", stock["Coal"])
	}
	if !rec.Complete() || len(rec.Consumed) != 0 {
		t.Errorf("receipt = %+v, want empty", rec)
	}
}

func TestCraftConservesRawMaterials(t *testing.T) {
	tbl := table(t, lanternRecipes)
	stock := pool.Stock{"Plank": 1, "Coal": 3, "Iron Ore": 10}

	rec, err := NewExecutor(tbl).Craft(stock, "Lantern", 2)
	if err != nil {
		t.Fatal(err)
	}
	totals, err := NewExpander(tbl).RawTotals("Lantern", 2)
	if err != nil {
		t.Fatal(err)
	}

	for item, want := range totals {
		if got := rec.Consumed[item] + rec.Shortfall[item]; got != want {
			t.Errorf("%s: consumed+shortfall = %d, want %d", item, got, want)
		}
	}
	if stock["Iron Ore"] != 4 {
		t.Errorf("Iron Ore = %d, want 4", stock["Iron Ore"])
	}
	for item, qty := range stock {
		if qty < 0 {
			t.Errorf("%s went negative: %d", item, qty)
		}
	}
}

func TestCraftCycle(t *testing.T) {
	cyclic := recipe.NewTable([]recipe.Recipe{
		{Output: "A", Ingredients: []recipe.Ingredient{{Name: "B", Qty: 2}}},
		{Output: "B", Ingredients: []recipe.Ingredient{{Name: "A", Qty: 1}}},
	})

	_, err := NewExecutor(cyclic).Craft(pool.Stock{}, "A", 1)
	if !errors.Is(err, errors.ErrCodeRecipeCycle) {
		t.Errorf("Craft() error = %v, want %v", err, errors.ErrCodeRecipeCycle)
	}
}

func TestCraftRejectsInvalidAmount(t *testing.T) {
	e := NewExecutor(table(t, torchRecipes))
	stock := pool.Stock{"Plank": 4, "Coal": 2}

	for _, amount := range []int{0, -3} {
		_, err := e.Craft(stock, "Torch", amount)
		if !errors.Is(err, errors.ErrCodeInvalidAmount) {
			t.Errorf("Craft(Torch, %d) error = %v, want %v", amount, err, errors.ErrCodeInvalidAmount)
		}
	}
	want := pool.Stock{"Plank": 4, "Coal": 2}
	if !maps.Equal(stock, want) {
		t.Errorf("rejected craft changed stock to %v", stock)
	}
}

func TestCraftQuantityOverflow(t *testing.T) {
	_, err := NewExecutor(table(t, deepRecipes)).Craft(pool.Stock{}, "A", 1)
	if !errors.Is(err, errors.ErrCodeInvalidAmount) {
		t.Errorf("Craft(A, 1) error = %v, want %v", err, errors.ErrCodeInvalidAmount)
	}
}
