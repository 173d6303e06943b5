package recipe

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

// failingSource always fails to load.
type failingSource struct {
	name     string
	priority int
}

func (s failingSource) Name() string  { return s.name }
func (s failingSource) Priority() int { return s.priority }
func (s failingSource) Load(context.Context) ([]Recipe, error) {
	return nil, fmt.Errorf("malformed document")
}

func xRecipe(ing string) Recipe {
	return Recipe{Output: "X", Ingredients: []Ingredient{{ing, 1}}}
}

func TestBuilderPriorityWins(t *testing.T) {
	low := NewMapSource("low", 10, xRecipe("FromLow"))
	high := NewMapSource("high", 30, xRecipe("FromHigh"))

	orders := map[string][]Source{
		"low first":  {low, high},
		"high first": {high, low},
	}
	for name, sources := range orders {
		t.Run(name, func(t *testing.T) {
			res, err := NewBuilder(nil, sources...).Build(context.Background())
			if err != nil {
				t.Fatalf("Build() error: %v", err)
			}
			r, ok := res.Table.Lookup("X")
			if !ok {
				t.Fatal("X missing from merged table")
			}
			if r.Ingredients[0].Name != "FromHigh" {
				t.Errorf("X = %v, want the priority 30 recipe", r)
			}
		})
	}
}

func TestBuilderNoIngredientMerging(t *testing.T) {
	low := NewMapSource("low", 1, Recipe{Output: "X", Ingredients: []Ingredient{{"A", 1}, {"B", 2}}})
	high := NewMapSource("high", 2, Recipe{Output: "X", Ingredients: []Ingredient{{"C", 3}}})

	res, err := NewBuilder(nil, low, high).Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	r, _ := res.Table.Lookup("X")
	if !slices.Equal(r.Ingredients, []Ingredient{{"C", 3}}) {
		t.Errorf("X = %v, want only the winning source's ingredients", r.Ingredients)
	}
}

func TestBuilderTieLaterLoadWins(t *testing.T) {
	first := NewMapSource("first", 5, xRecipe("First"))
	second := NewMapSource("second", 5, xRecipe("Second"))

	res, err := NewBuilder(nil, first, second).Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	r, _ := res.Table.Lookup("X")
	if r.Ingredients[0].Name != "Second" {
		t.Errorf("X = %v, want the later-loaded source on equal priority", r)
	}
}

func TestBuilderKeepsDisjointRecipes(t *testing.T) {
	a := NewMapSource("a", 0, Recipe{Output: "A", Ingredients: []Ingredient{{"Ore", 1}}})
	b := NewMapSource("b", 9, Recipe{Output: "B", Ingredients: []Ingredient{{"A", 2}}})

	res, err := NewBuilder(nil, a, b).Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if res.Table.Len() != 2 {
		t.Errorf("Len() = %d, want 2", res.Table.Len())
	}
	if res.Reports[0].Won != 1 || res.Reports[1].Won != 1 {
		t.Errorf("Won = [%d %d], want [1 1]", res.Reports[0].Won, res.Reports[1].Won)
	}
}

func TestBuilderMalformedSourceSkipped(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	good := NewMapSource("good", 0, Recipe{Output: "A", Ingredients: []Ingredient{{"Ore", 1}}})
	bad := failingSource{name: "broken", priority: 100}

	res, err := NewBuilder(logger, good, bad).Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v, want nil for a failing source", err)
	}
	if !res.Table.Has("A") {
		t.Error("recipes from healthy sources should survive a failing source")
	}
	if res.Reports[1].Err == nil {
		t.Error("report for failing source should record the error")
	}
	if res.Reports[1].Recipes != 0 {
		t.Errorf("failing source Recipes = %d, want 0", res.Reports[1].Recipes)
	}
	if !strings.Contains(buf.String(), "recipe source skipped") {
		t.Errorf("expected a warning log, got %q", buf.String())
	}
}

func TestBuilderBreaksCycles(t *testing.T) {
	src := NewMapSource("cyclic", 0, chain("A", "B", "B", "A")...)

	res, err := NewBuilder(nil, src).Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if len(res.Cycles) != 1 {
		t.Fatalf("Cycles = %v, want one", res.Cycles)
	}
	if err := res.Table.Validate(); err != nil {
		t.Errorf("built table still has a cycle: %v", err)
	}
}

func TestBuilderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBuilder(nil, NewMapSource("a", 0)).Build(ctx)
	if err == nil {
		t.Error("Build() with cancelled context should fail")
	}
}
