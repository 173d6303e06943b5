package recipe

import (
	"slices"
	"testing"

	"github.com/matzehuels/craftwise/pkg/errors"
)

func chain(pairs ...string) []Recipe {
	var out []Recipe
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Recipe{Output: pairs[i], Ingredients: []Ingredient{{pairs[i+1], 1}}})
	}
	return out
}

func TestFindCycle(t *testing.T) {
	tests := []struct {
		name    string
		recipes []Recipe
		want    []string
	}{
		{"acyclic", chain("A", "B", "B", "C"), nil},
		{"self loop", chain("A", "A"), []string{"A", "A"}},
		{"two cycle", chain("A", "B", "B", "A"), []string{"A", "B", "A"}},
		{"cycle below root", chain("R", "A", "A", "B", "B", "C", "C", "A"), []string{"A", "B", "C", "A"}},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewTable(tt.recipes).FindCycle()
			if !slices.Equal(got, tt.want) {
				t.Errorf("FindCycle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindCycleDiamondIsAcyclic(t *testing.T) {
	table := NewTable([]Recipe{
		{Output: "Top", Ingredients: []Ingredient{{"Left", 1}, {"Right", 1}}},
		{Output: "Left", Ingredients: []Ingredient{{"Base", 2}}},
		{Output: "Right", Ingredients: []Ingredient{{"Base", 3}}},
		{Output: "Base", Ingredients: []Ingredient{{"Ore", 1}}},
	})
	if c := table.FindCycle(); c != nil {
		t.Errorf("FindCycle() = %v, want nil for a diamond", c)
	}
	if err := table.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestValidateCycle(t *testing.T) {
	err := NewTable(chain("A", "B", "B", "A")).Validate()
	if !errors.Is(err, errors.ErrCodeRecipeCycle) {
		t.Fatalf("Validate() error = %v, want %v", err, errors.ErrCodeRecipeCycle)
	}
}

func TestBreakCycles(t *testing.T) {
	table := NewTable(chain("R", "A", "A", "B", "B", "A", "X", "X"))

	fixed, cycles := BreakCycles(table)
	if len(cycles) != 2 {
		t.Fatalf("BreakCycles() found %d cycles, want 2: %v", len(cycles), cycles)
	}
	if fixed.Has("B") {
		t.Error("B closes the A→B→A cycle and should have become raw")
	}
	if fixed.Has("X") {
		t.Error("X is a self loop and should have become raw")
	}
	if !fixed.Has("R") || !fixed.Has("A") {
		t.Error("recipes outside the closing edge should be kept")
	}
	if err := fixed.Validate(); err != nil {
		t.Errorf("Validate() after BreakCycles = %v", err)
	}
}

func TestBreakCyclesAcyclicUnchanged(t *testing.T) {
	table := NewTable(chain("A", "B"))
	fixed, cycles := BreakCycles(table)
	if fixed != table {
		t.Error("BreakCycles() should return the same table when acyclic")
	}
	if cycles != nil {
		t.Errorf("cycles = %v, want nil", cycles)
	}
}
