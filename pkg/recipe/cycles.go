package recipe

import (
	"slices"

	"github.com/matzehuels/craftwise/pkg/errors"
)

// FindCycle returns the first recipe cycle found in the table as a path that
// starts and ends with the same item (e.g. [A B A]), or nil if the recipe
// graph is acyclic. Outputs are visited in table order and ingredients in
// declaration order, so the result is deterministic.
func (t *Table) FindCycle() []string {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(t.recipes))
	var stack []string
	var cycle []string

	var dfs func(name string) bool
	dfs = func(name string) bool {
		color[name] = gray
		stack = append(stack, name)
		r := t.recipes[name]
		for _, ing := range r.Ingredients {
			if !t.Has(ing.Name) {
				continue
			}
			switch color[ing.Name] {
			case white:
				if dfs(ing.Name) {
					return true
				}
			case gray:
				start := slices.Index(stack, ing.Name)
				cycle = append(slices.Clone(stack[start:]), ing.Name)
				return true
			}
		}
		stack = stack[:len(stack)-1]
		color[name] = black
		return false
	}

	for _, name := range t.order {
		if color[name] == white && dfs(name) {
			return cycle
		}
	}
	return nil
}

// Validate returns a RECIPE_CYCLE error if any recipe transitively requires
// itself.
func (t *Table) Validate() error {
	if cycle := t.FindCycle(); cycle != nil {
		return errors.Cycle(cycle)
	}
	return nil
}

// BreakCycles returns a table with every cycle removed, together with the
// cycles that were found. Each cycle is broken by dropping the recipe of the
// item whose ingredient closes it, so that item becomes raw. If the table is
// already acyclic it is returned unchanged.
func BreakCycles(t *Table) (*Table, [][]string) {
	var cycles [][]string
	for {
		cycle := t.FindCycle()
		if cycle == nil {
			return t, cycles
		}
		cycles = append(cycles, cycle)
		closing := cycle[len(cycle)-2]

		kept := make([]Recipe, 0, t.Len()-1)
		for _, r := range t.Recipes() {
			if r.Output != closing {
				kept = append(kept, r)
			}
		}
		t = NewTable(kept)
	}
}
