package recipe

import (
	"bytes"
	"encoding/json"
	"slices"
	"strconv"

	"github.com/matzehuels/craftwise/pkg/cache"
	"github.com/matzehuels/craftwise/pkg/errors"
)

// Ingredient is one input of a recipe: an item and the quantity consumed per
// unit of output.
type Ingredient struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

// Recipe describes how to produce one unit of Output.
type Recipe struct {
	Output      string       `json:"output"`
	Ingredients []Ingredient `json:"ingredients"`
}

// MaxIngredientQty bounds the per-unit quantity of a single ingredient in a
// recipe document.
const MaxIngredientQty = 10_000

// MaxScaledQty bounds an ingredient quantity after scaling, keeping every
// count exact as a JSON number.
const MaxScaledQty = 1<<53 - 1

// Scaled returns the recipe's ingredients with quantities multiplied by n,
// in declaration order. A product above [MaxScaledQty] or a negative n
// fails with INVALID_AMOUNT.
func (r Recipe) Scaled(n int) ([]Ingredient, error) {
	if n < 0 {
		return nil, errors.New(errors.ErrCodeInvalidAmount, "cannot scale %q by %d", r.Output, n)
	}
	out := make([]Ingredient, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		if n != 0 && ing.Qty > MaxScaledQty/n {
			return nil, errors.New(errors.ErrCodeInvalidAmount,
				"%d×%s for %d %s exceeds %d", ing.Qty, ing.Name, n, r.Output, MaxScaledQty)
		}
		out[i] = Ingredient{Name: ing.Name, Qty: ing.Qty * n}
	}
	return out, nil
}

// Table is an immutable mapping from item name to recipe.
// A Table is safe for concurrent use; it must not be modified after creation.
type Table struct {
	recipes map[string]Recipe
	order   []string
	version string
}

// NewTable creates a table from recipes, keeping the given order.
// A later recipe for the same output replaces an earlier one in place.
// Recipes without ingredients are skipped: such items are raw.
func NewTable(recipes []Recipe) *Table {
	t := &Table{recipes: make(map[string]Recipe, len(recipes))}
	for _, r := range recipes {
		if len(r.Ingredients) == 0 {
			continue
		}
		if _, ok := t.recipes[r.Output]; !ok {
			t.order = append(t.order, r.Output)
		}
		t.recipes[r.Output] = Recipe{
			Output:      r.Output,
			Ingredients: slices.Clone(r.Ingredients),
		}
	}
	data, _ := t.MarshalJSON()
	t.version = cache.Hash(data)[:16]
	return t
}

// Empty returns a table with no recipes.
func Empty() *Table {
	return NewTable(nil)
}

// Lookup returns the recipe for name. The second result is false for raw items.
func (t *Table) Lookup(name string) (Recipe, bool) {
	r, ok := t.recipes[name]
	return r, ok
}

// Has reports whether name has a recipe.
func (t *Table) Has(name string) bool {
	_, ok := t.recipes[name]
	return ok
}

// Len returns the number of recipes.
func (t *Table) Len() int { return len(t.recipes) }

// Outputs returns the craftable item names in table order.
func (t *Table) Outputs() []string { return slices.Clone(t.order) }

// Recipes returns all recipes in table order.
func (t *Table) Recipes() []Recipe {
	out := make([]Recipe, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.recipes[name])
	}
	return out
}

// Items returns every item the table mentions, as output or ingredient, sorted.
func (t *Table) Items() []string {
	seen := make(map[string]struct{})
	for _, r := range t.recipes {
		seen[r.Output] = struct{}{}
		for _, ing := range r.Ingredients {
			seen[ing.Name] = struct{}{}
		}
	}
	items := make([]string, 0, len(seen))
	for name := range seen {
		items = append(items, name)
	}
	slices.Sort(items)
	return items
}

// Version returns a short content hash identifying this table's recipes.
// Two tables with the same recipes in the same order share a version.
func (t *Table) Version() string { return t.version }

// MarshalJSON encodes the table in the recipe source format, keeping
// declaration order for both outputs and ingredients.
func (t *Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range t.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeRecipe(&buf, t.recipes[name])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeRecipe(buf *bytes.Buffer, r Recipe) {
	key, _ := json.Marshal(r.Output)
	buf.Write(key)
	buf.WriteString(":{")
	for j, ing := range r.Ingredients {
		if j > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(ing.Name)
		buf.Write(k)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(ing.Qty))
	}
	buf.WriteByte('}')
}
