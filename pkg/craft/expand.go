package craft

import (
	"github.com/matzehuels/craftwise/pkg/recipe"
)

// Expander builds stock-independent requirement trees.
type Expander struct {
	table *recipe.Table
}

// NewExpander creates an expander over table.
func NewExpander(table *recipe.Table) *Expander {
	return &Expander{table: table}
}

// Expand returns the naive requirement tree for producing multiplier units
// of name from nothing. A raw item yields a leaf with Amount = multiplier.
// Children follow recipe declaration order.
func (e *Expander) Expand(name string, multiplier int) (*Node, error) {
	return e.expand(newGuard(), name, multiplier)
}

func (e *Expander) expand(g *guard, name string, multiplier int) (*Node, error) {
	node := newNode(name, multiplier)
	r, ok := e.table.Lookup(name)
	if !ok {
		return node, nil
	}
	if err := g.enter(name); err != nil {
		return nil, err
	}
	defer g.leave(name)

	scaled, err := r.Scaled(multiplier)
	if err != nil {
		return nil, err
	}
	for _, ing := range scaled {
		child, err := e.expand(g, ing.Name, ing.Qty)
		if err != nil {
			return nil, err
		}
		node.Ingredients = append(node.Ingredients, child)
	}
	return node, nil
}

// Flatten returns the direct ingredients of name scaled by multiplier, one
// level deep. A raw item yields an empty map.
func (e *Expander) Flatten(name string, multiplier int) (map[string]int, error) {
	out := make(map[string]int)
	r, ok := e.table.Lookup(name)
	if !ok {
		return out, nil
	}
	scaled, err := r.Scaled(multiplier)
	if err != nil {
		return nil, err
	}
	for _, ing := range scaled {
		out[ing.Name] += ing.Qty
	}
	return out, nil
}

// RawTotals returns the total raw materials needed to produce multiplier
// units of name from nothing.
func (e *Expander) RawTotals(name string, multiplier int) (map[string]int, error) {
	tree, err := e.Expand(name, multiplier)
	if err != nil {
		return nil, err
	}
	return tree.Leaves(), nil
}
