package craft

import (
	"github.com/matzehuels/craftwise/pkg/errors"
	"github.com/matzehuels/craftwise/pkg/pool"
	"github.com/matzehuels/craftwise/pkg/recipe"
)

// SimulationState is the private working state of one resolution: a copy of
// the owned stock and the synthesis ledger. It is never shared between
// resolutions.
type SimulationState struct {
	Stock  pool.Stock
	Ledger Ledger
}

// NewSimulationState copies stock into a fresh state.
func NewSimulationState(stock pool.Stock) *SimulationState {
	return &SimulationState{Stock: stock.Clone()}
}

// Resolution is the outcome of [Resolver.Resolve].
type Resolution struct {
	Target string
	Amount int

	// Tree is the deficit tree rooted at Target.
	Tree *Node

	// Ledger lists what Phase A synthesized from owned stock.
	Ledger Ledger

	// Produced is how many units of Target Phase A synthesized.
	Produced int

	// Remaining is the simulated stock after both phases.
	Remaining pool.Stock
}

// Craftable reports whether nothing further is needed: every direct
// ingredient of the root has a zero deficit. For a raw target the root
// itself must be zero.
func (r *Resolution) Craftable() bool {
	if r.Tree.IsLeaf() {
		return r.Tree.Amount == 0
	}
	for _, c := range r.Tree.Ingredients {
		if c.Amount != 0 {
			return false
		}
	}
	return true
}

// Missing sums the deficits of raw leaves per item.
func (r *Resolution) Missing() map[string]int {
	return r.Tree.Leaves()
}

// Response is the serializable resolver result.
type Response struct {
	Name       string         `json:"name"`
	FullRecipe *Node          `json:"full_recipe"`
	Messages   map[string]int `json:"messages"`
}

// Response converts the resolution to its wire shape.
func (r *Resolution) Response() Response {
	return Response{
		Name:       r.Target,
		FullRecipe: r.Tree,
		Messages:   r.Ledger.Map(),
	}
}

// Resolver computes deficit trees against a recipe table.
// A Resolver holds no mutable state and is safe for concurrent use.
type Resolver struct {
	table *recipe.Table
}

// NewResolver creates a resolver over table.
func NewResolver(table *recipe.Table) *Resolver {
	return &Resolver{table: table}
}

// Resolve computes what is still missing to craft amount units of target,
// given stock. stock is copied and never modified. An unknown target is
// treated as a raw item. amount must pass [errors.ValidateAmount].
func (r *Resolver) Resolve(target string, amount int, stock pool.Stock) (*Resolution, error) {
	if err := errors.ValidateAmount(amount); err != nil {
		return nil, err
	}
	w := &resolution{
		table: r.table,
		state: NewSimulationState(stock),
		guard: newGuard(),
	}

	before := w.state.Stock[target]
	if err := w.simulate(target, amount); err != nil {
		return nil, err
	}
	produced := w.state.Stock[target] - before

	var need int
	if produced >= amount {
		need = produced - amount
	} else {
		need = amount - produced
	}

	tree, err := w.deficit(target, need)
	if err != nil {
		return nil, err
	}

	return &Resolution{
		Target:    target,
		Amount:    amount,
		Tree:      tree,
		Ledger:    w.state.Ledger,
		Produced:  produced,
		Remaining: w.state.Stock,
	}, nil
}

// resolution carries one Resolve call's state through both phases.
type resolution struct {
	table *recipe.Table
	state *SimulationState
	guard *guard
}

// simulate is Phase A: synthesize up to want units of item from stock,
// limited by the scarcest direct ingredient.
func (w *resolution) simulate(item string, want int) error {
	r, ok := w.table.Lookup(item)
	if !ok {
		return nil
	}
	if err := w.guard.enter(item); err != nil {
		return err
	}
	defer w.guard.leave(item)

	scaled, err := r.Scaled(want)
	if err != nil {
		return err
	}

	stock := w.state.Stock
	for _, ing := range scaled {
		if !w.table.Has(ing.Name) {
			continue
		}
		if err := w.simulate(ing.Name, max(0, ing.Qty-stock[ing.Name])); err != nil {
			return err
		}
	}

	maxShortfall := 0
	for _, ing := range r.Ingredients {
		possible := max(0, stock[ing.Name]) / ing.Qty
		maxShortfall = max(maxShortfall, want-possible)
	}
	craftable := want - maxShortfall
	if craftable <= 0 {
		return nil
	}

	stock[item] += craftable
	w.state.Ledger.Add(item, craftable)
	for _, ing := range r.Ingredients {
		stock[ing.Name] = max(0, stock[ing.Name]-ing.Qty*craftable)
	}
	return nil
}

// deficit is Phase B: build the node for item at the given need, consuming
// stock as children are visited in declaration order.
func (w *resolution) deficit(item string, need int) (*Node, error) {
	stock := w.state.Stock

	r, ok := w.table.Lookup(item)
	if !ok {
		have := stock[item]
		if have < need {
			if have != 0 {
				stock[item] = 0
			}
			return newNode(item, need-have), nil
		}
		if need != 0 {
			stock[item] = have - need
		}
		return newNode(item, 0), nil
	}

	if err := w.guard.enter(item); err != nil {
		return nil, err
	}
	defer w.guard.leave(item)

	scaled, err := r.Scaled(need)
	if err != nil {
		return nil, err
	}

	node := newNode(item, need)
	for _, ing := range scaled {
		required := ing.Qty

		var (
			child *Node
			err   error
		)
		switch have := stock[ing.Name]; {
		case !w.table.Has(ing.Name):
			// Raw leaves settle against stock themselves.
			child, err = w.deficit(ing.Name, required)
		case have < required:
			child, err = w.deficit(ing.Name, required-have)
			stock[ing.Name] = 0
		default:
			child, err = w.deficit(ing.Name, 0)
			if required != 0 {
				stock[ing.Name] -= required
			}
		}
		if err != nil {
			return nil, err
		}
		node.Ingredients = append(node.Ingredients, child)
	}
	return node, nil
}
