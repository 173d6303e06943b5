package craft

import (
	"github.com/matzehuels/craftwise/pkg/errors"
	"github.com/matzehuels/craftwise/pkg/pool"
	"github.com/matzehuels/craftwise/pkg/recipe"
)

// Receipt describes what a committed craft did to the stock.
type Receipt struct {
	Target string `json:"target"`
	Amount int    `json:"amount"`

	// Consumed is how much of each item was taken from stock.
	Consumed map[string]int `json:"consumed"`

	// AutoCrafted is how many units of each intermediate were produced on
	// the fly because stock ran short.
	AutoCrafted map[string]int `json:"auto_crafted"`

	// Shortfall is how much of each raw item was needed but not owned.
	// A craft with a shortfall still completes; the item is left at zero.
	Shortfall map[string]int `json:"shortfall"`
}

// Complete reports whether the craft was fully covered by owned stock.
func (r *Receipt) Complete() bool {
	return len(r.Shortfall) == 0
}

// Executor commits crafts to a stock.
type Executor struct {
	table *recipe.Table
}

// NewExecutor creates an executor over table.
func NewExecutor(table *recipe.Table) *Executor {
	return &Executor{table: table}
}

// Craft adds amount units of target to stock, then consumes ingredients
// top-down. An ingredient with enough stock is decremented; otherwise it is
// zeroed and the missing units are produced from its own ingredients. Raw
// shortfalls leave the item at zero. stock is modified in place.
//
// Craft does not check feasibility; callers confirm it with a [Resolver]
// first when they need to. amount must pass [errors.ValidateAmount].
func (e *Executor) Craft(stock pool.Stock, target string, amount int) (*Receipt, error) {
	if err := errors.ValidateAmount(amount); err != nil {
		return nil, err
	}
	c := &commit{
		table: e.table,
		stock: stock,
		guard: newGuard(),
		receipt: &Receipt{
			Target:      target,
			Amount:      amount,
			Consumed:    make(map[string]int),
			AutoCrafted: make(map[string]int),
			Shortfall:   make(map[string]int),
		},
	}

	r, ok := e.table.Lookup(target)
	if !ok {
		stock[target] += amount
		return c.receipt, nil
	}
	scaled, err := r.Scaled(amount)
	if err != nil {
		return nil, err
	}
	if err := c.guard.enter(target); err != nil {
		return nil, err
	}
	stock[target] += amount
	for _, ing := range scaled {
		if err := c.consume(ing.Name, ing.Qty); err != nil {
			return nil, err
		}
	}
	return c.receipt, nil
}

type commit struct {
	table   *recipe.Table
	stock   pool.Stock
	guard   *guard
	receipt *Receipt
}

func (c *commit) consume(item string, n int) error {
	if n <= 0 {
		return nil
	}

	have := max(0, c.stock[item])
	if have >= n {
		c.stock[item] = have - n
		c.receipt.Consumed[item] += n
		return nil
	}

	if have > 0 {
		c.receipt.Consumed[item] += have
	}
	if _, ok := c.stock[item]; ok {
		c.stock[item] = 0
	}
	short := n - have

	r, ok := c.table.Lookup(item)
	if !ok {
		c.receipt.Shortfall[item] += short
		return nil
	}
	if err := c.guard.enter(item); err != nil {
		return err
	}
	defer c.guard.leave(item)

	scaled, err := r.Scaled(short)
	if err != nil {
		return err
	}
	c.receipt.AutoCrafted[item] += short
	for _, ing := range scaled {
		if err := c.consume(ing.Name, ing.Qty); err != nil {
			return err
		}
	}
	return nil
}
