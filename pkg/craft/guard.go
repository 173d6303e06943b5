package craft

import (
	"slices"

	"github.com/matzehuels/craftwise/pkg/errors"
)

// guard tracks the items on the current recursion path and reports a cycle
// when an item is entered twice.
type guard struct {
	path   []string
	onPath map[string]bool
}

func newGuard() *guard {
	return &guard{onPath: make(map[string]bool)}
}

func (g *guard) enter(item string) error {
	if g.onPath[item] {
		start := slices.Index(g.path, item)
		return errors.Cycle(append(slices.Clone(g.path[start:]), item))
	}
	g.onPath[item] = true
	g.path = append(g.path, item)
	return nil
}

func (g *guard) leave(item string) {
	delete(g.onPath, item)
	g.path = g.path[:len(g.path)-1]
}
