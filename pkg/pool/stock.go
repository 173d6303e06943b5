package pool

import (
	"maps"
	"slices"

	"github.com/matzehuels/craftwise/pkg/cache"
)

// Stock maps item names to owned quantities. Absent items count as zero.
type Stock map[string]int

// Get returns the quantity of name, or 0 if absent.
func (s Stock) Get(name string) int {
	return s[name]
}

// Clone returns an independent copy. Cloning nil yields an empty, non-nil Stock.
func (s Stock) Clone() Stock {
	out := make(Stock, len(s))
	maps.Copy(out, s)
	return out
}

// Items returns the item names in sorted order.
func (s Stock) Items() []string {
	return slices.Sorted(maps.Keys(s))
}

// Total returns the sum of all quantities.
func (s Stock) Total() int {
	n := 0
	for _, q := range s {
		n += q
	}
	return n
}

// Clamp raises every negative quantity to zero in place and returns the
// names that were clamped, sorted.
func (s Stock) Clamp() []string {
	var clamped []string
	for name, q := range s {
		if q < 0 {
			s[name] = 0
			clamped = append(clamped, name)
		}
	}
	slices.Sort(clamped)
	return clamped
}

// Hash returns a fingerprint of the stock contents. Zero entries are ignored
// so that an explicit 0 and an absent item fingerprint the same.
func (s Stock) Hash() string {
	nonzero := make(map[string]int, len(s))
	for name, q := range s {
		if q != 0 {
			nonzero[name] = q
		}
	}
	h, _ := cache.HashJSON(nonzero)
	return h
}
