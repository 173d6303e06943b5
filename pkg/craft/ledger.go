package craft

import "maps"

// LedgerEntry is one synthesized item and its cumulative quantity.
type LedgerEntry struct {
	Item string `json:"item"`
	Qty  int    `json:"qty"`
}

// Ledger records quantities auto-synthesized during simulation. Entries keep
// the order in which items were first synthesized, which is bottom-up.
type Ledger struct {
	qty   map[string]int
	order []string
}

// Add records n more units of item. Non-positive n is ignored.
func (l *Ledger) Add(item string, n int) {
	if n <= 0 {
		return
	}
	if l.qty == nil {
		l.qty = make(map[string]int)
	}
	if _, ok := l.qty[item]; !ok {
		l.order = append(l.order, item)
	}
	l.qty[item] += n
}

// Get returns the quantity synthesized for item.
func (l *Ledger) Get(item string) int { return l.qty[item] }

// Len returns the number of distinct synthesized items.
func (l *Ledger) Len() int { return len(l.order) }

// Entries returns the ledger in first-synthesis order.
func (l *Ledger) Entries() []LedgerEntry {
	out := make([]LedgerEntry, len(l.order))
	for i, item := range l.order {
		out[i] = LedgerEntry{Item: item, Qty: l.qty[item]}
	}
	return out
}

// Map returns a copy of the ledger as a map.
func (l *Ledger) Map() map[string]int {
	out := make(map[string]int, len(l.qty))
	maps.Copy(out, l.qty)
	return out
}
