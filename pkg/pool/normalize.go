package pool

import "strings"

// Normalizer maps externally reported item names onto the pool's canonical
// naming. External sources may prefix items with a rarity or tier word
// ("Rare Iron Ore") that the pool does not use ("Iron Ore").
type Normalizer struct {
	qualifiers map[string]struct{}
}

// NewNormalizer creates a normalizer. With no qualifiers, any leading word
// is treated as a potential qualifier; otherwise only the listed words are
// (matched case-insensitively).
func NewNormalizer(qualifiers ...string) *Normalizer {
	n := &Normalizer{}
	if len(qualifiers) > 0 {
		n.qualifiers = make(map[string]struct{}, len(qualifiers))
		for _, q := range qualifiers {
			n.qualifiers[strings.ToLower(strings.TrimSpace(q))] = struct{}{}
		}
	}
	return n
}

// Strip removes the leading qualifier word from name. The second result is
// false when name has no strippable qualifier.
func (n *Normalizer) Strip(name string) (string, bool) {
	first, rest, ok := strings.Cut(strings.TrimSpace(name), " ")
	rest = strings.TrimSpace(rest)
	if !ok || rest == "" {
		return "", false
	}
	if n.qualifiers != nil {
		if _, known := n.qualifiers[strings.ToLower(first)]; !known {
			return "", false
		}
	}
	return rest, true
}

// Merge adds each delta into stock in sorted key order.
//
// An item already present in stock receives its delta directly. Otherwise,
// if stripping its qualifier yields an item already present in stock, the
// delta goes to that canonical entry. Failing both, a new entry is created
// under the name as given. Results are not clamped here.
//
// Merge returns the names that were redirected to a canonical entry.
func (n *Normalizer) Merge(stock, delta Stock) map[string]string {
	redirected := make(map[string]string)
	for _, name := range delta.Items() {
		d := delta[name]
		if _, ok := stock[name]; ok {
			stock[name] += d
			continue
		}
		if canonical, ok := n.Strip(name); ok {
			if _, exists := stock[canonical]; exists {
				stock[canonical] += d
				redirected[name] = canonical
				continue
			}
		}
		stock[name] += d
	}
	return redirected
}
