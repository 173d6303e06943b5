package workshop

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestions caps how many names Suggest returns.
const maxSuggestions = 3

// suggestLimit is the largest edit distance still offered for a name of
// length n.
func suggestLimit(n int) int {
	switch {
	case n <= 4:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}

// Suggest returns up to three known item names close to name, best first.
// Matching is case-insensitive; a known name that contains name as a
// substring also counts as close.
func (w *Workshop) Suggest(name string) []string {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return nil
	}

	type candidate struct {
		name string
		dist int
	}
	var cands []candidate
	for _, item := range w.Recipes.Table().Items() {
		lower := strings.ToLower(item)
		if lower == query {
			if item != name {
				cands = append(cands, candidate{item, 0})
			}
			continue
		}
		dist := levenshtein.ComputeDistance(query, lower)
		if dist > suggestLimit(len(lower)) {
			if len(query) < 3 || !strings.Contains(lower, query) {
				continue
			}
			dist = suggestLimit(len(lower))
		}
		cands = append(cands, candidate{item, dist})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].dist == cands[j].dist {
			return cands[i].name < cands[j].name
		}
		return cands[i].dist < cands[j].dist
	})

	out := make([]string, 0, maxSuggestions)
	for _, c := range cands {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, c.name)
	}
	return out
}
