package craft

import (
	"strconv"
	"testing"

	"github.com/matzehuels/craftwise/pkg/recipe"
)

// table builds a recipe table from the JSON recipe format.
func table(t *testing.T, doc string) *recipe.Table {
	t.Helper()
	recipes, err := recipe.ParseJSON([]byte(doc))
	if err != nil {
		t.Fatalf("ParseJSON(%s): %v", doc, err)
	}
	return recipe.NewTable(recipes)
}

// tree renders a node compactly, e.g. "A:1(B:1(C:2))".
func tree(n *Node) string {
	s := n.Name + ":" + strconv.Itoa(n.Amount)
	if n.IsLeaf() {
		return s
	}
	s += "("
	for i, c := range n.Ingredients {
		if i > 0 {
			s += " "
		}
		s += tree(c)
	}
	return s + ")"
}

const scenarioRecipes = `{"A": {"B": 2}, "B": {"C": 3}}`

const torchRecipes = `{"Torch": {"Stick": 1, "Coal": 1}, "Stick": {"Plank": 2}}`

const lanternRecipes = `{
	"Lantern": {"Torch": 1, "Iron Plate": 1},
	"Torch": {"Stick": 1, "Coal": 1},
	"Stick": {"Plank": 2},
	"Iron Plate": {"Iron Ingot": 3},
	"Iron Ingot": {"Iron Ore": 1, "Coal": 1}
}`

// deepRecipes multiplies by 10000 per level, so one unit of A needs 10^16 E.
const deepRecipes = `{
	"A": {"B": 10000},
	"B": {"C": 10000},
	"C": {"D": 10000},
	"D": {"E": 10000}
}`
