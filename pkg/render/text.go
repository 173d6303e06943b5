package render

import (
	"encoding/json"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/matzehuels/craftwise/pkg/craft"
)

var (
	missingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("167"))
	satisfiedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
	branchStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Text renders a requirement tree as an indented outline with box-drawing
// branches. Colors are dropped automatically when output is not a terminal.
func Text(root *craft.Node, opts Options) string {
	return textTree(root, opts).String() + "\n"
}

func textTree(n *craft.Node, opts Options) *tree.Tree {
	t := tree.Root(styledLabel(n, opts)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(branchStyle)
	for _, c := range n.Ingredients {
		if c.IsLeaf() {
			t.Child(styledLabel(c, opts))
			continue
		}
		t.Child(textTree(c, opts))
	}
	return t
}

func styledLabel(n *craft.Node, opts Options) string {
	if !opts.Deficit {
		return label(n)
	}
	if n.Amount == 0 {
		return satisfiedStyle.Render("✓ " + n.Name)
	}
	return missingStyle.Render(label(n))
}

// JSON renders a tree in its wire shape, indented.
func JSON(root *craft.Node) ([]byte, error) {
	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func label(n *craft.Node) string {
	return n.Name + " ×" + strconv.Itoa(n.Amount)
}
