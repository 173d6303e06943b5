package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/craftwise/pkg/craft"
	"github.com/matzehuels/craftwise/pkg/pool"
)

func sampleTree() *craft.Node {
	return &craft.Node{Name: "Lantern", Amount: 1, Ingredients: []*craft.Node{
		{Name: "Torch", Amount: 1, Ingredients: []*craft.Node{
			{Name: "Coal", Amount: 1},
		}},
		{Name: "Iron Plate", Amount: 0},
	}}
}

func press(m tea.Model, keys ...tea.KeyType) tea.Model {
	for _, k := range keys {
		m, _ = m.Update(tea.KeyMsg{Type: k})
	}
	return m
}

func TestTreeModelFold(t *testing.T) {
	m := NewTreeModel("Lantern ×1", sampleTree(), true)
	if len(m.rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(m.rows))
	}

	folded := press(m, tea.KeyDown, tea.KeyEnter).(TreeModel)
	if folded.Cursor != 1 {
		t.Errorf("Cursor = %d, want 1", folded.Cursor)
	}
	if len(folded.rows) != 3 {
		t.Errorf("rows after fold = %d, want 3", len(folded.rows))
	}
	if strings.Contains(folded.View(), "Coal") {
		t.Error("folded view should hide Coal")
	}

	unfolded := press(folded, tea.KeySpace).(TreeModel)
	if len(unfolded.rows) != 4 {
		t.Errorf("rows after unfold = %d, want 4", len(unfolded.rows))
	}
}

func TestTreeModelLeafAndBounds(t *testing.T) {
	m := NewTreeModel("t", sampleTree(), false)

	m = press(m, tea.KeyUp).(TreeModel)
	if m.Cursor != 0 {
		t.Errorf("Cursor moved above the first row: %d", m.Cursor)
	}

	m = press(m, tea.KeyDown, tea.KeyDown, tea.KeyDown, tea.KeyDown, tea.KeyDown).(TreeModel)
	if m.Cursor != 3 {
		t.Errorf("Cursor = %d, want 3 (last row)", m.Cursor)
	}

	m = press(m, tea.KeyEnter).(TreeModel)
	if len(m.rows) != 4 {
		t.Errorf("folding a leaf changed rows to %d", len(m.rows))
	}
}

func TestTreeModelQuit(t *testing.T) {
	m := NewTreeModel("t", sampleTree(), false)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc should return a quit command")
	}
	if next.View() != "" {
		t.Error("view after quit should be empty")
	}
}

func TestStockTable(t *testing.T) {
	stock := pool.Stock{"Coal": 4, "Torch": 0}
	out := stockTable(stock, func(name string) bool { return name == "Torch" })

	for _, want := range []string{"Item", "Coal", "Torch", "crafted", "raw"} {
		if !strings.Contains(out, want) {
			t.Errorf("stockTable() missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Coal") > strings.Index(out, "Torch") {
		t.Error("stockTable() rows should be sorted")
	}
}
