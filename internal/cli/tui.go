package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/craftwise/pkg/craft"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listMissingStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// TreeModel - Interactive recipe tree browser
// =============================================================================

// treeRow is one visible line of the browser.
type treeRow struct {
	node  *craft.Node
	depth int
	path  string
}

// TreeModel is the bubbletea model for browsing a resolved or expanded tree.
// Nodes with ingredients can be folded; folded paths are tracked by their
// position in the tree since item names repeat.
type TreeModel struct {
	Title    string
	Root     *craft.Node
	Deficit  bool
	Cursor   int
	Height   int
	Offset   int
	Folded   map[string]bool
	rows     []treeRow
	quitting bool
}

// NewTreeModel creates a tree browser with every node expanded.
func NewTreeModel(title string, root *craft.Node, deficit bool) TreeModel {
	m := TreeModel{
		Title:   title,
		Root:    root,
		Deficit: deficit,
		Height:  20,
		Folded:  make(map[string]bool),
	}
	m.rows = m.visibleRows()
	return m
}

func (m TreeModel) visibleRows() []treeRow {
	var rows []treeRow
	var visit func(n *craft.Node, depth int, path string)
	visit = func(n *craft.Node, depth int, path string) {
		rows = append(rows, treeRow{node: n, depth: depth, path: path})
		if m.Folded[path] {
			return
		}
		for i, child := range n.Ingredients {
			visit(child, depth+1, fmt.Sprintf("%s.%d", path, i))
		}
	}
	if m.Root != nil {
		visit(m.Root, 0, "0")
	}
	return rows
}

func (m TreeModel) Init() tea.Cmd {
	return nil
}

func (m TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			if len(m.rows) == 0 {
				return m, nil
			}
			row := m.rows[m.Cursor]
			if row.node.IsLeaf() {
				return m, nil
			}
			m.Folded[row.path] = !m.Folded[row.path]
			m.rows = m.visibleRows()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m TreeModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ fold  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.rows))
	for i := m.Offset; i < end; i++ {
		row := m.rows[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		marker := "  "
		if !row.node.IsLeaf() {
			marker = "▾ "
			if m.Folded[row.path] {
				marker = "▸ "
			}
		}

		line := fmt.Sprintf("%s%s%s%s ×%d", cursor, strings.Repeat("  ", row.depth), marker, row.node.Name, row.node.Amount)
		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case m.Deficit && row.node.Amount == 0:
			b.WriteString(StyleSuccess.Render(line))
		case m.Deficit && row.node.IsLeaf():
			b.WriteString(listMissingStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.rows))))

	return b.String()
}

// runTreeBrowser shows root in a full-screen browser until the user quits.
func runTreeBrowser(title string, root *craft.Node, deficit bool) error {
	_, err := tea.NewProgram(NewTreeModel(title, root, deficit), tea.WithAltScreen()).Run()
	return err
}
