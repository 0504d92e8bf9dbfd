// Package tab shows one tab per result set above the table, each keeping its
// own cursor position.
package tab

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sheenazien8/sqgrid/grid/engine"
	"github.com/sheenazien8/sqgrid/ui/table"
	"github.com/sheenazien8/sqgrid/ui/theme"
)

// SwitchedMsg is sent after the active result set changed
type SwitchedMsg struct {
	Index int
}

// Model is the tab bar plus the table of the active tab
type Model struct {
	grid   *engine.Grid
	tables []table.Model

	width   int
	height  int
	focused bool
}

// New creates a tab for each result set of g
func New(g *engine.Grid) Model {
	m := Model{grid: g, focused: true}
	for range g.Len() {
		m.tables = append(m.tables, table.New(g))
	}
	return m
}

// SetSize sets the size of the bar and the table under it
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	for i := range m.tables {
		m.tables[i].SetSize(width, max(0, height-1))
	}
}

// SetFocused sets whether the active table receives input
func (m *Model) SetFocused(focused bool) {
	m.focused = focused
	for i := range m.tables {
		m.tables[i].SetFocused(focused)
	}
}

// Len returns the number of tabs
func (m Model) Len() int {
	return len(m.tables)
}

// Table returns the table of the active tab
func (m *Model) Table() *table.Model {
	if len(m.tables) == 0 {
		return nil
	}
	return &m.tables[m.grid.Active()]
}

// Switch activates a tab. Out of range indices are ignored.
func (m *Model) Switch(index int) tea.Cmd {
	if index < 0 || index >= len(m.tables) || index == m.grid.Active() {
		return nil
	}
	m.grid.SetActive(index)
	m.tables[index].Clamp()
	return func() tea.Msg { return SwitchedMsg{Index: index} }
}

// Next activates the tab to the right, wrapping around
func (m *Model) Next() tea.Cmd {
	if len(m.tables) < 2 {
		return nil
	}
	return m.Switch((m.grid.Active() + 1) % len(m.tables))
}

// Prev activates the tab to the left, wrapping around
func (m *Model) Prev() tea.Cmd {
	if len(m.tables) < 2 {
		return nil
	}
	return m.Switch((m.grid.Active() - 1 + len(m.tables)) % len(m.tables))
}

// Update handles tab switching and forwards everything else to the active
// table. Mouse coordinates are relative to the tab bar.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused || len(m.tables) == 0 {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "]":
			return m, m.Next()
		case "[":
			return m, m.Prev()
		}
	case tea.MouseMsg:
		if msg.Y == 0 {
			if msg.Type == tea.MouseLeft {
				return m, m.Switch(m.tabAt(msg.X))
			}
			return m, nil
		}
		msg.Y--
		tbl := m.Table()
		updated, cmd := tbl.Update(msg)
		*tbl = updated
		return m, cmd
	}

	tbl := m.Table()
	updated, cmd := tbl.Update(msg)
	*tbl = updated
	return m, cmd
}

func (m Model) labels() []string {
	t := theme.Current
	labels := make([]string, len(m.tables))
	for i := range m.tables {
		name := fmt.Sprintf("Result %d", i+1)
		if pending := m.grid.PendingRows(i); pending > 0 {
			name += t.Badge.Render(fmt.Sprintf(" ●%d", pending))
		}
		style := t.TabInactive
		if i == m.grid.Active() {
			style = t.TabActive
		}
		labels[i] = style.Render(name)
	}
	return labels
}

func (m Model) tabAt(x int) int {
	pos := 0
	for i, label := range m.labels() {
		w := lipgloss.Width(label)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w
	}
	return -1
}

// View renders the tab bar and the active table
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 || len(m.tables) == 0 {
		return ""
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Top, m.labels()...)
	if name := m.grid.ResultSet().Table; name != "" {
		bar += theme.Current.Muted.Render("  " + name)
	}
	return lipgloss.JoinVertical(lipgloss.Left, bar, m.tables[m.grid.Active()].View())
}
