package modalcolumnvisibility

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sheenazien8/sqgrid/grid"
	"github.com/sheenazien8/sqgrid/grid/pipeline"
	"github.com/sheenazien8/sqgrid/ui/modal"
	"github.com/sheenazien8/sqgrid/ui/theme"
)

// AppliedMsg carries the layout actions for the columns the user changed
type AppliedMsg struct {
	Actions []pipeline.Action
}

const (
	widthStep    = 4
	visibleLines = 15
)

// Model lists the columns of a result set for hiding, pinning and resizing
type Model struct {
	original []grid.Column
	columns  []grid.Column
	cursor   int
	offset   int

	search    string
	searching bool
	matches   []int

	visible bool
	width   int
	height  int
}

// New creates a hidden column manager
func New() Model {
	return Model{}
}

// Show opens the manager with the columns in display order
func (m *Model) Show(columns []grid.Column) {
	m.original = columns
	m.columns = append([]grid.Column(nil), columns...)
	for i := range m.columns {
		m.columns[i].DisplayWidth = max(pipeline.MinColumnWidth, m.columns[i].DisplayWidth)
	}
	m.cursor, m.offset = 0, 0
	m.search, m.searching = "", false
	m.match()
	m.visible = true
}

// Visible returns whether the manager is open
func (m Model) Visible() bool {
	return m.visible
}

// Hide closes the manager without applying
func (m *Model) Hide() {
	m.visible = false
}

// SetSize sets the screen size used for centering
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) match() {
	m.matches = m.matches[:0]
	needle := strings.ToLower(m.search)
	for i, col := range m.columns {
		if strings.Contains(strings.ToLower(col.Name), needle) {
			m.matches = append(m.matches, i)
		}
	}
	m.cursor = min(m.cursor, max(0, len(m.matches)-1))
}

func (m *Model) current() *grid.Column {
	if m.cursor >= len(m.matches) {
		return nil
	}
	return &m.columns[m.matches[m.cursor]]
}

// Update handles input. Space toggles visibility, p toggles pinning, +/-
// resize, / searches, a shows every column, enter applies and esc cancels.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !m.visible || !ok {
		return m, nil
	}
	key := keyMsg.String()

	if m.searching {
		switch key {
		case "enter", "esc":
			m.searching = false
		case "backspace":
			if m.search != "" {
				r := []rune(m.search)
				m.search = string(r[:len(r)-1])
			}
		default:
			if keyMsg.Type == tea.KeyRunes {
				m.search += string(keyMsg.Runes)
			}
		}
		m.match()
		return m, nil
	}

	switch key {
	case "up", "k":
		m.cursor = max(0, m.cursor-1)
	case "down", "j":
		m.cursor = min(max(0, len(m.matches)-1), m.cursor+1)
	case " ", "x":
		if c := m.current(); c != nil {
			c.Hidden = !c.Hidden
		}
	case "p":
		if c := m.current(); c != nil {
			c.Pinned = !c.Pinned
		}
	case "+", "=":
		if c := m.current(); c != nil {
			c.DisplayWidth += widthStep
		}
	case "-":
		if c := m.current(); c != nil {
			c.DisplayWidth = max(pipeline.MinColumnWidth, c.DisplayWidth-widthStep)
		}
	case "a":
		for i := range m.columns {
			m.columns[i].Hidden = false
		}
	case "/":
		m.searching = true
	case "esc":
		m.visible = false
	case "enter":
		m.visible = false
		actions := m.Actions()
		if len(actions) == 0 {
			return m, nil
		}
		return m, func() tea.Msg { return AppliedMsg{Actions: actions} }
	}

	if m.cursor < m.offset {
		m.offset = m.cursor
	} else if m.cursor >= m.offset+visibleLines {
		m.offset = m.cursor - visibleLines + 1
	}
	return m, nil
}

// Actions returns the layout actions that turn the original columns into the
// edited ones
func (m Model) Actions() []pipeline.Action {
	var actions []pipeline.Action
	for i, col := range m.columns {
		orig := m.original[i]
		if col.Hidden != orig.Hidden {
			actions = append(actions, pipeline.SetColumnHidden{Column: col.Name, Hidden: col.Hidden})
		}
		if col.Pinned != orig.Pinned {
			actions = append(actions, pipeline.SetColumnPinned{Column: col.Name, Pinned: col.Pinned})
		}
		if col.DisplayWidth != max(pipeline.MinColumnWidth, orig.DisplayWidth) {
			actions = append(actions, pipeline.SetColumnWidth{Column: col.Name, Width: col.DisplayWidth})
		}
	}
	return actions
}

// View renders the manager
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	t := theme.Current
	width := modal.DialogWidth(m.width, 56)

	hidden := 0
	for _, col := range m.columns {
		if col.Hidden {
			hidden++
		}
	}

	var lines []string
	search := "/ to search"
	if m.searching || m.search != "" {
		search = "Search: " + m.search
		if m.searching {
			search += "▏"
		}
	}
	lines = append(lines, t.Muted.Render(search), "")

	end := min(len(m.matches), m.offset+visibleLines)
	for i := m.offset; i < end; i++ {
		col := m.columns[m.matches[i]]
		box := "[x]"
		if col.Hidden {
			box = "[ ]"
		}
		pin := " "
		if col.Pinned {
			pin = "P"
		}
		line := fmt.Sprintf("%s %s %-*s w:%d", box, pin, max(8, width-24), col.Name, col.DisplayWidth)
		style := t.Cell
		if col.Hidden {
			style = t.Muted
		}
		if i == m.cursor {
			style = t.Cursor
		}
		lines = append(lines, style.Render(line))
	}
	if len(m.matches) == 0 {
		lines = append(lines, t.Muted.Render("no matching columns"))
	}

	title := fmt.Sprintf("Columns (%d/%d shown)", len(m.columns)-hidden, len(m.columns))
	help := "space toggle · p pin · +/- width · a show all · enter apply · esc cancel"
	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return modal.Place(m.width, m.height, modal.Frame(title, body, help, width))
}
