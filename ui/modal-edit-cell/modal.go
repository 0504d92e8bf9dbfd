package modaleditcell

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sheenazien8/sqgrid/grid"
	"github.com/sheenazien8/sqgrid/ui/modal"
	"github.com/sheenazien8/sqgrid/ui/theme"
)

// SubmittedMsg carries the new value of the edited cell
type SubmittedMsg struct {
	Row    int
	Column string
	Value  any
}

const maxInputWidth = 60

// Model is the cell editor
type Model struct {
	input    textinput.Model
	row      int
	column   grid.Column
	table    string
	original any
	visible  bool

	width  int
	height int
}

// New creates a hidden cell editor
func New() Model {
	ti := textinput.New()
	ti.Placeholder = "new value"
	ti.CharLimit = 4000
	ti.Width = maxInputWidth
	return Model{input: ti}
}

// Show opens the editor on a cell with its current value
func (m *Model) Show(row int, column grid.Column, table string, current any) tea.Cmd {
	m.row = row
	m.column = column
	m.table = table
	m.original = current
	m.visible = true
	if current == nil {
		m.input.SetValue("")
	} else {
		m.input.SetValue(grid.ToString(current))
	}
	m.input.CursorEnd()
	return m.input.Focus()
}

// Hide closes the editor
func (m *Model) Hide() {
	m.visible = false
	m.input.Blur()
}

// Visible returns whether the editor is open
func (m Model) Visible() bool {
	return m.visible
}

// SetSize sets the screen size used for centering
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = min(maxInputWidth, modal.DialogWidth(width, 70)-10)
}

// Update handles input. Enter submits, ctrl+n submits NULL and esc cancels.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			return m.submit(ParseValue(m.input.Value(), m.original, m.column.DeclaredType))
		case "ctrl+n":
			return m.submit(nil)
		case "esc":
			m.Hide()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit(value any) (Model, tea.Cmd) {
	m.Hide()
	out := SubmittedMsg{Row: m.row, Column: m.column.Name, Value: value}
	return m, func() tea.Msg { return out }
}

// ParseValue converts edited text back to the kind of value the cell held,
// so numbers stay numbers in generated SQL. Text that does not parse is kept
// as a string.
func ParseValue(text string, original any, declaredType string) any {
	switch original.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		if n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64); err == nil {
			return n
		}
	case float32, float64:
		if f, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
			return f
		}
	case bool:
		if b, err := strconv.ParseBool(strings.TrimSpace(text)); err == nil {
			return b
		}
	case time.Time:
		for _, layout := range []string{grid.ISOTimeLayout, time.RFC3339Nano, time.DateTime, time.DateOnly} {
			if ts, err := time.Parse(layout, strings.TrimSpace(text)); err == nil {
				return ts
			}
		}
	case nil:
		return parseByType(text, declaredType)
	}
	return text
}

func parseByType(text, declaredType string) any {
	t := strings.ToUpper(declaredType)
	switch {
	case strings.Contains(t, "INT"):
		if n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64); err == nil {
			return n
		}
	case strings.Contains(t, "REAL"), strings.Contains(t, "FLOAT"), strings.Contains(t, "DOUBLE"),
		strings.Contains(t, "DECIMAL"), strings.Contains(t, "NUMERIC"):
		if f, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
			return f
		}
	}
	return text
}

// View renders the editor
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	t := theme.Current
	width := modal.DialogWidth(m.width, 70)

	where := "column '" + m.column.Name + "'"
	if m.table != "" {
		where = "table '" + m.table + "', " + where
	}
	current := t.NullCell.Render("NULL")
	if m.original != nil {
		current = grid.ToString(m.original)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		t.Muted.Render("Editing "+where),
		"",
		t.ColumnHeader.Render("Current: ")+truncate(current, width-16),
		t.ColumnHeader.Render("New value:"),
		m.input.View(),
	)
	title := "Edit Cell"
	if m.column.DeclaredType != "" {
		title += " (" + m.column.DeclaredType + ")"
	}
	return modal.Place(m.width, m.height, modal.Frame(title, body, "enter save · ctrl+n set NULL · esc cancel", width))
}

func truncate(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if width <= 1 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:min(len(r), width-1)]) + "…"
}
