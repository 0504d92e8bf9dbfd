// Package filter is the filter bar. It parses "column op value" text into a
// pipeline filter and reports it to the app.
package filter

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sheenazien8/sqgrid/grid/pipeline"
	"github.com/sheenazien8/sqgrid/ui/theme"
)

// AppliedMsg is sent when the user submits a valid filter
type AppliedMsg struct {
	Column string
	Filter pipeline.Filter
}

// ClearedMsg is sent when the user clears all filters
type ClearedMsg struct{}

// ClosedMsg is sent when the bar loses focus without a change
type ClosedMsg struct{}

// Model is the filter bar
type Model struct {
	input   textinput.Model
	columns []string
	active  []string
	err     error
	width   int
}

// New creates a filter bar for the given column names
func New(columns []string) Model {
	ti := textinput.New()
	ti.Placeholder = "column op value, e.g. age > 30, name ~ jo, email is null"
	ti.CharLimit = 200
	ti.Width = 50
	ti.Prompt = ""
	ti.Blur()

	return Model{input: ti, columns: columns}
}

// SetColumns updates the column names used for parsing and completion
func (m *Model) SetColumns(columns []string) {
	m.columns = columns
}

// SetActive shows the filters currently applied to the result set
func (m *Model) SetActive(filters pipeline.FilterSpec) {
	m.active = m.active[:0]
	for _, column := range slices.Sorted(maps.Keys(filters)) {
		m.active = append(m.active, pipeline.Describe(column, filters[column]))
	}
}

// SetWidth sets the component width
func (m *Model) SetWidth(width int) {
	m.width = width
	m.input.Width = max(20, min(60, width-20))
}

// Focus focuses the input
func (m *Model) Focus() tea.Cmd {
	m.err = nil
	return m.input.Focus()
}

// Blur blurs the input
func (m *Model) Blur() {
	m.input.Blur()
}

// Focused reports whether the input has focus
func (m Model) Focused() bool {
	return m.input.Focused()
}

// Value returns the text in the input
func (m Model) Value() string {
	return m.input.Value()
}

// Err returns the last parse error
func (m Model) Err() error {
	return m.err
}

// Update handles input while the bar is focused
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.input.Focused() {
		return m, nil
	}

	switch keyMsg.String() {
	case "enter":
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			m.input.Blur()
			return m, send(ClosedMsg{})
		}
		column, f, err := pipeline.ParseFilter(text, m.columns)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.input.SetValue("")
		m.input.Blur()
		return m, send(AppliedMsg{Column: column, Filter: f})

	case "esc":
		m.err = nil
		m.input.Blur()
		return m, send(ClosedMsg{})

	case "ctrl+x":
		m.err = nil
		m.input.SetValue("")
		m.input.Blur()
		return m, send(ClearedMsg{})

	case "tab":
		m.input.SetValue(m.complete(m.input.Value()))
		m.input.CursorEnd()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// complete expands the leading word to a column name when the prefix is
// unambiguous
func (m Model) complete(text string) string {
	if strings.ContainsAny(text, " \t") {
		return text
	}
	var match string
	for _, c := range m.columns {
		if strings.HasPrefix(strings.ToLower(c), strings.ToLower(text)) {
			if match != "" {
				return text
			}
			match = c
		}
	}
	if match == "" {
		return text
	}
	return match + " "
}

func send(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// View renders the bar
func (m Model) View() string {
	t := theme.Current

	line := t.Title.Render("Filter: ") + m.input.View()
	switch {
	case m.err != nil:
		line += "  " + t.Error.Render(m.err.Error())
	case len(m.active) > 0:
		line += "  " + t.Success.Render("["+strings.Join(m.active, ", ")+"]")
	}

	style := t.Border.Copy().Padding(0, 1).Width(max(0, m.width-4))
	if m.input.Focused() {
		style = style.BorderForeground(t.Palette.Primary)
	}
	return style.Render(line)
}
