package modalcellpreview

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sheenazien8/sqgrid/grid"
	"github.com/sheenazien8/sqgrid/ui/modal"
	"github.com/sheenazien8/sqgrid/ui/theme"
)

// Model shows the full value of one cell in a scrollable viewport
type Model struct {
	viewport viewport.Model
	title    string
	visible  bool

	width  int
	height int
}

// New creates a hidden preview
func New() Model {
	return Model{viewport: viewport.New(60, 15)}
}

// Show opens the preview for a cell value
func (m *Model) Show(column grid.Column, value any) {
	m.title = "Cell Preview: " + column.Name
	if column.DeclaredType != "" {
		m.title += " (" + column.DeclaredType + ")"
	}
	m.viewport.SetContent(Format(value))
	m.viewport.GotoTop()
	m.visible = true
}

// Hide closes the preview
func (m *Model) Hide() {
	m.visible = false
}

// Visible returns whether the preview is open
func (m Model) Visible() bool {
	return m.visible
}

// SetSize sizes the viewport to the screen
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = modal.DialogWidth(width, 90) - 6
	m.viewport.Height = max(3, min(20, height-12))
}

// Update scrolls the viewport; esc, enter or q close the preview
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "enter", "q":
			m.visible = false
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// Format renders a value for reading: NULL for nil, indented JSON for JSON
// documents, hex dump for bytes and plain text otherwise.
func Format(value any) string {
	switch v := value.(type) {
	case nil:
		return "NULL"
	case []byte:
		return hexDump(v)
	case string:
		trimmed := strings.TrimSpace(v)
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			var buf bytes.Buffer
			if json.Indent(&buf, []byte(trimmed), "", "  ") == nil {
				return buf.String()
			}
		}
		return v
	}
	return grid.ToString(value)
}

func hexDump(b []byte) string {
	var lines []string
	for off := 0; off < len(b); off += 16 {
		end := min(off+16, len(b))
		lines = append(lines, fmt.Sprintf("%08x  % x", off, b[off:end]))
	}
	if len(lines) == 0 {
		return "(empty)"
	}
	return strings.Join(lines, "\n")
}

// View renders the preview
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	help := fmt.Sprintf("↑↓ scroll · %3.f%% · esc close", m.viewport.ScrollPercent()*100)
	body := theme.Current.Cell.Render(m.viewport.View())
	return modal.Place(m.width, m.height, modal.Frame(m.title, body, help, modal.DialogWidth(m.width, 90)))
}
