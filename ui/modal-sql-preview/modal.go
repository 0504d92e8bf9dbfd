package modalsqlpreview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sheenazien8/sqgrid/grid/changes"
	"github.com/sheenazien8/sqgrid/ui/modal"
	"github.com/sheenazien8/sqgrid/ui/theme"
)

// CopyMsg asks the app to put the script on the clipboard
type CopyMsg struct {
	Script string
}

// AppliedMsg tells the app the script was run and the changes can be dropped
type AppliedMsg struct{}

// Model previews the SQL that applies the pending changes
type Model struct {
	viewport viewport.Model
	script   changes.Script
	table    string
	visible  bool

	width  int
	height int
}

// New creates a hidden preview
func New() Model {
	return Model{viewport: viewport.New(80, 15)}
}

// Show opens the preview for a generated script
func (m *Model) Show(table string, script changes.Script) {
	m.table = table
	m.script = script
	m.visible = true
	m.refresh()
}

func (m *Model) refresh() {
	var parts []string
	if len(m.script.Statements) == 0 {
		parts = append(parts, theme.Current.Muted.Render("-- no statements"))
	} else {
		parts = append(parts, Highlight(m.script.String()))
	}
	m.viewport.SetContent(strings.Join(parts, "\n"))
	m.viewport.GotoTop()
}

// Visible returns whether the preview is open
func (m Model) Visible() bool {
	return m.visible
}

// Hide closes the preview
func (m *Model) Hide() {
	m.visible = false
}

// SetSize sizes the viewport to the screen
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = modal.DialogWidth(width, 110) - 6
	m.viewport.Height = max(3, min(25, height-14))
}

// Update handles input. y copies the script, a marks it applied and esc or
// q closes.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "y":
			if len(m.script.Statements) == 0 {
				return m, nil
			}
			script := m.script.String()
			return m, func() tea.Msg { return CopyMsg{Script: script} }
		case "a":
			if len(m.script.Statements) == 0 {
				return m, nil
			}
			m.visible = false
			return m, func() tea.Msg { return AppliedMsg{} }
		case "esc", "q", "enter":
			m.visible = false
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the preview
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	t := theme.Current

	lines := []string{m.viewport.View()}
	if n := len(m.script.Skipped); n > 0 {
		lines = append(lines, "", t.Warning.Render(fmt.Sprintf("⚠ %d row(s) skipped:", n)))
		for i, s := range m.script.Skipped {
			if i == 5 {
				lines = append(lines, t.Warning.Render(fmt.Sprintf("  … and %d more", n-5)))
				break
			}
			lines = append(lines, t.Warning.Render(fmt.Sprintf("  row %d: %s", s.RowIndex+1, s.Reason)))
		}
	}

	title := fmt.Sprintf("Pending changes (%d statements)", len(m.script.Statements))
	if m.table != "" {
		title += " · " + m.table
	}
	help := "↑↓ scroll · y copy · a mark applied · esc close"
	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return modal.Place(m.width, m.height, modal.Frame(title, body, help, modal.DialogWidth(m.width, 110)))
}
