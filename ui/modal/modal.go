// Package modal has the dialog frame shared by every popup and a yes/no
// confirmation dialog.
package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sheenazien8/sqgrid/ui/theme"
)

// Frame renders a titled dialog box with an optional help line
func Frame(title, body, help string, width int) string {
	t := theme.Current

	parts := []string{t.Title.Render(title), "", body}
	if help != "" {
		parts = append(parts, "", t.Muted.Render(help))
	}
	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	style := t.Modal
	if width > 0 {
		style = style.Copy().Width(width)
	}
	return style.Render(content)
}

// Place centers a dialog on a screen of the given size, slightly above the
// middle
func Place(width, height int, dialog string) string {
	padLeft := max(0, (width-lipgloss.Width(dialog))/2)
	padTop := max(0, (height-lipgloss.Height(dialog))/3)

	lines := make([]string, 0, height)
	for range padTop {
		lines = append(lines, "")
	}
	left := strings.Repeat(" ", padLeft)
	for _, line := range strings.Split(dialog, "\n") {
		lines = append(lines, left+line)
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// DialogWidth picks a dialog width for a screen: preferred, capped to leave a
// margin and never below 30 columns
func DialogWidth(screen, preferred int) int {
	return max(30, min(preferred, screen-6))
}

// Result is the answer to a confirmation
type Result int

const (
	ResultNone Result = iota
	ResultYes
	ResultNo
)

// Model is a yes/no confirmation dialog
type Model struct {
	Title   string
	Message string

	visible  bool
	selected int // 0 = Yes, 1 = No
	result   Result

	width  int
	height int
}

// New creates a confirmation dialog
func New(title, message string) Model {
	return Model{Title: title, Message: message, selected: 1}
}

// Show displays the dialog with No preselected
func (m *Model) Show() {
	m.visible = true
	m.selected = 1
	m.result = ResultNone
}

// Hide hides the dialog
func (m *Model) Hide() {
	m.visible = false
}

// Visible returns whether the dialog is visible
func (m Model) Visible() bool {
	return m.visible
}

// Result returns the answer once the dialog has closed
func (m Model) Result() Result {
	return m.result
}

// SetSize sets the screen size used for centering
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles input
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "left", "h", "tab":
		m.selected = 0
	case "right", "l", "shift+tab":
		m.selected = 1
	case "y", "Y":
		m.result = ResultYes
		m.visible = false
	case "n", "N", "esc":
		m.result = ResultNo
		m.visible = false
	case "enter":
		m.result = ResultNo
		if m.selected == 0 {
			m.result = ResultYes
		}
		m.visible = false
	}
	return m, nil
}

// View renders the dialog centered on the screen
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	t := theme.Current

	active := lipgloss.NewStyle().
		Foreground(t.Palette.Foreground).
		Background(t.Palette.Primary).
		Padding(0, 2).
		Bold(true)
	inactive := lipgloss.NewStyle().
		Foreground(t.Palette.Dim).
		Padding(0, 2)

	yes, no := inactive.Render("Yes"), active.Render("No")
	if m.selected == 0 {
		yes, no = active.Render("Yes"), inactive.Render("No")
	}

	width := DialogWidth(m.width, 50)
	body := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Width(width-6).Render(m.Message),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center, yes, "   ", no),
	)
	return Place(m.width, m.height, Frame(m.Title, body, "←→ select · enter confirm · y/n · esc cancel", width))
}
