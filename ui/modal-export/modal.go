package modalexport

import (
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sheenazien8/sqgrid/grid/export"
	"github.com/sheenazien8/sqgrid/ui/modal"
	"github.com/sheenazien8/sqgrid/ui/theme"
)

// Target is where an export goes
type Target int

const (
	TargetClipboard Target = iota
	TargetFile
)

// RequestMsg asks the app to run an export
type RequestMsg struct {
	Format         export.Format
	IncludeHeaders bool
	SelectionOnly  bool
	Target         Target
}

// Model picks an export format, scope and destination
type Model struct {
	formats        []export.Format
	cursor         int
	includeHeaders bool
	selectionOnly  bool
	hasSelection   bool

	visible bool
	width   int
	height  int
}

// New creates a hidden export menu
func New() Model {
	return Model{formats: export.Formats(), includeHeaders: true}
}

// Show opens the menu on a format. The scope defaults to the selection when
// there is one.
func (m *Model) Show(format export.Format, includeHeaders, hasSelection bool) {
	m.cursor = max(0, slices.Index(m.formats, format))
	m.includeHeaders = includeHeaders
	m.hasSelection = hasSelection
	m.selectionOnly = hasSelection
	m.visible = true
}

// Visible returns whether the menu is open
func (m Model) Visible() bool {
	return m.visible
}

// Hide closes the menu
func (m *Model) Hide() {
	m.visible = false
}

// SetSize sets the screen size used for centering
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Format returns the highlighted format
func (m Model) Format() export.Format {
	return m.formats[m.cursor]
}

// Update handles input. Enter or c copies, s saves to a file, h toggles the
// header row and a toggles between selection and all rows.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !m.visible || !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		m.cursor = (m.cursor - 1 + len(m.formats)) % len(m.formats)
	case "down", "j", "tab":
		m.cursor = (m.cursor + 1) % len(m.formats)
	case "h":
		m.includeHeaders = !m.includeHeaders
	case "a":
		if m.hasSelection {
			m.selectionOnly = !m.selectionOnly
		}
	case "enter", "c":
		if m.Format().Binary() {
			return m.request(TargetFile)
		}
		return m.request(TargetClipboard)
	case "s":
		return m.request(TargetFile)
	case "esc", "q":
		m.visible = false
	}
	return m, nil
}

func (m Model) request(target Target) (Model, tea.Cmd) {
	m.visible = false
	req := RequestMsg{
		Format:         m.Format(),
		IncludeHeaders: m.includeHeaders,
		SelectionOnly:  m.selectionOnly,
		Target:         target,
	}
	return m, func() tea.Msg { return req }
}

// View renders the menu
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	t := theme.Current

	var lines []string
	for i, f := range m.formats {
		info := export.FormatInfo(f)
		line := fmt.Sprintf("  %-10s %s", f, t.Muted.Render(info.Extension))
		if f.Binary() {
			line += t.Muted.Render("  (file only)")
		}
		if i == m.cursor {
			line = t.Cursor.Render(fmt.Sprintf("▸ %-10s %s", f, info.Extension))
		}
		lines = append(lines, line)
	}

	check := func(on bool) string {
		if on {
			return "[x]"
		}
		return "[ ]"
	}
	scope := "all rows"
	if m.selectionOnly {
		scope = "selection"
	}
	lines = append(lines, "",
		fmt.Sprintf("%s include headers (h)", check(m.includeHeaders)),
		fmt.Sprintf("scope: %s (a)", scope),
	)

	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	help := "↑↓ format · enter/c copy · s save to file · esc close"
	return modal.Place(m.width, m.height, modal.Frame("Export", body, help, modal.DialogWidth(m.width, 50)))
}
