package modalhelp

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sheenazien8/sqgrid/ui/modal"
	"github.com/sheenazien8/sqgrid/ui/theme"
)

// Section groups related key bindings
type Section struct {
	Title   string
	Keymaps []Keymap
}

// Keymap is one key binding
type Keymap struct {
	Key         string
	Description string
}

// Sections are the key bindings of the result viewer
var Sections = []Section{
	{
		Title: "Navigation",
		Keymaps: []Keymap{
			{"j / ↓", "Move down one row"},
			{"k / ↑", "Move up one row"},
			{"h / ←", "Move left one column"},
			{"l / →", "Move right one column"},
			{"J / PgDn", "Page down"},
			{"K / PgUp", "Page up"},
			{"g / Home", "First row"},
			{"G / End", "Last row"},
			{"H / L", "First / last column"},
			{"[ / ]", "Previous / next result set"},
			{"Mouse wheel", "Scroll"},
		},
	},
	{
		Title: "Selection",
		Keymaps: []Keymap{
			{"Space", "Select cell"},
			{"Ctrl+Space", "Add or remove cell"},
			{"Shift+Arrows", "Extend cell range"},
			{"V", "Select row"},
			{"C", "Select column"},
			{"Ctrl+A", "Select all rows"},
			{"Esc", "Clear selection"},
			{"Click", "Select cell, row (gutter) or column (header)"},
			{"Ctrl/Shift+Click", "Add to selection / select range"},
		},
	},
	{
		Title: "Filter & Sort",
		Keymaps: []Keymap{
			{"/", "Filter: column op value"},
			{"s", "Cycle sort on cursor column"},
			{"F", "Clear filter on cursor column"},
			{"Ctrl+X", "Clear all filters (in filter bar)"},
			{"c", "Show, hide, pin and resize columns"},
		},
	},
	{
		Title: "Editing",
		Keymaps: []Keymap{
			{"e / Enter", "Edit cell"},
			{"n", "Set cell to NULL"},
			{"d", "Mark row deleted / restore"},
			{"r", "Revert cell"},
			{"u", "Revert row"},
			{"U", "Revert all changes in result set"},
			{"S", "Preview SQL for pending changes"},
		},
	},
	{
		Title: "Export & Misc",
		Keymaps: []Keymap{
			{"y", "Copy selection (or cell) as TSV"},
			{"x", "Export menu"},
			{"p", "Preview cell"},
			{"T", "Next theme"},
			{"?", "This help"},
			{"q / Ctrl+C", "Quit"},
		},
	},
}

// Model shows the key bindings one section at a time
type Model struct {
	section int
	offset  int
	visible bool

	width  int
	height int
}

// New creates a hidden help screen
func New() Model {
	return Model{}
}

// Show opens the help screen on the first section
func (m *Model) Show() {
	m.section, m.offset = 0, 0
	m.visible = true
}

// Hide closes the help screen
func (m *Model) Hide() {
	m.visible = false
}

// Visible returns whether the help screen is open
func (m Model) Visible() bool {
	return m.visible
}

// Section returns the index of the section being shown
func (m Model) Section() int {
	return m.section
}

// SetSize sets the screen size used for centering
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) lines() int {
	return max(5, m.height-14)
}

// Update handles input. Tab and arrows switch sections, j/k scroll.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !m.visible || !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "tab", "right", "l":
		m.section = (m.section + 1) % len(Sections)
		m.offset = 0
	case "shift+tab", "left", "h":
		m.section = (m.section - 1 + len(Sections)) % len(Sections)
		m.offset = 0
	case "down", "j":
		m.offset = min(m.offset+1, max(0, len(Sections[m.section].Keymaps)-m.lines()))
	case "up", "k":
		m.offset = max(0, m.offset-1)
	case "esc", "q", "?", "enter":
		m.visible = false
	}
	return m, nil
}

// View renders the help screen
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	t := theme.Current

	var tabs []string
	for i, s := range Sections {
		if i == m.section {
			tabs = append(tabs, t.TabActive.Render(s.Title))
		} else {
			tabs = append(tabs, t.TabInactive.Render(s.Title))
		}
	}

	keymaps := Sections[m.section].Keymaps
	keyWidth := 0
	for _, km := range keymaps {
		keyWidth = max(keyWidth, lipgloss.Width(km.Key))
	}

	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, tabs...), ""}
	end := min(len(keymaps), m.offset+m.lines())
	for _, km := range keymaps[m.offset:end] {
		key := t.PinnedHeader.Render(km.Key + strings.Repeat(" ", keyWidth-lipgloss.Width(km.Key)))
		rows = append(rows, fmt.Sprintf("  %s  %s", key, km.Description))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	help := "←→/tab section · ↑↓ scroll · esc close"
	return modal.Place(m.width, m.height, modal.Frame("Help", body, help, modal.DialogWidth(m.width, 80)))
}
