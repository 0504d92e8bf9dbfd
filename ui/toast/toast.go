// Package toast shows short notifications. Errors and warnings stay until
// dismissed; info and success toasts expire on their own.
package toast

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sheenazien8/sqgrid/ui/modal"
	"github.com/sheenazien8/sqgrid/ui/theme"
)

// Kind is the severity of a toast
type Kind int

const (
	Info Kind = iota
	Success
	Warning
	Error
)

// Lifetime of toasts that expire
const Lifetime = 3 * time.Second

// ExpiredMsg hides the toast it was scheduled for
type ExpiredMsg struct {
	id int
}

// Model is a toast notification
type Model struct {
	message string
	kind    Kind
	visible bool
	id      int

	width  int
	height int
}

// New creates a hidden toast
func New() Model {
	return Model{width: 80, height: 24}
}

// SetSize sets the screen size used for centering
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Show displays a message. The returned command expires info and success
// toasts.
func (m *Model) Show(message string, kind Kind) tea.Cmd {
	m.message = message
	m.kind = kind
	m.visible = true
	m.id++

	if kind == Warning || kind == Error {
		return nil
	}
	id := m.id
	return tea.Tick(Lifetime, func(time.Time) tea.Msg { return ExpiredMsg{id: id} })
}

// Visible returns whether the toast is showing
func (m Model) Visible() bool {
	return m.visible
}

// Blocking reports whether the toast takes input until dismissed
func (m Model) Blocking() bool {
	return m.visible && (m.kind == Warning || m.kind == Error)
}

// Message returns the text being shown
func (m Model) Message() string {
	return m.message
}

// Kind returns the severity being shown
func (m Model) Kind() Kind {
	return m.kind
}

// Hide hides the toast
func (m *Model) Hide() {
	m.visible = false
}

// Update dismisses the toast on enter, esc or q and on expiry
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ExpiredMsg:
		if msg.id == m.id {
			m.visible = false
		}
	case tea.KeyMsg:
		if !m.visible {
			break
		}
		switch msg.String() {
		case "enter", "esc", "q":
			m.visible = false
		}
	}
	return m, nil
}

func (m Model) style() (lipgloss.Style, string) {
	t := theme.Current
	switch m.kind {
	case Error:
		return t.Error, "✘"
	case Success:
		return t.Success, "✔"
	case Warning:
		return t.Warning, "⚠"
	}
	return t.Title, "ℹ"
}

// Line renders an expiring toast as a single status line
func (m Model) Line() string {
	if !m.visible {
		return ""
	}
	style, icon := m.style()
	return style.Render(icon + " " + strings.ReplaceAll(m.message, "\n", " "))
}

// View renders a blocking toast as a centered dialog
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	style, icon := m.style()
	width := modal.DialogWidth(m.width, 70)

	text := lipgloss.NewStyle().Width(width - 8).Render(m.message)
	dialog := theme.Current.Modal.Copy().
		BorderForeground(style.GetForeground()).
		Width(width).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			style.Copy().Bold(true).Render(icon)+" "+style.Render(text),
			"",
			theme.Current.Muted.Render("enter/esc/q to close"),
		))
	return modal.Place(m.width, m.height, dialog)
}
