package modalexit

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sheenazien8/sqgrid/grid/changes"
	"github.com/sheenazien8/sqgrid/logger"
	"github.com/sheenazien8/sqgrid/ui/modal"
)

// Model wraps the confirmation dialog with the quit question
type Model struct {
	modal modal.Model
}

// New creates a hidden quit confirmation
func New() Model {
	return Model{modal: modal.New("Quit", "")}
}

// Show asks for confirmation, warning about pending changes in l
func (m *Model) Show(l changes.Ledger) {
	m.modal.Message = Message(l)
	logger.Debug("Exit modal opened", map[string]any{"pending": l.HasChanges()})
	m.modal.Show()
}

// Message is the question asked before quitting
func Message(l changes.Ledger) string {
	if !l.HasChanges() {
		return "Are you sure you want to quit?"
	}
	return fmt.Sprintf("You have %d modified and %d deleted row(s) that have not been applied. Quit and discard them?",
		l.TotalChangedRows(), l.TotalDeletedRows())
}

// Hide hides the dialog
func (m *Model) Hide() {
	m.modal.Hide()
}

// Visible returns whether the dialog is visible
func (m Model) Visible() bool {
	return m.modal.Visible()
}

// SetSize sets the screen size used for centering
func (m *Model) SetSize(width, height int) {
	m.modal.SetSize(width, height)
}

// Update handles input
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.modal, cmd = m.modal.Update(msg)
	return m, cmd
}

// View renders the dialog
func (m Model) View() string {
	return m.modal.View()
}

// Confirmed reports whether the user chose to quit
func (m Model) Confirmed() bool {
	confirmed := m.modal.Result() == modal.ResultYes
	if confirmed {
		logger.Info("User confirmed exit", nil)
	} else {
		logger.Debug("User cancelled exit", nil)
	}
	return confirmed
}
