package app

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/sheenazien8/sqgrid/internal/version"
	"github.com/sheenazien8/sqgrid/ui/theme"
)

// View renders the main application view
func (m Model) View() string {
	if m.TerminalWidth == 0 || m.TerminalHeight == 0 {
		return "Loading..."
	}

	if m.Toast.Blocking() {
		return m.Toast.View()
	}

	switch m.Focus {
	case FocusExitModal:
		return m.ExitModal.View()
	case FocusEditCellModal:
		return m.EditCellModal.View()
	case FocusCellPreviewModal:
		return m.CellPreviewModal.View()
	case FocusColumnsModal:
		return m.ColumnsModal.View()
	case FocusExportModal:
		return m.ExportModal.View()
	case FocusSQLPreviewModal:
		return m.SQLPreviewModal.View()
	case FocusHelpModal:
		return m.HelpModal.View()
	}

	t := theme.Current
	content := lipgloss.NewStyle().Width(m.TerminalWidth).Height(m.ContentHeight)

	var body string
	switch {
	case m.loading:
		body = content.Copy().Align(lipgloss.Center, lipgloss.Center).Render(t.Muted.Render("Loading result sets..."))
	case m.loadErr != nil:
		body = content.Copy().Align(lipgloss.Center, lipgloss.Center).Render(t.Error.Render(m.loadErr.Error()))
	case !m.ready():
		body = content.Copy().Align(lipgloss.Center, lipgloss.Center).Render(t.Muted.Render("No result sets"))
	default:
		body = content.Render(m.Tabs.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.HeaderStyle, m.Filter.View(), body, m.FooterStyle)
}

// updateStyles re-renders the header and footer, after a resize or a theme change
func (m Model) updateStyles() Model {
	t := theme.Current
	title := fmt.Sprintf("sqgrid %s [%s]", version.Version, t.Name)
	if m.ready() {
		if name := m.Grid.ResultSet().Table; name != "" {
			title += " · " + name
		}
		title += fmt.Sprintf(" · %d result set(s)", m.Grid.Len())
	}
	m.HeaderStyle = t.Header.Copy().Width(m.TerminalWidth).Render(title)
	return m.updateFooter()
}

// updateFooter refreshes just the footer with current help text, or the
// toast when one is showing
func (m Model) updateFooter() Model {
	t := theme.Current
	if m.Toast.Visible() && !m.Toast.Blocking() {
		m.FooterStyle = t.Footer.Copy().Width(m.TerminalWidth).Render(m.Toast.Line())
		return m
	}
	m.FooterStyle = t.Footer.Copy().Width(m.TerminalWidth).Render(m.getFooterHelp())
	return m
}

func (m Model) getFooterHelp() string {
	switch m.Focus {
	case FocusTable:
		if !m.ready() {
			return "?: Help | T: Theme | q: Quit"
		}
		return "?: Help | hjkl: Move | Space/V/C: Select | /: Filter | s: Sort | e: Edit | d: Delete | S: SQL | x: Export | y: Copy | q: Quit"
	case FocusFilter:
		return "Enter: Apply | Tab: Complete column | Ctrl+X: Clear all | Esc: Cancel"
	case FocusEditCellModal:
		return "Enter: Save | Ctrl+N: NULL | Esc: Cancel"
	case FocusCellPreviewModal:
		return "j/k: Scroll | Esc/q: Close"
	case FocusColumnsModal:
		return "Space: Show/Hide | p: Pin | +/-: Width | /: Search | Enter: Apply | Esc: Cancel"
	case FocusExportModal:
		return "j/k: Format | h: Headers | a: Scope | Enter/c: Copy | s: Save | Esc: Close"
	case FocusSQLPreviewModal:
		return "y: Copy | a: Mark applied | Esc/q: Close"
	case FocusHelpModal:
		return "←→/Tab: Sections | j/k: Scroll | Esc/q: Close"
	case FocusExitModal:
		return "y: Yes | n/Esc: No | h/l: Switch"
	default:
		return "?: Help | q: Quit"
	}
}
