package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sheenazien8/sqgrid/grid"
	"github.com/sheenazien8/sqgrid/grid/engine"
	"github.com/sheenazien8/sqgrid/grid/export"
	"github.com/sheenazien8/sqgrid/grid/pipeline"
	"github.com/sheenazien8/sqgrid/logger"
	"github.com/sheenazien8/sqgrid/storage"
	"github.com/sheenazien8/sqgrid/ui/filter"
	"github.com/sheenazien8/sqgrid/ui/modal-column-visibility"
	"github.com/sheenazien8/sqgrid/ui/modal-edit-cell"
	"github.com/sheenazien8/sqgrid/ui/modal-export"
	"github.com/sheenazien8/sqgrid/ui/modal-sql-preview"
	"github.com/sheenazien8/sqgrid/ui/tab"
	"github.com/sheenazien8/sqgrid/ui/theme"
	"github.com/sheenazien8/sqgrid/ui/toast"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if m.TerminalWidth == 0 {
			logger.Debug("Initial window size", map[string]any{
				"width":  msg.Width,
				"height": msg.Height,
			})
		}
		m = m.resize(msg.Width, msg.Height)
		return m, nil

	case LoadedMsg:
		return m.loaded(msg.Sets), nil

	case LoadFailedMsg:
		m.loading = false
		m.loadErr = msg.Err
		return m.notify("Failed to load: "+msg.Err.Error(), toast.Error)

	case toast.ExpiredMsg:
		m.Toast, cmd = m.Toast.Update(msg)
		return m.updateFooter(), cmd

	case tab.SwitchedMsg:
		logger.Debug("Result set switched", map[string]any{"index": msg.Index})
		m = m.syncFilter()
		return m.updateFooter(), nil

	case filter.AppliedMsg:
		logger.Debug("Filter applied", map[string]any{
			"column": msg.Column,
			"filter": pipeline.Describe(msg.Column, msg.Filter),
		})
		m.Focus = FocusTable
		m = m.dispatchConfig(pipeline.SetFilter{Column: msg.Column, Filter: msg.Filter})
		return m.notify(fmt.Sprintf("%d of %d rows match", m.Grid.RowCount(), m.Grid.TotalRows()), toast.Info)

	case filter.ClearedMsg:
		m.Focus = FocusTable
		m = m.dispatchConfig(pipeline.ClearAllFilters{})
		return m.notify("Filters cleared", toast.Info)

	case filter.ClosedMsg:
		m.Focus = FocusTable
		return m.updateFooter(), nil

	case modaleditcell.SubmittedMsg:
		m.Focus = FocusTable
		if !m.Grid.Edit(msg.Row, msg.Column, msg.Value) {
			return m.notify("Cell no longer exists", toast.Warning)
		}
		return m.updateFooter(), nil

	case modalcolumnvisibility.AppliedMsg:
		m.Focus = FocusTable
		for _, action := range msg.Actions {
			m = m.dispatchConfig(action)
		}
		return m, nil

	case modalexport.RequestMsg:
		m.Focus = FocusTable
		return m.export(msg)

	case modalsqlpreview.CopyMsg:
		return m.copy(msg.Script, "SQL script")

	case modalsqlpreview.AppliedMsg:
		m.Focus = FocusTable
		pending := m.Grid.PendingRows(m.Grid.Active())
		applied := m.appliedScript(pending)
		m.Grid.MarkApplied()
		logger.Info("Pending changes marked as applied", map[string]any{
			"resultSet": m.Grid.Active(),
			"rows":      pending,
		})
		m, cmd = m.notify(fmt.Sprintf("%d row(s) marked as applied", pending), toast.Success)
		return m, tea.Batch(cmd, applied)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blink and other input messages
	switch m.Focus {
	case FocusFilter:
		m.Filter, cmd = m.Filter.Update(msg)
	case FocusEditCellModal:
		m.EditCellModal, cmd = m.EditCellModal.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if m.Toast.Blocking() {
		m.Toast, cmd = m.Toast.Update(msg)
		return m.updateFooter(), cmd
	}

	switch m.Focus {
	case FocusExitModal:
		m.ExitModal, cmd = m.ExitModal.Update(msg)
		if !m.ExitModal.Visible() {
			if m.ExitModal.Confirmed() {
				return m, tea.Quit
			}
			m.Focus = FocusTable
			m = m.updateFooter()
		}
		return m, cmd

	case FocusFilter:
		m.Filter, cmd = m.Filter.Update(msg)
		return m, cmd

	case FocusEditCellModal:
		m.EditCellModal, cmd = m.EditCellModal.Update(msg)
		return m.closeModal(m.EditCellModal.Visible()), cmd

	case FocusCellPreviewModal:
		m.CellPreviewModal, cmd = m.CellPreviewModal.Update(msg)
		return m.closeModal(m.CellPreviewModal.Visible()), cmd

	case FocusColumnsModal:
		m.ColumnsModal, cmd = m.ColumnsModal.Update(msg)
		return m.closeModal(m.ColumnsModal.Visible()), cmd

	case FocusExportModal:
		m.ExportModal, cmd = m.ExportModal.Update(msg)
		return m.closeModal(m.ExportModal.Visible()), cmd

	case FocusSQLPreviewModal:
		m.SQLPreviewModal, cmd = m.SQLPreviewModal.Update(msg)
		return m.closeModal(m.SQLPreviewModal.Visible()), cmd

	case FocusHelpModal:
		m.HelpModal, cmd = m.HelpModal.Update(msg)
		return m.closeModal(m.HelpModal.Visible()), cmd
	}

	switch msg.String() {
	case "ctrl+c", "q":
		if !m.ready() {
			return m, tea.Quit
		}
		m.ExitModal.Show(m.Grid.Ledger())
		m.Focus = FocusExitModal
		return m.updateFooter(), nil

	case "?":
		m.HelpModal.Show()
		m.Focus = FocusHelpModal
		return m.updateFooter(), nil

	case "T":
		name := theme.Next()
		theme.Set(name)
		logger.Info("Theme changed", map[string]any{"theme": name})
		m.config.SetTheme(name)
		m.saveConfig()
		return m.updateStyles(), nil
	}

	if !m.ready() {
		return m, nil
	}

	tbl := m.Tabs.Table()
	col, hasCol := tbl.CursorColumn()
	row := tbl.Cursor()

	switch msg.String() {
	case "/":
		m.Focus = FocusFilter
		cmd = m.Filter.Focus()
		return m.updateFooter(), cmd

	case "s":
		if hasCol {
			m = m.dispatchConfig(pipeline.ToggleSort{Column: col.Name})
		}
		return m, nil

	case "F":
		if hasCol {
			m = m.dispatchConfig(pipeline.ClearFilter{Column: col.Name})
		}
		return m, nil

	case "c":
		m.ColumnsModal.Show(m.Grid.Columns())
		m.Focus = FocusColumnsModal
		return m.updateFooter(), nil

	case "e", "enter":
		value, ok := tbl.CursorValue()
		if !ok {
			return m, nil
		}
		m.Focus = FocusEditCellModal
		cmd = m.EditCellModal.Show(row, col, m.Grid.ResultSet().Table, value)
		return m.updateFooter(), cmd

	case "n":
		if hasCol && m.Grid.Edit(row, col.Name, nil) {
			return m.updateFooter(), nil
		}
		return m, nil

	case "d":
		m.Grid.ToggleDelete(row)
		return m.updateFooter(), nil

	case "r":
		if hasCol {
			m.Grid.RevertCell(row, col.Name)
		}
		return m.updateFooter(), nil

	case "u":
		m.Grid.RevertRow(row)
		return m.updateFooter(), nil

	case "U":
		if m.Grid.PendingRows(m.Grid.Active()) == 0 {
			return m, nil
		}
		m.Grid.RevertActive()
		return m.notify("All changes reverted", toast.Info)

	case "S":
		script := m.Grid.Script("", nil)
		logger.Debug("SQL preview opened", map[string]any{
			"statements": len(script.Statements),
			"skipped":    len(script.Skipped),
		})
		m.SQLPreviewModal.Show(m.Grid.ResultSet().Table, script)
		m.Focus = FocusSQLPreviewModal
		return m.updateFooter(), nil

	case "x":
		m.ExportModal.Show(m.config.Format(), m.config.IncludeHeaders, !m.Grid.Selection().Empty())
		m.Focus = FocusExportModal
		return m.updateFooter(), nil

	case "y":
		return m.yank()

	case "p":
		if value, ok := tbl.CursorValue(); ok {
			m.CellPreviewModal.Show(col, value)
			m.Focus = FocusCellPreviewModal
			return m.updateFooter(), nil
		}
		return m, nil
	}

	m.Tabs, cmd = m.Tabs.Update(msg)
	return m.updateFooter(), cmd
}

// handleMouse routes clicks on the filter bar and forwards the rest to the
// tabs with coordinates relative to the tab bar
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.Focus != FocusTable && m.Focus != FocusFilter {
		if m.Focus == FocusCellPreviewModal {
			var cmd tea.Cmd
			m.CellPreviewModal, cmd = m.CellPreviewModal.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	if !m.ready() || m.Toast.Blocking() {
		return m, nil
	}

	y := msg.Y - headerHeight
	if y < 0 {
		return m, nil
	}
	if y < filterBarHeight {
		if msg.Type == tea.MouseLeft && m.Focus == FocusTable {
			m.Focus = FocusFilter
			cmd := m.Filter.Focus()
			return m.updateFooter(), cmd
		}
		return m, nil
	}

	if m.Focus == FocusFilter && msg.Type == tea.MouseLeft {
		m.Filter.Blur()
		m.Focus = FocusTable
	}
	msg.Y = y - filterBarHeight

	var cmd tea.Cmd
	m.Tabs, cmd = m.Tabs.Update(msg)
	return m.updateFooter(), cmd
}

func (m Model) closeModal(visible bool) Model {
	if !visible {
		m.Focus = FocusTable
	}
	return m.updateFooter()
}

func (m Model) loaded(sets []grid.ResultSet) Model {
	m.loading = false
	m.loadErr = nil
	m.Grid = engine.New(gridOptions(m.config), sets...)
	m.Tabs = tab.New(m.Grid)
	m.Focus = FocusTable
	m = m.syncFilter()
	if m.TerminalWidth > 0 {
		m = m.resize(m.TerminalWidth, m.TerminalHeight)
	}
	return m.updateStyles()
}

// dispatchConfig applies a filter, sort or layout change and keeps the
// cursor and filter bar in step with it
func (m Model) dispatchConfig(action pipeline.Action) Model {
	m.Grid.DispatchConfig(action)
	if tbl := m.Tabs.Table(); tbl != nil {
		tbl.Clamp()
	}
	return m.syncFilter().updateFooter()
}

func (m Model) syncFilter() Model {
	m.Filter.SetColumns(m.Grid.ResultSet().ColumnNames())
	m.Filter.SetActive(m.Grid.Config().Filters)
	return m
}

func (m Model) resize(width, height int) Model {
	m.TerminalWidth = width
	m.TerminalHeight = height
	m.ContentHeight = max(0, height-headerHeight-filterBarHeight-footerHeight)

	m.Filter.SetWidth(width)
	m.Tabs.SetSize(width, m.ContentHeight)

	m.Toast.SetSize(width, height)
	m.EditCellModal.SetSize(width, height)
	m.CellPreviewModal.SetSize(width, height)
	m.ColumnsModal.SetSize(width, height)
	m.ExportModal.SetSize(width, height)
	m.SQLPreviewModal.SetSize(width, height)
	m.HelpModal.SetSize(width, height)
	m.ExitModal.SetSize(width, height)
	return m.updateStyles()
}

// yank copies the selection as tab separated text, or the cursor cell when
// nothing is selected
func (m Model) yank() (Model, tea.Cmd) {
	sel := m.Grid.Selection()
	if sel.Empty() {
		value, ok := m.Tabs.Table().CursorValue()
		if !ok {
			return m, nil
		}
		text := ""
		if value != nil {
			text = grid.ToString(value)
		}
		return m.copy(text, "Cell")
	}

	text, err := m.Grid.ExportSelection(export.Options{Format: export.FormatClipboard})
	if err != nil {
		return m.notify(err.Error(), toast.Warning)
	}
	return m.copy(text, fmt.Sprintf("%d %s(s)", sel.Count(), sel.Kind()))
}

func (m Model) copy(text, what string) (Model, tea.Cmd) {
	if err := m.clipboard(text); err != nil {
		logger.Error("Failed to copy to clipboard", map[string]any{"error": err.Error()})
		return m.notify("Failed to copy to clipboard: "+err.Error(), toast.Error)
	}
	logger.Info("Copied to clipboard", map[string]any{"what": what, "length": len(text)})
	return m.notify(what+" copied to clipboard", toast.Success)
}

// notify shows a toast. The toast is set before the model is returned.
func (m Model) notify(message string, kind toast.Kind) (Model, tea.Cmd) {
	cmd := m.Toast.Show(message, kind)
	return m.updateFooter(), cmd
}

func (m Model) export(req modalexport.RequestMsg) (Model, tea.Cmd) {
	m.config.SetExportFormat(req.Format)
	m.config.IncludeHeaders = req.IncludeHeaders
	m.saveConfig()

	var (
		rows    []grid.Row
		columns []grid.Column
		err     error
	)
	if req.SelectionOnly {
		rows, columns, err = m.Grid.SelectedData()
	} else {
		rows, columns = m.Grid.AllData()
	}
	if err != nil {
		return m.notify(err.Error(), toast.Warning)
	}

	opts := export.Options{
		Format:         req.Format,
		IncludeHeaders: req.IncludeHeaders,
		TableName:      m.Grid.ResultSet().Table,
	}

	if req.Target == modalexport.TargetFile {
		path, err := m.writeExport(rows, columns, opts)
		if err != nil {
			logger.Error("Export failed", map[string]any{"format": req.Format, "error": err.Error()})
			return m.notify("Export failed: "+err.Error(), toast.Error)
		}
		logger.Info("Exported to file", map[string]any{"format": req.Format, "rows": len(rows), "path": path})
		return m.notify(fmt.Sprintf("Exported %d row(s) to %s", len(rows), path), toast.Success)
	}

	text, err := export.Export(rows, columns, opts)
	if err != nil {
		if errors.Is(err, export.ErrUnsupportedFormat) {
			return m.notify(fmt.Sprintf("%s cannot be copied, save it to a file", req.Format), toast.Warning)
		}
		return m.notify("Export failed: "+err.Error(), toast.Error)
	}
	return m.copy(text, fmt.Sprintf("%d row(s) as %s", len(rows), req.Format))
}

// appliedScript records the active result set's script in the history
func (m Model) appliedScript(rows int) tea.Cmd {
	if m.history == nil {
		return nil
	}
	entry := storage.AppliedScript{
		URL:    m.request.URL,
		Table:  m.Grid.ResultSet().Table,
		Script: strings.Join(m.Grid.Script("", nil).Statements, "\n"),
		Rows:   int64(rows),
	}
	history := m.history
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := history.AddAppliedScript(ctx, entry); err != nil {
			logger.Warn("Failed to record applied script", map[string]any{"error": err.Error()})
		}
		return nil
	}
}

func (m Model) saveConfig() {
	if err := m.config.Save(); err != nil {
		logger.Warn("Failed to save config", map[string]any{"error": err.Error()})
	}
}
