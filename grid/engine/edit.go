package engine

import (
	"github.com/sheenazien8/sqgrid/grid"
	"github.com/sheenazien8/sqgrid/grid/changes"
)

// Ledger returns the pending changes across all result sets
func (g *Grid) Ledger() changes.Ledger {
	return g.ledger
}

// DispatchLedger applies a ledger action as is
func (g *Grid) DispatchLedger(action changes.Action) {
	g.ledger = changes.Reduce(g.ledger, action)
}

// CellValue returns the current value of a cell, with any pending edit applied
func (g *Grid) CellValue(display int, column string) (any, bool) {
	idx, ok := g.DisplayToOriginal(display)
	if !ok {
		return nil, false
	}
	s := g.current()
	original := s.set.Rows[idx].Cell(grid.ColumnIndex(s.set.ColumnNames(), column))
	return g.ledger.CurrentValue(g.active, idx, column, original), true
}

// IsCellModified reports whether a displayed cell has a pending edit
func (g *Grid) IsCellModified(display int, column string) bool {
	idx, ok := g.DisplayToOriginal(display)
	return ok && g.ledger.IsCellModified(g.active, idx, column)
}

// IsRowDeleted reports whether a displayed row is marked for deletion
func (g *Grid) IsRowDeleted(display int) bool {
	idx, ok := g.DisplayToOriginal(display)
	return ok && g.ledger.IsRowDeleted(g.active, idx)
}

// IsRowModified reports whether a displayed row has pending cell edits
func (g *Grid) IsRowModified(display int) bool {
	idx, ok := g.DisplayToOriginal(display)
	if !ok {
		return false
	}
	rc, ok := g.ledger.Row(g.active, idx)
	return ok && len(rc.CellDiffs) > 0
}

// PendingRows returns how many rows of a result set have pending changes
func (g *Grid) PendingRows(resultSet int) int {
	return len(g.ledger.Changes(resultSet))
}

// Edit records a new value for a displayed cell. It reports false when the
// row or column does not exist.
func (g *Grid) Edit(display int, column string, value any) bool {
	idx, ok := g.DisplayToOriginal(display)
	if !ok {
		return false
	}
	s := g.current()
	ordinal := grid.ColumnIndex(s.set.ColumnNames(), column)
	if ordinal < 0 {
		return false
	}
	row := s.set.Rows[idx]
	g.DispatchLedger(changes.EditCell{
		ResultSet:     g.active,
		Row:           idx,
		Column:        column,
		OriginalRow:   row,
		OriginalValue: row.Cell(ordinal),
		NewValue:      value,
	})
	return true
}

// ToggleDelete marks a displayed row for deletion, or restores it when it
// is already marked.
func (g *Grid) ToggleDelete(display int) bool {
	idx, ok := g.DisplayToOriginal(display)
	if !ok {
		return false
	}
	if g.ledger.IsRowDeleted(g.active, idx) {
		g.DispatchLedger(changes.RestoreRow{ResultSet: g.active, Row: idx})
		return true
	}
	g.DispatchLedger(changes.DeleteRow{ResultSet: g.active, Row: idx, OriginalRow: g.current().set.Rows[idx]})
	return true
}

// RevertCell drops the pending edit of a displayed cell
func (g *Grid) RevertCell(display int, column string) {
	if idx, ok := g.DisplayToOriginal(display); ok {
		g.DispatchLedger(changes.RevertCell{ResultSet: g.active, Row: idx, Column: column})
	}
}

// RevertRow drops every pending change of a displayed row
func (g *Grid) RevertRow(display int) {
	if idx, ok := g.DisplayToOriginal(display); ok {
		g.DispatchLedger(changes.RevertRow{ResultSet: g.active, Row: idx})
	}
}

// RevertActive drops the pending changes of the active result set
func (g *Grid) RevertActive() {
	g.DispatchLedger(changes.RevertAll{ResultSet: changes.Only(g.active)})
}

// MarkApplied drops the pending changes of the active result set after its
// script has been run against the database.
func (g *Grid) MarkApplied() {
	g.DispatchLedger(changes.CommitSuccess{ResultSet: changes.Only(g.active)})
}

// Script builds the SQL that applies the active result set's pending changes.
// An empty table or nil pk falls back to the result set's own metadata.
func (g *Grid) Script(table string, pk []string) changes.Script {
	s := g.current()
	if table == "" {
		table = s.set.Table
	}
	if pk == nil {
		pk = s.set.PrimaryKeys()
	}
	return changes.GenerateStatements(g.ledger, g.active, table, s.set.Columns, pk)
}
