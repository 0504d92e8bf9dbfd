package changes

import (
	"maps"

	"github.com/sheenazien8/sqgrid/grid"
)

// Action is a change to the ledger
type Action interface {
	isLedgerAction()
}

type (
	EditCell struct {
		ResultSet     int
		Row           int
		Column        string
		OriginalRow   grid.Row
		OriginalValue any
		NewValue      any
	}
	DeleteRow struct {
		ResultSet   int
		Row         int
		OriginalRow grid.Row
	}
	RestoreRow struct {
		ResultSet int
		Row       int
	}
	RevertCell struct {
		ResultSet int
		Row       int
		Column    string
	}
	RevertRow struct {
		ResultSet int
		Row       int
	}
	// RevertAll discards pending changes; a nil ResultSet clears everything
	RevertAll struct {
		ResultSet *int
	}
	// CommitSuccess drops changes that were applied; a nil ResultSet clears everything
	CommitSuccess struct {
		ResultSet *int
	}
)

func (EditCell) isLedgerAction()      {}
func (DeleteRow) isLedgerAction()     {}
func (RestoreRow) isLedgerAction()    {}
func (RevertCell) isLedgerAction()    {}
func (RevertRow) isLedgerAction()     {}
func (RevertAll) isLedgerAction()     {}
func (CommitSuccess) isLedgerAction() {}

// Only scopes RevertAll or CommitSuccess to one result set
func Only(resultSet int) *int {
	return &resultSet
}

// Reduce applies action to l and returns the new ledger
func Reduce(l Ledger, action Action) Ledger {
	switch a := action.(type) {
	case EditCell:
		rc, ok := l.row(a.ResultSet, a.Row)
		if !ok {
			rc = RowChange{RowIndex: a.Row, OriginalRow: a.OriginalRow}
		}
		rc = rc.clone()

		original := a.OriginalValue
		if prev, ok := rc.CellDiffs[a.Column]; ok {
			original = prev.Original
		}
		if grid.StrictEqual(a.NewValue, original) {
			if _, ok := rc.CellDiffs[a.Column]; !ok && !rc.empty() {
				return l
			}
			delete(rc.CellDiffs, a.Column)
		} else {
			rc.CellDiffs[a.Column] = CellDiff{Original: original, New: a.NewValue}
		}
		if !ok && rc.empty() {
			return l
		}
		return l.withRow(a.ResultSet, rc)

	case DeleteRow:
		rc, ok := l.row(a.ResultSet, a.Row)
		if !ok {
			rc = RowChange{RowIndex: a.Row, OriginalRow: a.OriginalRow}
		}
		if rc.IsDeleted {
			return l
		}
		rc = rc.clone()
		rc.IsDeleted = true
		return l.withRow(a.ResultSet, rc)

	case RestoreRow:
		rc, ok := l.row(a.ResultSet, a.Row)
		if !ok || !rc.IsDeleted {
			return l
		}
		rc = rc.clone()
		rc.IsDeleted = false
		return l.withRow(a.ResultSet, rc)

	case RevertCell:
		rc, ok := l.row(a.ResultSet, a.Row)
		if !ok {
			return l
		}
		if _, ok := rc.CellDiffs[a.Column]; !ok {
			return l
		}
		rc.CellDiffs = maps.Clone(rc.CellDiffs)
		delete(rc.CellDiffs, a.Column)
		return l.withRow(a.ResultSet, rc)

	case RevertRow:
		rc, ok := l.row(a.ResultSet, a.Row)
		if !ok {
			return l
		}
		return l.withRow(a.ResultSet, RowChange{RowIndex: rc.RowIndex})

	case RevertAll:
		return l.withoutResultSet(a.ResultSet)

	case CommitSuccess:
		return l.withoutResultSet(a.ResultSet)
	}
	return l
}
