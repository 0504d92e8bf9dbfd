// Package changes is the pending-change ledger: uncommitted cell edits and
// row deletions across result sets, and the SQL that would apply them.
package changes

import (
	"maps"
	"slices"

	"github.com/sheenazien8/sqgrid/grid"
)

// CellDiff is one edited cell
type CellDiff struct {
	Original any
	New      any
}

// RowChange is the pending state of one row. RowIndex is the row's position
// in the original, unfiltered result set.
type RowChange struct {
	RowIndex    int
	OriginalRow grid.Row
	CellDiffs   map[string]CellDiff
	IsDeleted   bool
}

// empty reports whether the change carries nothing and must leave the ledger
func (rc RowChange) empty() bool {
	return len(rc.CellDiffs) == 0 && !rc.IsDeleted
}

func (rc RowChange) clone() RowChange {
	rc.OriginalRow = slices.Clone(rc.OriginalRow)
	rc.CellDiffs = maps.Clone(rc.CellDiffs)
	if rc.CellDiffs == nil {
		rc.CellDiffs = make(map[string]CellDiff)
	}
	return rc
}

// Ledger holds pending changes keyed by result set, then row index.
// A Ledger is immutable; Reduce returns a new one sharing untouched parts.
type Ledger struct {
	sets        map[int]map[int]RowChange
	changedRows int
	deletedRows int
}

// TotalChangedRows counts rows with cell edits that are not deleted
func (l Ledger) TotalChangedRows() int {
	return l.changedRows
}

// TotalDeletedRows counts rows marked for deletion
func (l Ledger) TotalDeletedRows() int {
	return l.deletedRows
}

// HasChanges reports whether anything is pending
func (l Ledger) HasChanges() bool {
	return len(l.sets) > 0
}

// Row returns a copy of the pending change for a row
func (l Ledger) Row(resultSet, row int) (RowChange, bool) {
	rc, ok := l.row(resultSet, row)
	if !ok {
		return RowChange{}, false
	}
	return rc.clone(), true
}

func (l Ledger) row(resultSet, row int) (RowChange, bool) {
	rc, ok := l.sets[resultSet][row]
	return rc, ok
}

// Changes returns copies of the pending changes of a result set ordered by
// row index
func (l Ledger) Changes(resultSet int) []RowChange {
	rows := l.sets[resultSet]
	out := make([]RowChange, 0, len(rows))
	for _, idx := range slices.Sorted(maps.Keys(rows)) {
		out = append(out, rows[idx].clone())
	}
	return out
}

// ResultSets returns the indices of result sets with pending changes
func (l Ledger) ResultSets() []int {
	return slices.Sorted(maps.Keys(l.sets))
}

// IsRowDeleted reports whether the row is marked for deletion
func (l Ledger) IsRowDeleted(resultSet, row int) bool {
	rc, ok := l.row(resultSet, row)
	return ok && rc.IsDeleted
}

// IsCellModified reports whether the cell has a pending edit
func (l Ledger) IsCellModified(resultSet, row int, column string) bool {
	rc, ok := l.row(resultSet, row)
	if !ok {
		return false
	}
	_, ok = rc.CellDiffs[column]
	return ok
}

// CurrentValue returns the edited value of a cell, or fallback when the
// cell has no pending edit.
func (l Ledger) CurrentValue(resultSet, row int, column string, fallback any) any {
	rc, ok := l.row(resultSet, row)
	if !ok {
		return fallback
	}
	if d, ok := rc.CellDiffs[column]; ok {
		return d.New
	}
	return fallback
}

// withRow returns a copy of l with the row replaced, or dropped when rc is empty
func (l Ledger) withRow(resultSet int, rc RowChange) Ledger {
	sets := maps.Clone(l.sets)
	if sets == nil {
		sets = make(map[int]map[int]RowChange)
	}
	rows := maps.Clone(sets[resultSet])
	if rows == nil {
		rows = make(map[int]RowChange)
	}

	if rc.empty() {
		delete(rows, rc.RowIndex)
	} else {
		rows[rc.RowIndex] = rc
	}

	if len(rows) == 0 {
		delete(sets, resultSet)
	} else {
		sets[resultSet] = rows
	}
	return Ledger{sets: sets}.recount()
}

func (l Ledger) withoutResultSet(resultSet *int) Ledger {
	if resultSet == nil {
		return Ledger{}
	}
	if _, ok := l.sets[*resultSet]; !ok {
		return l
	}
	sets := maps.Clone(l.sets)
	delete(sets, *resultSet)
	return Ledger{sets: sets}.recount()
}

// recount derives the counters from the ledger contents
func (l Ledger) recount() Ledger {
	l.changedRows, l.deletedRows = 0, 0
	for _, rows := range l.sets {
		for _, rc := range rows {
			switch {
			case rc.IsDeleted:
				l.deletedRows++
			case len(rc.CellDiffs) > 0:
				l.changedRows++
			}
		}
	}
	if len(l.sets) == 0 {
		l.sets = nil
	}
	return l
}
