package changes

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/sheenazien8/sqgrid/grid"
)

// SkippedRow is a pending change that produced no statement
type SkippedRow struct {
	ResultSet int
	RowIndex  int
	Reason    string
}

// Script is the SQL that applies a result set's pending changes
type Script struct {
	Statements []string
	Skipped    []SkippedRow
}

// String joins the statements, one per line
func (s Script) String() string {
	return strings.Join(s.Statements, "\n")
}

// GenerateUpdateStatements emits one UPDATE per edited row that is not
// deleted. Rows without usable primary key values are skipped.
func GenerateUpdateStatements(l Ledger, resultSet int, table string, columns []grid.Column, pkColumns []string) []string {
	statements, _ := generateUpdates(l, resultSet, table, columns, pkColumns)
	return statements
}

// GenerateDeleteStatements emits one DELETE per row marked for deletion.
// Rows without usable primary key values are skipped.
func GenerateDeleteStatements(l Ledger, resultSet int, table string, columns []grid.Column, pkColumns []string) []string {
	statements, _ := generateDeletes(l, resultSet, table, columns, pkColumns)
	return statements
}

// GenerateStatements returns the UPDATE statements followed by the DELETE
// statements, and reports every row that could not be keyed.
func GenerateStatements(l Ledger, resultSet int, table string, columns []grid.Column, pkColumns []string) Script {
	updates, skippedUpdates := generateUpdates(l, resultSet, table, columns, pkColumns)
	deletes, skippedDeletes := generateDeletes(l, resultSet, table, columns, pkColumns)
	return Script{
		Statements: append(updates, deletes...),
		Skipped:    append(skippedUpdates, skippedDeletes...),
	}
}

func generateUpdates(l Ledger, resultSet int, table string, columns []grid.Column, pkColumns []string) ([]string, []SkippedRow) {
	var statements []string
	var skipped []SkippedRow

	for _, rc := range l.Changes(resultSet) {
		if rc.IsDeleted || len(rc.CellDiffs) == 0 {
			continue
		}
		where, reason := whereClause(rc.OriginalRow, columns, pkColumns)
		if reason != "" {
			skipped = append(skipped, SkippedRow{ResultSet: resultSet, RowIndex: rc.RowIndex, Reason: reason})
			continue
		}

		var sets []string
		for _, name := range diffOrder(rc.CellDiffs, columns) {
			declared := ""
			if col, ok := findColumn(columns, name); ok {
				declared = col.DeclaredType
			}
			sets = append(sets, fmt.Sprintf("%s = %s", grid.QuoteIdentifier(name), grid.Literal(rc.CellDiffs[name].New, declared)))
		}

		statements = append(statements, fmt.Sprintf("UPDATE %s SET %s WHERE %s;",
			grid.QuoteTable(table), strings.Join(sets, ", "), where))
	}
	return statements, skipped
}

func generateDeletes(l Ledger, resultSet int, table string, columns []grid.Column, pkColumns []string) ([]string, []SkippedRow) {
	var statements []string
	var skipped []SkippedRow

	for _, rc := range l.Changes(resultSet) {
		if !rc.IsDeleted {
			continue
		}
		where, reason := whereClause(rc.OriginalRow, columns, pkColumns)
		if reason != "" {
			skipped = append(skipped, SkippedRow{ResultSet: resultSet, RowIndex: rc.RowIndex, Reason: reason})
			continue
		}
		statements = append(statements, fmt.Sprintf("DELETE FROM %s WHERE %s;", grid.QuoteTable(table), where))
	}
	return statements, skipped
}

// whereClause keys a row by the original values of its primary key columns.
// Key columns that are unknown or absent from the snapshot are left out. A
// non-empty reason means the row cannot be keyed.
func whereClause(original grid.Row, columns []grid.Column, pkColumns []string) (where, reason string) {
	var conds []string
	for _, pk := range pkColumns {
		col, ok := findColumn(columns, pk)
		if !ok || col.Ordinal < 0 || col.Ordinal >= len(original) {
			continue
		}
		value := original[col.Ordinal]
		if value == nil {
			conds = append(conds, grid.QuoteIdentifier(pk)+" IS NULL")
			continue
		}
		if f, ok := value.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			return "", "primary key value is not a finite number"
		}
		if f, ok := value.(float32); ok && (math.IsNaN(float64(f)) || math.IsInf(float64(f), 0)) {
			return "", "primary key value is not a finite number"
		}
		conds = append(conds, fmt.Sprintf("%s = %s", grid.QuoteIdentifier(pk), grid.Literal(value, col.DeclaredType)))
	}
	if len(conds) == 0 {
		return "", "no primary key value"
	}
	return strings.Join(conds, " AND "), ""
}

// diffOrder lists the edited columns in column order; edits to columns not
// in the list follow, sorted by name.
func diffOrder(diffs map[string]CellDiff, columns []grid.Column) []string {
	ordered := make([]grid.Column, len(columns))
	copy(ordered, columns)
	slices.SortStableFunc(ordered, func(a, b grid.Column) int { return a.Ordinal - b.Ordinal })

	names := make([]string, 0, len(diffs))
	known := make(map[string]bool, len(diffs))
	for _, col := range ordered {
		if _, ok := diffs[col.Name]; ok {
			names = append(names, col.Name)
			known[col.Name] = true
		}
	}
	var extra []string
	for name := range diffs {
		if !known[name] {
			extra = append(extra, name)
		}
	}
	slices.Sort(extra)
	return append(names, extra...)
}

func findColumn(columns []grid.Column, name string) (grid.Column, bool) {
	for _, col := range columns {
		if col.Name == name {
			return col, true
		}
	}
	return grid.Column{}, false
}
