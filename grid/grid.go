// Package grid holds the types shared by the result grid engine: column
// metadata, immutable row snapshots and the result sets they belong to.
package grid

// Column describes one column of a result set. Name is unique within a result
// set and is the key used by filters, sorts, pending changes and generated SQL.
type Column struct {
	Name         string
	Ordinal      int
	DeclaredType string
	IsPrimaryKey bool
	IsForeignKey bool
	DisplayWidth int
	Pinned       bool
	Hidden       bool
}

// Row is an ordered snapshot of cell values, one per column ordinal.
// Rows are never mutated; edits live in the pending-change ledger.
type Row []any

// ResultSet is one tabular result returned by a query
type ResultSet struct {
	Index   int
	Table   string
	Columns []Column
	Rows    []Row
}

// NewColumns builds column descriptors from names, assigning ordinals in order
func NewColumns(names ...string) []Column {
	columns := make([]Column, len(names))
	for i, name := range names {
		columns[i] = Column{
			Name:         name,
			Ordinal:      i,
			DisplayWidth: max(10, len(name)+2),
		}
	}
	return columns
}

// ColumnNames returns the names of the given columns in order
func ColumnNames(columns []Column) []string {
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name
	}
	return names
}

// ColumnIndex returns the position of the named column, or -1
func ColumnIndex(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at position i, or nil when the row is too short
func (r Row) Cell(i int) any {
	if i < 0 || i >= len(r) {
		return nil
	}
	return r[i]
}

// PrimaryKeys returns the names of the primary key columns
func (rs ResultSet) PrimaryKeys() []string {
	var keys []string
	for _, col := range rs.Columns {
		if col.IsPrimaryKey {
			keys = append(keys, col.Name)
		}
	}
	return keys
}

// ColumnNames returns the names of the result set columns
func (rs ResultSet) ColumnNames() []string {
	return ColumnNames(rs.Columns)
}
