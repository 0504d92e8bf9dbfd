package engine

import (
	"errors"

	"github.com/sheenazien8/sqgrid/grid"
	"github.com/sheenazien8/sqgrid/grid/export"
	"github.com/sheenazien8/sqgrid/grid/selection"
)

// ErrEmptySelection is returned when exporting a selection with nothing selected
var ErrEmptySelection = errors.New("nothing selected")

// Selection returns the current selection
func (g *Grid) Selection() selection.State {
	return g.selection
}

// DispatchSelection applies a selection event
func (g *Grid) DispatchSelection(action selection.Action) {
	g.selection = selection.Reduce(g.selection, action)
}

// SelectAll selects every displayed row
func (g *Grid) SelectAll() {
	g.DispatchSelection(selection.SelectAllRows{Count: g.RowCount()})
}

// displayData is the visible table as shown: display-order rows with pending
// edits applied, projected onto the visible columns.
func (g *Grid) displayData() ([]grid.Row, []grid.Column) {
	s := g.current()
	columns := g.VisibleColumns()
	names := s.set.ColumnNames()

	ordinals := make([]int, len(columns))
	for i, col := range columns {
		ordinals[i] = grid.ColumnIndex(names, col.Name)
	}

	rows := make([]grid.Row, len(s.order))
	for d, idx := range s.order {
		src := s.set.Rows[idx]
		row := make(grid.Row, len(columns))
		for i, col := range columns {
			row[i] = g.ledger.CurrentValue(g.active, idx, col.Name, src.Cell(ordinals[i]))
		}
		rows[d] = row
	}
	return rows, columns
}

// AllData returns every displayed row over the visible columns
func (g *Grid) AllData() ([]grid.Row, []grid.Column) {
	return g.displayData()
}

// SelectedData returns the selected part of the displayed table. Row
// selections take every visible column, column selections every row, and
// cell selections the bounding rectangle of the selected cells.
func (g *Grid) SelectedData() ([]grid.Row, []grid.Column, error) {
	if g.selection.Empty() {
		return nil, nil, ErrEmptySelection
	}
	rows, columns := g.displayData()

	var rowIdx, colIdx []int
	switch g.selection.Kind() {
	case selection.KindRow:
		rowIdx, colIdx = g.selection.SelectedRows(), span(0, len(columns)-1)
	case selection.KindColumn:
		rowIdx, colIdx = span(0, len(rows)-1), g.selection.SelectedColumns()
	case selection.KindCell:
		top, left, bottom, right, _ := g.selection.Bounds()
		rowIdx, colIdx = span(top, bottom), span(left, right)
	}

	rows, columns = export.ExtractSelectedData(rows, columns, rowIdx, colIdx)
	if len(rows) == 0 || len(columns) == 0 {
		return nil, nil, ErrEmptySelection
	}
	return rows, columns, nil
}

// ExportAll serializes every displayed row
func (g *Grid) ExportAll(opts export.Options) (string, error) {
	rows, columns := g.AllData()
	return export.Export(rows, columns, g.withTable(opts))
}

// ExportSelection serializes the selected part of the displayed table
func (g *Grid) ExportSelection(opts export.Options) (string, error) {
	rows, columns, err := g.SelectedData()
	if err != nil {
		return "", err
	}
	return export.Export(rows, columns, g.withTable(opts))
}

func (g *Grid) withTable(opts export.Options) export.Options {
	if opts.TableName == "" {
		opts.TableName = g.current().set.Table
	}
	return opts
}

func span(from, to int) []int {
	if to < from {
		return nil
	}
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}
