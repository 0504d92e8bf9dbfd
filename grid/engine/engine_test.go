package engine

import (
	"testing"

	"github.com/sheenazien8/sqgrid/grid"
	"github.com/sheenazien8/sqgrid/grid/export"
	"github.com/sheenazien8/sqgrid/grid/pipeline"
	"github.com/sheenazien8/sqgrid/grid/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func users() grid.ResultSet {
	columns := grid.NewColumns("id", "name")
	columns[0].IsPrimaryKey = true
	return grid.ResultSet{
		Table:   "Users",
		Columns: columns,
		Rows: []grid.Row{
			{1, "John"},
			{2, "Jane"},
			{3, "Bob"},
		},
	}
}

func names(g *Grid) []string {
	var out []string
	for _, row := range g.View() {
		out = append(out, row[1].(string))
	}
	return out
}

func TestGrid_SortScenario(t *testing.T) {
	t.Parallel()

	g := New(DefaultOptions(), users())
	assert.Equal(t, []string{"John", "Jane", "Bob"}, names(g))

	g.DispatchConfig(pipeline.ToggleSort{Column: "name"})
	assert.Equal(t, []string{"Bob", "Jane", "John"}, names(g))

	g.DispatchConfig(pipeline.ToggleSort{Column: "name"})
	assert.Equal(t, []string{"John", "Jane", "Bob"}, names(g))
	assert.Equal(t, pipeline.Descending, g.Config().Sort.Direction)

	g.DispatchConfig(pipeline.ToggleSort{Column: "name"})
	assert.False(t, g.Config().Sort.Active())
}

func TestGrid_FilterMapsDisplayToOriginal(t *testing.T) {
	t.Parallel()

	g := New(DefaultOptions(), users())
	g.DispatchConfig(pipeline.SetFilter{Column: "id", Filter: pipeline.Filter{Operator: pipeline.OpGreaterThan, Value: 1}})

	assert.Equal(t, 2, g.RowCount())
	assert.Equal(t, 3, g.TotalRows())
	idx, ok := g.DisplayToOriginal(0)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	_, ok = g.DisplayToOriginal(2)
	assert.False(t, ok)

	g.DispatchConfig(pipeline.ClearAllFilters{})
	assert.Equal(t, 3, g.RowCount())
}

func TestGrid_SelectionClearedWhenOrderChanges(t *testing.T) {
	t.Parallel()

	g := New(DefaultOptions(), users())
	g.DispatchSelection(selection.SelectRow{Index: 0})
	require.True(t, g.Selection().IsRowSelected(0))

	g.DispatchConfig(pipeline.SetColumnWidth{Column: "name", Width: 30})
	assert.True(t, g.Selection().IsRowSelected(0), "resizing keeps the selection")

	g.DispatchConfig(pipeline.ToggleSort{Column: "name"})
	assert.True(t, g.Selection().Empty())

	g.SelectAll()
	g.DispatchConfig(pipeline.SetFilter{Column: "name", Filter: pipeline.Filter{Operator: pipeline.OpContains, Value: "j"}})
	assert.True(t, g.Selection().Empty())

	g.DispatchSelection(selection.SelectColumn{Index: 1})
	g.DispatchConfig(pipeline.SetColumnPinned{Column: "name", Pinned: true})
	assert.True(t, g.Selection().Empty())
}

func TestGrid_EditThroughSortedView(t *testing.T) {
	t.Parallel()

	g := New(DefaultOptions(), users())
	g.DispatchConfig(pipeline.ToggleSort{Column: "name"})

	// display 0 is Bob, original row 2
	require.True(t, g.Edit(0, "name", "Robert"))
	assert.True(t, g.Ledger().IsCellModified(0, 2, "name"))
	assert.True(t, g.IsCellModified(0, "name"))

	v, ok := g.CellValue(0, "name")
	require.True(t, ok)
	assert.Equal(t, "Robert", v)
	assert.Equal(t, "Bob", g.View()[0][1], "rows are never mutated")

	assert.Equal(t,
		[]string{"UPDATE [Users] SET [name] = 'Robert' WHERE [id] = 3;"},
		g.Script("", nil).Statements)

	require.True(t, g.Edit(0, "name", "Bob"))
	assert.False(t, g.Ledger().HasChanges())

	assert.False(t, g.Edit(0, "missing", 1))
	assert.False(t, g.Edit(9, "name", 1))
}

func TestGrid_DeleteScenario(t *testing.T) {
	t.Parallel()

	g := New(DefaultOptions(), users())
	require.True(t, g.ToggleDelete(1))
	assert.True(t, g.IsRowDeleted(1))
	assert.Equal(t, 1, g.Ledger().TotalDeletedRows())

	script := g.Script("Users", []string{"id"})
	assert.Equal(t, []string{"DELETE FROM [Users] WHERE [id] = 2;"}, script.Statements)

	g.ToggleDelete(1)
	assert.False(t, g.IsRowDeleted(1))
	assert.False(t, g.Ledger().HasChanges())
}

func TestGrid_ScriptReportsRowsWithoutKey(t *testing.T) {
	t.Parallel()

	set := users()
	set.Columns[0].IsPrimaryKey = false
	g := New(DefaultOptions(), set)
	g.ToggleDelete(0)

	script := g.Script("", nil)
	assert.Empty(t, script.Statements)
	require.Len(t, script.Skipped, 1)
	assert.Equal(t, 0, script.Skipped[0].RowIndex)
}

func TestGrid_EditSameNumberOfOtherWidth(t *testing.T) {
	t.Parallel()

	columns := grid.NewColumns("_id", "age")
	columns[0].IsPrimaryKey = true
	g := New(DefaultOptions(), grid.ResultSet{
		Table:   "users",
		Columns: columns,
		Rows:    []grid.Row{{"a", int32(5)}},
	})

	require.True(t, g.Edit(0, "age", int64(5)))
	assert.Zero(t, g.Ledger().TotalChangedRows())
	assert.Empty(t, g.Script("", nil).Statements)

	require.True(t, g.Edit(0, "age", int64(6)))
	assert.Equal(t, []string{"UPDATE [users] SET [age] = 6 WHERE [_id] = 'a';"}, g.Script("", nil).Statements)
}

func TestGrid_RevertAndMarkApplied(t *testing.T) {
	t.Parallel()

	g := New(DefaultOptions(), users(), users())
	g.Edit(0, "name", "A")
	g.SetActive(1)
	g.Edit(0, "name", "B")
	g.ToggleDelete(2)

	g.RevertRow(2)
	assert.Equal(t, 0, g.Ledger().TotalDeletedRows())

	g.RevertCell(0, "name")
	assert.Equal(t, []int{0}, g.Ledger().ResultSets())

	g.Edit(1, "name", "C")
	g.MarkApplied()
	assert.Equal(t, []int{0}, g.Ledger().ResultSets())

	g.SetActive(0)
	g.RevertActive()
	assert.False(t, g.Ledger().HasChanges())
}

func TestGrid_SetActive(t *testing.T) {
	t.Parallel()

	other := users()
	other.Rows = other.Rows[:1]
	g := New(DefaultOptions(), users(), other)
	g.DispatchSelection(selection.SelectRow{Index: 1})

	g.SetActive(1)
	assert.Equal(t, 1, g.Active())
	assert.Equal(t, 1, g.RowCount())
	assert.Equal(t, 1, g.ResultSet().Index)
	assert.True(t, g.Selection().Empty())

	g.SetActive(5)
	assert.Equal(t, 1, g.Active())
}

func TestGrid_ColumnsLayout(t *testing.T) {
	t.Parallel()

	set := users()
	set.Columns = append(set.Columns, grid.Column{Name: "email", Ordinal: 2})
	set.Rows = []grid.Row{{1, "John", "j@x.io"}}
	g := New(DefaultOptions(), set)

	g.DispatchConfig(pipeline.SetColumnPinned{Column: "email", Pinned: true})
	g.DispatchConfig(pipeline.SetColumnHidden{Column: "id", Hidden: true})
	assert.Equal(t, []string{"email", "id", "name"}, grid.ColumnNames(g.Columns()))
	assert.Equal(t, []string{"email", "name"}, grid.ColumnNames(g.VisibleColumns()))

	rows, cols := g.AllData()
	assert.Equal(t, []string{"email", "name"}, grid.ColumnNames(cols))
	assert.Equal(t, []grid.Row{{"j@x.io", "John"}}, rows)
}

func TestGrid_ExportSelection(t *testing.T) {
	t.Parallel()

	g := New(DefaultOptions(), users())
	opts := export.Options{Format: export.FormatCSV, IncludeHeaders: true}

	_, err := g.ExportSelection(opts)
	assert.ErrorIs(t, err, ErrEmptySelection)

	g.DispatchSelection(selection.SelectRow{Index: 2})
	g.DispatchSelection(selection.SelectRow{Index: 0, Modifiers: selection.Modifiers{Ctrl: true}})
	out, err := g.ExportSelection(opts)
	require.NoError(t, err)
	assert.Equal(t, "id,name\n1,John\n3,Bob", out)

	g.DispatchSelection(selection.SelectColumn{Index: 1})
	out, err = g.ExportSelection(opts)
	require.NoError(t, err)
	assert.Equal(t, "name\nJohn\nJane\nBob", out)

	g.Edit(1, "name", "Janet")
	g.DispatchSelection(selection.SelectCell{Row: 1, Col: 0})
	g.DispatchSelection(selection.SelectCell{Row: 2, Col: 1, Modifiers: selection.Modifiers{Shift: true}})
	out, err = g.ExportSelection(opts)
	require.NoError(t, err)
	assert.Equal(t, "id,name\n2,Janet\n3,Bob", out)

	all, err := g.ExportAll(export.Options{Format: export.FormatSQL})
	require.NoError(t, err)
	assert.Contains(t, all, "INSERT INTO [Users] ([id], [name]) VALUES (2, 'Janet');")
}

func TestGrid_Window(t *testing.T) {
	t.Parallel()

	set := users()
	for i := range 97 {
		set.Rows = append(set.Rows, grid.Row{i + 4, "x"})
	}
	g := New(Options{Overscan: 2, RowHeight: 1}, set)

	w := g.Window(50, 10)
	assert.Equal(t, 48, w.StartIndex)
	assert.Equal(t, 62, w.EndIndex)
	assert.Len(t, g.Items(50, 10), 15)
	assert.Equal(t, 91, g.ScrollTo(100, 0, 10))
	assert.True(t, g.Window(0, 0).Empty())
}

func TestGrid_Empty(t *testing.T) {
	t.Parallel()

	g := New(Options{})
	assert.Zero(t, g.Len())
	assert.Zero(t, g.RowCount())
	assert.Empty(t, g.View())
	g.DispatchConfig(pipeline.ToggleSort{Column: "x"})
	assert.Equal(t, 1, g.RowHeight())
}

func TestGrid_RowMarkers(t *testing.T) {
	t.Parallel()

	g := New(DefaultOptions(), users())
	g.DispatchConfig(pipeline.ToggleSort{Column: "name"})

	require.True(t, g.Edit(0, "name", "Robert"))
	require.True(t, g.ToggleDelete(2))

	assert.True(t, g.IsRowModified(0))
	assert.False(t, g.IsRowModified(1))
	assert.False(t, g.IsRowModified(2))
	assert.True(t, g.IsRowDeleted(2))
	assert.Equal(t, 2, g.PendingRows(0))
	assert.Equal(t, 0, g.PendingRows(1))

	assert.Equal(t, 0, g.MaxScroll(10))
	assert.Equal(t, 1, g.MaxScroll(2))
}
