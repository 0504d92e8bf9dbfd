package changes

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/sheenazien8/sqgrid/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	users = []grid.Row{
		{1, "John", "john@example.com"},
		{2, "Jane", "jane@example.com"},
		{3, "Bob", nil},
	}
	userColumns = grid.NewColumns("id", "name", "email")
)

func TestEditCell_RevertToOriginalDropsRow(t *testing.T) {
	t.Parallel()

	row := users[0]
	l := Reduce(Ledger{}, EditCell{ResultSet: 0, Row: 0, Column: "name", OriginalRow: row, OriginalValue: "John", NewValue: "Jon"})
	require.Equal(t, 1, l.TotalChangedRows())
	assert.True(t, l.IsCellModified(0, 0, "name"))
	assert.Equal(t, "Jon", l.CurrentValue(0, 0, "name", "John"))

	l = Reduce(l, EditCell{ResultSet: 0, Row: 0, Column: "name", OriginalRow: row, OriginalValue: "John", NewValue: "John"})
	_, ok := l.Row(0, 0)
	assert.False(t, ok)
	assert.Zero(t, l.TotalChangedRows())
	assert.False(t, l.HasChanges())
	assert.Empty(t, l.ResultSets())
}

func TestEditCell_NoOpNeverRecorded(t *testing.T) {
	t.Parallel()

	l := Reduce(Ledger{}, EditCell{ResultSet: 0, Row: 1, Column: "name", OriginalRow: users[1], OriginalValue: "Jane", NewValue: "Jane"})
	assert.False(t, l.HasChanges())
	assert.Zero(t, l.TotalChangedRows())

	l = Reduce(l, EditCell{ResultSet: 0, Row: 1, Column: "email", OriginalRow: users[1], OriginalValue: "jane@example.com", NewValue: "j@x.io"})
	before := l.TotalChangedRows()
	l = Reduce(l, EditCell{ResultSet: 0, Row: 1, Column: "name", OriginalRow: users[1], OriginalValue: "Jane", NewValue: "Jane"})
	assert.Equal(t, before, l.TotalChangedRows())

	rc, ok := l.Row(0, 1)
	require.True(t, ok)
	assert.Len(t, rc.CellDiffs, 1)
}

func TestEditCell_KeepsFirstOriginal(t *testing.T) {
	t.Parallel()

	l := Reduce(Ledger{}, EditCell{ResultSet: 0, Row: 2, Column: "name", OriginalRow: users[2], OriginalValue: "Bob", NewValue: "Rob"})
	l = Reduce(l, EditCell{ResultSet: 0, Row: 2, Column: "name", OriginalRow: users[2], OriginalValue: "Rob", NewValue: "Robert"})

	rc, ok := l.Row(0, 2)
	require.True(t, ok)
	assert.Equal(t, CellDiff{Original: "Bob", New: "Robert"}, rc.CellDiffs["name"])

	l = Reduce(l, EditCell{ResultSet: 0, Row: 2, Column: "name", OriginalRow: users[2], OriginalValue: "Robert", NewValue: "Bob"})
	assert.False(t, l.HasChanges())
}

func TestEditCell_TypeSensitive(t *testing.T) {
	t.Parallel()

	l := Reduce(Ledger{}, EditCell{ResultSet: 0, Row: 0, Column: "id", OriginalRow: users[0], OriginalValue: 1, NewValue: "1"})
	assert.Equal(t, 1, l.TotalChangedRows())
}

func TestEditCell_NumericWidthsCompareByValue(t *testing.T) {
	t.Parallel()

	row := grid.Row{"a", int32(5), float32(2.5)}
	l := Reduce(Ledger{}, EditCell{ResultSet: 0, Row: 0, Column: "age", OriginalRow: row, OriginalValue: int32(5), NewValue: int64(5)})
	l = Reduce(l, EditCell{ResultSet: 0, Row: 0, Column: "score", OriginalRow: row, OriginalValue: float32(2.5), NewValue: 2.5})
	assert.False(t, l.HasChanges())
	assert.Zero(t, l.TotalChangedRows())

	l = Reduce(l, EditCell{ResultSet: 0, Row: 0, Column: "age", OriginalRow: row, OriginalValue: int32(5), NewValue: int64(6)})
	l = Reduce(l, EditCell{ResultSet: 0, Row: 0, Column: "age", OriginalRow: row, OriginalValue: int64(6), NewValue: 5})
	assert.False(t, l.HasChanges())
}

func TestDeleteRow_KeepsDiffsAndRestore(t *testing.T) {
	t.Parallel()

	l := Reduce(Ledger{}, EditCell{ResultSet: 0, Row: 0, Column: "name", OriginalRow: users[0], OriginalValue: "John", NewValue: "Jon"})
	l = Reduce(l, DeleteRow{ResultSet: 0, Row: 0, OriginalRow: users[0]})

	assert.Equal(t, 1, l.TotalDeletedRows())
	assert.Zero(t, l.TotalChangedRows())
	assert.True(t, l.IsRowDeleted(0, 0))
	rc, _ := l.Row(0, 0)
	assert.Len(t, rc.CellDiffs, 1)

	l = Reduce(l, RestoreRow{ResultSet: 0, Row: 0})
	assert.False(t, l.IsRowDeleted(0, 0))
	assert.Equal(t, 1, l.TotalChangedRows())
	assert.Zero(t, l.TotalDeletedRows())
}

func TestRestoreRow_WithoutDiffsDropsRow(t *testing.T) {
	t.Parallel()

	l := Reduce(Ledger{}, DeleteRow{ResultSet: 2, Row: 7, OriginalRow: users[1]})
	require.Equal(t, []int{2}, l.ResultSets())

	l = Reduce(l, RestoreRow{ResultSet: 2, Row: 7})
	assert.False(t, l.HasChanges())

	same := Reduce(l, RestoreRow{ResultSet: 2, Row: 7})
	assert.Equal(t, l, same)
}

func TestRevertCellAndRow(t *testing.T) {
	t.Parallel()

	l := Reduce(Ledger{}, EditCell{ResultSet: 0, Row: 0, Column: "name", OriginalRow: users[0], OriginalValue: "John", NewValue: "Jon"})
	l = Reduce(l, EditCell{ResultSet: 0, Row: 0, Column: "email", OriginalRow: users[0], OriginalValue: "john@example.com", NewValue: nil})

	l = Reduce(l, RevertCell{ResultSet: 0, Row: 0, Column: "name"})
	assert.False(t, l.IsCellModified(0, 0, "name"))
	assert.True(t, l.IsCellModified(0, 0, "email"))

	l = Reduce(l, RevertCell{ResultSet: 0, Row: 0, Column: "email"})
	assert.False(t, l.HasChanges())

	l = Reduce(l, DeleteRow{ResultSet: 0, Row: 1, OriginalRow: users[1]})
	l = Reduce(l, EditCell{ResultSet: 0, Row: 1, Column: "name", OriginalRow: users[1], OriginalValue: "Jane", NewValue: "J"})
	l = Reduce(l, RevertRow{ResultSet: 0, Row: 1})
	assert.False(t, l.HasChanges())
	assert.Zero(t, l.TotalDeletedRows())
}

func TestRevertAllAndCommitSuccess(t *testing.T) {
	t.Parallel()

	var l Ledger
	for rs := range 3 {
		l = Reduce(l, DeleteRow{ResultSet: rs, Row: 0, OriginalRow: users[0]})
		l = Reduce(l, EditCell{ResultSet: rs, Row: 1, Column: "name", OriginalRow: users[1], OriginalValue: "Jane", NewValue: "X"})
	}
	require.Equal(t, 3, l.TotalDeletedRows())
	require.Equal(t, 3, l.TotalChangedRows())

	scoped := Reduce(l, RevertAll{ResultSet: Only(1)})
	assert.Equal(t, []int{0, 2}, scoped.ResultSets())
	assert.Equal(t, 2, scoped.TotalDeletedRows())
	assert.Equal(t, 2, scoped.TotalChangedRows())

	committed := Reduce(scoped, CommitSuccess{ResultSet: Only(0)})
	assert.Equal(t, []int{2}, committed.ResultSets())

	assert.False(t, Reduce(l, RevertAll{}).HasChanges())
	assert.False(t, Reduce(l, CommitSuccess{}).HasChanges())
	assert.Equal(t, 3, l.TotalDeletedRows(), "reduce must not mutate its input")
}

func TestLedger_AccessorsReturnCopies(t *testing.T) {
	t.Parallel()

	l := Reduce(Ledger{}, EditCell{ResultSet: 0, Row: 0, Column: "name", OriginalRow: users[0], OriginalValue: "John", NewValue: "Jon"})

	rc, ok := l.Row(0, 0)
	require.True(t, ok)
	rc.CellDiffs["email"] = CellDiff{Original: "john@example.com", New: "x"}
	rc.OriginalRow[1] = "Changed"

	for _, c := range l.Changes(0) {
		c.CellDiffs["id"] = CellDiff{Original: 1, New: 9}
	}

	assert.False(t, l.IsCellModified(0, 0, "email"))
	assert.False(t, l.IsCellModified(0, 0, "id"))
	assert.Equal(t, "John", users[0][1])
	again, _ := l.Row(0, 0)
	assert.Len(t, again.CellDiffs, 1)
	assert.Equal(t, "John", again.OriginalRow[1])
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	before := Reduce(Ledger{}, EditCell{ResultSet: 0, Row: 0, Column: "name", OriginalRow: users[0], OriginalValue: "John", NewValue: "Jon"})
	_ = Reduce(before, EditCell{ResultSet: 0, Row: 0, Column: "email", OriginalRow: users[0], OriginalValue: "john@example.com", NewValue: "x"})
	_ = Reduce(before, RevertCell{ResultSet: 0, Row: 0, Column: "name"})
	_ = Reduce(before, DeleteRow{ResultSet: 0, Row: 0, OriginalRow: users[0]})

	rc, ok := before.Row(0, 0)
	require.True(t, ok)
	assert.Equal(t, map[string]CellDiff{"name": {Original: "John", New: "Jon"}}, rc.CellDiffs)
	assert.False(t, rc.IsDeleted)
}

func TestLedger_GarbageCollectionProperty(t *testing.T) {
	t.Parallel()

	faker := gofakeit.New(3)
	columns := []string{"a", "b", "c", "d"}

	for range 100 {
		original := grid.Row{faker.Word(), faker.Word(), faker.Word(), faker.Word()}
		var l Ledger
		for range faker.Number(1, 30) {
			col := faker.Number(0, len(columns)-1)
			l = Reduce(l, EditCell{
				ResultSet:     0,
				Row:           5,
				Column:        columns[col],
				OriginalRow:   original,
				OriginalValue: original[col],
				NewValue:      faker.Word() + "!",
			})
			require.Equal(t, 1, l.TotalChangedRows())
		}
		for col, name := range columns {
			l = Reduce(l, EditCell{ResultSet: 0, Row: 5, Column: name, OriginalRow: original, OriginalValue: original[col], NewValue: original[col]})
		}
		_, ok := l.Row(0, 5)
		require.False(t, ok)
		require.Zero(t, l.TotalChangedRows())
	}
}

func TestLedger_CountersMatchContents(t *testing.T) {
	t.Parallel()

	faker := gofakeit.New(9)
	var l Ledger
	for range 500 {
		rs, row := faker.Number(0, 2), faker.Number(0, 2)
		var action Action
		switch faker.Number(0, 5) {
		case 0:
			action = EditCell{ResultSet: rs, Row: row, Column: "name", OriginalRow: users[row], OriginalValue: users[row][1], NewValue: faker.RandomString([]string{"John", "Jane", "Bob", "X"})}
		case 1:
			action = DeleteRow{ResultSet: rs, Row: row, OriginalRow: users[row]}
		case 2:
			action = RestoreRow{ResultSet: rs, Row: row}
		case 3:
			action = RevertCell{ResultSet: rs, Row: row, Column: "name"}
		case 4:
			action = RevertRow{ResultSet: rs, Row: row}
		default:
			action = RevertAll{ResultSet: Only(rs)}
		}
		l = Reduce(l, action)

		changed, deleted := 0, 0
		for _, set := range l.ResultSets() {
			for _, rc := range l.Changes(set) {
				require.False(t, len(rc.CellDiffs) == 0 && !rc.IsDeleted, "empty row change left in ledger")
				if rc.IsDeleted {
					deleted++
				} else {
					changed++
				}
			}
		}
		require.Equal(t, changed, l.TotalChangedRows())
		require.Equal(t, deleted, l.TotalDeletedRows())
	}
}
