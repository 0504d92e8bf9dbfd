package modaleditcell

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sheenazien8/sqgrid/grid"
	"github.com/sheenazien8/sqgrid/grid/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	t.Parallel()

	when := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	cases := []struct {
		text     string
		original any
		declared string
		want     any
	}{
		{"42", int64(7), "", int64(42)},
		{" 42 ", 7, "", int64(42)},
		{"4.5", 1.0, "", 4.5},
		{"abc", int64(1), "", "abc"},
		{"false", true, "", false},
		{"2024-01-02 03:04:05", time.Time{}, "", when},
		{"hello", "old", "", "hello"},
		{"12", nil, "INTEGER", int64(12)},
		{"1.25", nil, "numeric(10,2)", 1.25},
		{"12", nil, "TEXT", "12"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ParseValue(c.text, c.original, c.declared), c.text)
	}
}

func TestParseValue_UnchangedTextLeavesNoChange(t *testing.T) {
	t.Parallel()

	columns := grid.NewColumns("_id", "age", "score")
	columns[0].IsPrimaryKey = true
	g := engine.New(engine.DefaultOptions(), grid.ResultSet{
		Table:   "users",
		Columns: columns,
		Rows:    []grid.Row{{"a", int32(5), float32(0.5)}},
	})

	for _, col := range []string{"age", "score"} {
		original, ok := g.CellValue(0, col)
		require.True(t, ok)
		require.True(t, g.Edit(0, col, ParseValue(grid.ToString(original), original, "")))
	}
	assert.Zero(t, g.Ledger().TotalChangedRows())
	assert.Empty(t, g.Script("", nil).Statements)
}

func TestModel_Submit(t *testing.T) {
	t.Parallel()

	m := New()
	m.SetSize(100, 30)
	col := grid.Column{Name: "age", DeclaredType: "INT"}
	m.Show(3, col, "people", int64(30))
	assert.True(t, m.Visible())
	assert.Equal(t, "30", m.input.Value())
	assert.Contains(t, m.View(), "Edit Cell (INT)")

	m.input.SetValue("31")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.False(t, m.Visible())
	assert.Equal(t, SubmittedMsg{Row: 3, Column: "age", Value: int64(31)}, cmd())
}

func TestModel_SetNullAndCancel(t *testing.T) {
	t.Parallel()

	m := New()
	m.Show(0, grid.Column{Name: "note"}, "", "x")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	require.NotNil(t, cmd)
	assert.Equal(t, SubmittedMsg{Row: 0, Column: "note", Value: nil}, cmd())

	m.Show(0, grid.Column{Name: "note"}, "", nil)
	assert.Empty(t, m.input.Value())
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.False(t, m.Visible())
}
