package table

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sheenazien8/sqgrid/grid"
	"github.com/sheenazien8/sqgrid/grid/engine"
	"github.com/sheenazien8/sqgrid/grid/pipeline"
	"github.com/sheenazien8/sqgrid/grid/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func people(n int) *engine.Grid {
	columns := grid.NewColumns("id", "name", "note")
	columns[0].IsPrimaryKey = true
	rows := make([]grid.Row, n)
	for i := range n {
		rows[i] = grid.Row{i + 1, fmt.Sprintf("person %d", i+1), nil}
	}
	return engine.New(engine.DefaultOptions(), grid.ResultSet{Table: "people", Columns: columns, Rows: rows})
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "shift+down":
		return tea.KeyMsg{Type: tea.KeyShiftDown}
	case "shift+right":
		return tea.KeyMsg{Type: tea.KeyShiftRight}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+a":
		return tea.KeyMsg{Type: tea.KeyCtrlA}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		m, _ = m.Update(key(k))
	}
	return m
}

func TestModel_Navigation(t *testing.T) {
	t.Parallel()

	g := people(100)
	m := New(g)
	m.SetSize(80, 13)
	require.Equal(t, 10, m.Viewport())

	m = press(m, "j", "j", "l")
	assert.Equal(t, 2, m.Cursor())
	col, ok := m.CursorColumn()
	require.True(t, ok)
	assert.Equal(t, "name", col.Name)

	m = press(m, "G")
	assert.Equal(t, 99, m.Cursor())
	assert.Equal(t, 90, m.Scroll())

	m = press(m, "g")
	assert.Equal(t, 0, m.Cursor())
	assert.Equal(t, 0, m.Scroll())

	m = press(m, "J")
	assert.Equal(t, 10, m.Cursor())
	assert.Equal(t, 1, m.Scroll())
}

func TestModel_SelectionKeys(t *testing.T) {
	t.Parallel()

	g := people(5)
	m := New(g)
	m.SetSize(80, 13)

	m = press(m, " ", "shift+down", "shift+right")
	sel := g.Selection()
	assert.Equal(t, selection.KindCell, sel.Kind())
	assert.Equal(t, 4, sel.Count())
	top, left, bottom, right, ok := sel.Bounds()
	require.True(t, ok)
	assert.Equal(t, []int{0, 0, 1, 1}, []int{top, left, bottom, right})

	m = press(m, "V")
	assert.Equal(t, selection.KindRow, g.Selection().Kind())
	assert.True(t, g.Selection().IsRowSelected(1))

	m = press(m, "C")
	assert.Equal(t, selection.KindColumn, g.Selection().Kind())
	assert.True(t, g.Selection().IsColumnSelected(1))

	m = press(m, "ctrl+a")
	assert.Equal(t, 5, g.Selection().Count())

	press(m, "esc")
	assert.True(t, g.Selection().Empty())
}

func TestModel_ClampAfterFilter(t *testing.T) {
	t.Parallel()

	g := people(20)
	m := New(g)
	m.SetSize(80, 13)
	m = press(m, "G")

	g.DispatchConfig(pipeline.SetFilter{Column: "id", Filter: pipeline.Filter{Operator: pipeline.OpLessThan, Value: 4}})
	m.Clamp()
	assert.Equal(t, 2, m.Cursor())
	assert.Equal(t, 0, m.Scroll())
}

func TestModel_View(t *testing.T) {
	t.Parallel()

	g := people(3)
	require.True(t, g.Edit(0, "name", "Ann"))
	require.True(t, g.ToggleDelete(2))
	g.DispatchConfig(pipeline.ToggleSort{Column: "id"})

	m := New(g)
	m.SetSize(60, 8)
	out := m.View()
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 8)

	assert.Contains(t, lines[0], "name")
	assert.Contains(t, lines[0], "▲")
	assert.Contains(t, lines[2], "Ann")
	assert.Contains(t, lines[2], "*")
	assert.Contains(t, lines[2], "NULL")
	assert.Contains(t, lines[4], "-")
	assert.Contains(t, lines[7], "Row 1/3")
	assert.Contains(t, lines[7], "1 modified, 1 deleted")
}

func TestModel_EmptyView(t *testing.T) {
	t.Parallel()

	g := people(2)
	g.DispatchConfig(pipeline.SetFilter{Column: "id", Filter: pipeline.Filter{Operator: pipeline.OpGreaterThan, Value: 10}})

	m := New(g)
	m.SetSize(60, 6)
	assert.Contains(t, m.View(), "No rows match the filter")
}

func TestModel_MouseClick(t *testing.T) {
	t.Parallel()

	g := people(5)
	m := New(g)
	m.SetSize(80, 13)

	// gutter is 3 wide, then the id column
	m, _ = m.Update(tea.MouseMsg{X: 5, Y: 3, Type: tea.MouseLeft})
	assert.Equal(t, 1, m.Cursor())
	assert.True(t, g.Selection().IsCellSelected(1, 0))

	m, _ = m.Update(tea.MouseMsg{X: 0, Y: 4, Type: tea.MouseLeft, Ctrl: true})
	assert.Equal(t, selection.KindRow, g.Selection().Kind())
	assert.True(t, g.Selection().IsRowSelected(2))

	_, _ = m.Update(tea.MouseMsg{X: 5, Y: 0, Type: tea.MouseLeft})
	assert.Equal(t, selection.KindColumn, g.Selection().Kind())
	assert.True(t, g.Selection().IsColumnSelected(0))
}

func TestTruncateOrPad(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc  ", truncateOrPad("abc", 5))
	assert.Equal(t, "abcd…", truncateOrPad("abcdefgh", 5))
	assert.Equal(t, "", truncateOrPad("abc", 0))
	assert.Equal(t, "a↵b", cellText("a\nb"))
	assert.Equal(t, "NULL", cellText(nil))
}
