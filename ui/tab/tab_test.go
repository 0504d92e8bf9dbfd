package tab

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sheenazien8/sqgrid/grid"
	"github.com/sheenazien8/sqgrid/grid/engine"
	"github.com/sheenazien8/sqgrid/grid/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sets() *engine.Grid {
	a := grid.ResultSet{Table: "users", Columns: grid.NewColumns("id"), Rows: []grid.Row{{1}, {2}, {3}}}
	b := grid.ResultSet{Table: "orders", Columns: grid.NewColumns("id", "total"), Rows: []grid.Row{{10, 1.5}}}
	return engine.New(engine.DefaultOptions(), a, b)
}

func TestModel_SwitchKeepsCursorPerTab(t *testing.T) {
	t.Parallel()

	g := sets()
	m := New(g)
	m.SetSize(80, 10)
	require.Equal(t, 2, m.Len())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("V")})
	assert.Equal(t, 1, m.Table().Cursor())
	assert.False(t, g.Selection().Empty())

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("]")})
	require.NotNil(t, cmd)
	assert.Equal(t, SwitchedMsg{Index: 1}, cmd())
	assert.Equal(t, 1, g.Active())
	assert.Equal(t, 0, m.Table().Cursor())
	assert.Equal(t, selection.KindNone, g.Selection().Kind())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("]")})
	assert.Equal(t, 0, g.Active())
	assert.Equal(t, 1, m.Table().Cursor())
}

func TestModel_View(t *testing.T) {
	t.Parallel()

	g := sets()
	require.True(t, g.Edit(0, "id", 5))
	m := New(g)
	m.SetSize(80, 10)

	out := m.View()
	assert.Contains(t, out, "Result 1 ●1")
	assert.Contains(t, out, "Result 2")
	assert.Contains(t, out, "users")
}

func TestModel_ClickTab(t *testing.T) {
	t.Parallel()

	g := sets()
	m := New(g)
	m.SetSize(80, 10)

	first := m.labels()[0]
	_, cmd := m.Update(tea.MouseMsg{X: lipgloss.Width(first) + 1, Y: 0, Type: tea.MouseLeft})
	require.NotNil(t, cmd)
	assert.Equal(t, 1, g.Active())
}
