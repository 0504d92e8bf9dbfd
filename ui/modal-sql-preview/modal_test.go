package modalsqlpreview

import (
	"regexp"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sheenazien8/sqgrid/grid/changes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var escapes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(s string) string {
	return escapes.ReplaceAllString(s, "")
}

func TestHighlight_KeepsText(t *testing.T) {
	t.Parallel()

	sql := "UPDATE [Users] SET [name] = N'O''Neil' WHERE [id] = 2;\nDELETE FROM [Users] WHERE [id] = 3;"
	assert.Equal(t, sql, plain(Highlight(sql)))
	assert.Equal(t, "", Highlight(""))
}

func script() changes.Script {
	return changes.Script{
		Statements: []string{"DELETE FROM [Users] WHERE [id] = 2;"},
		Skipped:    []changes.SkippedRow{{RowIndex: 4, Reason: "no primary key value"}},
	}
}

func TestModel_CopyAndApply(t *testing.T) {
	t.Parallel()

	m := New()
	m.SetSize(120, 40)
	m.Show("Users", script())

	out := plain(m.View())
	assert.Contains(t, out, "Pending changes (1 statements) · Users")
	assert.Contains(t, out, "DELETE FROM [Users] WHERE [id] = 2;")
	assert.Contains(t, out, "row 5: no primary key value")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	require.NotNil(t, cmd)
	assert.Equal(t, CopyMsg{Script: "DELETE FROM [Users] WHERE [id] = 2;"}, cmd())
	assert.True(t, m.Visible())

	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	require.NotNil(t, cmd)
	assert.Equal(t, AppliedMsg{}, cmd())
	assert.False(t, m.Visible())
}

func TestModel_EmptyScript(t *testing.T) {
	t.Parallel()

	m := New()
	m.Show("", changes.Script{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	assert.Nil(t, cmd)
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	assert.Nil(t, cmd)
}
