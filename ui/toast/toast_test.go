package toast

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestModel_ExpiringToast(t *testing.T) {
	t.Parallel()

	m := New()
	cmd := m.Show("Copied 3 rows", Success)
	assert.NotNil(t, cmd)
	assert.True(t, m.Visible())
	assert.False(t, m.Blocking())
	assert.Contains(t, m.Line(), "Copied 3 rows")

	stale := ExpiredMsg{id: m.id - 1}
	m, _ = m.Update(stale)
	assert.True(t, m.Visible())

	m, _ = m.Update(ExpiredMsg{id: m.id})
	assert.False(t, m.Visible())
	assert.Empty(t, m.Line())
}

func TestModel_BlockingToast(t *testing.T) {
	t.Parallel()

	m := New()
	m.SetSize(100, 20)
	cmd := m.Show("connection refused", Error)
	assert.Nil(t, cmd)
	assert.True(t, m.Blocking())
	assert.Contains(t, m.View(), "connection refused")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.Visible())
}
