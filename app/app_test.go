package app

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sheenazien8/sqgrid/config"
	"github.com/sheenazien8/sqgrid/grid"
	"github.com/sheenazien8/sqgrid/grid/export"
	"github.com/sheenazien8/sqgrid/source"
	"github.com/sheenazien8/sqgrid/storage"
	"github.com/sheenazien8/sqgrid/ui/modal-edit-cell"
	"github.com/sheenazien8/sqgrid/ui/modal-export"
	"github.com/sheenazien8/sqgrid/ui/toast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func users() grid.ResultSet {
	columns := grid.NewColumns("id", "name", "age")
	columns[0].IsPrimaryKey = true
	return grid.ResultSet{
		Table:   "users",
		Columns: columns,
		Rows: []grid.Row{
			{1, "alice", 30},
			{2, "bob", 25},
			{3, "carol", 35},
		},
	}
}

type harness struct {
	t       *testing.T
	m       Model
	clipped []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg, err := config.Load(filepath.Join(t.TempDir(), "config.yml"))
	require.NoError(t, err)
	cfg.ExportDir = t.TempDir()

	h := &harness{t: t}
	h.m = New(Options{Config: cfg})
	h.m.clipboard = func(s string) error {
		h.clipped = append(h.clipped, s)
		return nil
	}
	h.m.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	h.send(tea.WindowSizeMsg{Width: 120, Height: 30})
	h.send(LoadedMsg{Sets: []grid.ResultSet{users()}})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	h.t.Helper()
	updated, cmd := h.m.Update(msg)
	h.m = updated.(Model)
	return cmd
}

func (h *harness) keys(keys ...string) tea.Cmd {
	h.t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		cmd = h.send(msg)
	}
	return cmd
}

// resolve runs a command that answers immediately and feeds its message back
func (h *harness) resolve(cmd tea.Cmd) {
	h.t.Helper()
	require.NotNil(h.t, cmd)
	h.send(cmd())
}

func TestModel_LoadAndView(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	assert.True(t, h.m.ready())
	assert.Equal(t, FocusTable, h.m.Focus)
	assert.Equal(t, 30-headerHeight-filterBarHeight-footerHeight, h.m.ContentHeight)

	view := h.m.View()
	assert.Contains(t, view, "alice")
	assert.Contains(t, view, "carol")
	assert.Contains(t, h.m.HeaderStyle, "users")
}

func TestModel_InitWithoutURL(t *testing.T) {
	t.Parallel()

	m := New(Options{})
	assert.Nil(t, m.Init())
	assert.False(t, m.ready())

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, FocusTable, updated.(Model).Focus)
}

func TestModel_LoadFailed(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.send(LoadFailedMsg{Err: errors.New("connection refused")})
	assert.True(t, h.m.Toast.Blocking())
	assert.Contains(t, h.m.View(), "connection refused")

	h.keys("esc")
	assert.False(t, h.m.Toast.Visible())
}

func TestModel_FilterAndSort(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.keys("/")
	assert.Equal(t, FocusFilter, h.m.Focus)

	h.keys("age > 26")
	h.resolve(h.keys("enter"))
	assert.Equal(t, FocusTable, h.m.Focus)
	assert.Equal(t, 2, h.m.Grid.RowCount())
	assert.Equal(t, "2 of 3 rows match", h.m.Toast.Message())
	assert.Contains(t, h.m.Filter.View(), "age > 26")

	// cursor on name, sort descending
	h.keys("l", "s", "s")
	view := h.m.Grid.View()
	require.Len(t, view, 2)
	assert.Equal(t, "carol", view[0][1])

	h.keys("/")
	h.resolve(h.send(tea.KeyMsg{Type: tea.KeyCtrlX}))
	assert.Equal(t, 3, h.m.Grid.RowCount())
	assert.Empty(t, h.m.Grid.Config().Filters)
}

func TestModel_EditAndApply(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.keys("l", "e")
	assert.Equal(t, FocusEditCellModal, h.m.Focus)
	assert.True(t, h.m.EditCellModal.Visible())

	h.keys("esc")
	assert.Equal(t, FocusTable, h.m.Focus)

	h.send(modaleditcell.SubmittedMsg{Row: 0, Column: "name", Value: "alicia"})
	assert.True(t, h.m.Grid.IsCellModified(0, "name"))
	assert.Equal(t, 1, h.m.Grid.PendingRows(0))

	h.keys("S")
	assert.Equal(t, FocusSQLPreviewModal, h.m.Focus)
	h.resolve(h.keys("y"))
	require.Len(t, h.clipped, 1)
	assert.Contains(t, h.clipped[0], "alicia")
	assert.Contains(t, h.clipped[0], "UPDATE")

	h.resolve(h.keys("a"))
	assert.Equal(t, FocusTable, h.m.Focus)
	assert.Equal(t, 0, h.m.Grid.PendingRows(0))
	assert.Equal(t, toast.Success, h.m.Toast.Kind())
}

func TestModel_RowActions(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.keys("l", "n")
	v, ok := h.m.Grid.CellValue(0, "name")
	require.True(t, ok)
	assert.Nil(t, v)

	h.keys("r")
	assert.False(t, h.m.Grid.IsCellModified(0, "name"))

	h.keys("j", "d")
	assert.True(t, h.m.Grid.IsRowDeleted(1))
	h.keys("u")
	assert.False(t, h.m.Grid.IsRowDeleted(1))

	h.keys("d", "U")
	assert.False(t, h.m.Grid.Ledger().HasChanges())
}

func TestModel_Yank(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.keys("y")
	assert.Equal(t, []string{"1"}, h.clipped)

	h.keys("V", "y")
	require.Len(t, h.clipped, 2)
	assert.Equal(t, "1\talice\t30", h.clipped[1])
	assert.Equal(t, "1 row(s) copied to clipboard", h.m.Toast.Message())
}

func TestModel_ExportToFile(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.keys("x")
	assert.Equal(t, FocusExportModal, h.m.Focus)
	h.keys("esc")
	assert.Equal(t, FocusTable, h.m.Focus)

	h.send(modalexport.RequestMsg{
		Format:         export.FormatCSV,
		IncludeHeaders: true,
		Target:         modalexport.TargetFile,
	})

	path := filepath.Join(h.m.config.ExportDir, "users_20240102_030405.csv")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,name,age\n1,alice,30\n2,bob,25\n3,carol,35", string(data))
	assert.Equal(t, string(export.FormatCSV), h.m.config.ExportFormat)
}

func TestModel_ExportSelectionToClipboard(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.send(modalexport.RequestMsg{Format: export.FormatJSON, SelectionOnly: true})
	assert.Equal(t, toast.Warning, h.m.Toast.Kind())
	assert.Empty(t, h.clipped)
	h.keys("esc")

	h.keys("j", "V")
	h.send(modalexport.RequestMsg{Format: export.FormatSQL, SelectionOnly: true})
	require.Len(t, h.clipped, 1)
	assert.Contains(t, h.clipped[0], "INSERT INTO")
	assert.Contains(t, h.clipped[0], "'bob'")
}

func TestModel_QuitConfirmation(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.keys("d", "q")
	assert.Equal(t, FocusExitModal, h.m.Focus)
	assert.True(t, h.m.ExitModal.Visible())

	h.keys("n")
	assert.Equal(t, FocusTable, h.m.Focus)

	h.keys("q")
	cmd := h.keys("y")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_Modals(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	for _, tc := range []struct {
		key   string
		focus Focus
	}{
		{"?", FocusHelpModal},
		{"c", FocusColumnsModal},
		{"p", FocusCellPreviewModal},
	} {
		h.keys(tc.key)
		assert.Equal(t, tc.focus, h.m.Focus, tc.key)
		assert.NotEmpty(t, h.m.View())
		h.keys("esc")
		assert.Equal(t, FocusTable, h.m.Focus, tc.key)
	}
}

func TestModel_MouseFocusesFilter(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.send(tea.MouseMsg{X: 5, Y: headerHeight + 1, Type: tea.MouseLeft})
	assert.Equal(t, FocusFilter, h.m.Focus)

	// tab bar, column header and separator sit above the first row
	h.send(tea.MouseMsg{X: 10, Y: headerHeight + filterBarHeight + 4, Type: tea.MouseLeft})
	assert.Equal(t, FocusTable, h.m.Focus)
	assert.Equal(t, 1, h.m.Tabs.Table().Cursor())
}

func TestExportFileName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "public.users_1.xlsx", exportFileName("public.users", export.FormatXLSX, "1"))
	assert.Equal(t, "export_1.md", exportFileName("", export.FormatMarkdown, "1"))
	assert.Equal(t, "my_table_1.csv", exportFileName("my table", export.FormatCSV, "1"))
}

func TestModel_InitLoadsAndRecordsHistory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "app.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT);
		INSERT INTO users (id, name) VALUES (1, 'alice'), (2, 'bob');`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	history, err := storage.Open(filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { history.Close() })

	m := New(Options{
		Request: source.Request{URL: "sqlite:" + path, Query: "users", PrimaryKeys: []string{"id"}},
		History: history,
	})
	assert.Contains(t, m.View(), "Loading")

	cmd := m.Init()
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, LoadedMsg{}, msg)

	updated, _ := m.Update(msg)
	m = updated.(Model)
	require.True(t, m.ready())
	assert.Equal(t, 2, m.Grid.RowCount())
	assert.Equal(t, "users", m.Grid.ResultSet().Table)

	entries, err := history.RecentQueryHistory(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "users", entries[0].Query)
	assert.Equal(t, int64(2), entries[0].Rows)
	assert.Empty(t, entries[0].Error)
}
