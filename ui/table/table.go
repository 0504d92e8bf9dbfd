// Package table renders the active result set of a grid as a scrollable
// terminal table with a cursor, selection highlighting and change markers.
package table

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sheenazien8/sqgrid/grid"
	"github.com/sheenazien8/sqgrid/grid/engine"
	"github.com/sheenazien8/sqgrid/grid/pipeline"
	"github.com/sheenazien8/sqgrid/grid/selection"
	"github.com/sheenazien8/sqgrid/ui/theme"
)

// Lines taken by the header, the separator and the status bar
const chromeLines = 3

// Model is a view over an engine.Grid. The grid is shared with the caller;
// the model only keeps cursor and scroll state.
type Model struct {
	grid *engine.Grid

	width  int
	height int

	scroll    int
	colOffset int
	cursorRow int
	cursorCol int

	focused bool
}

// New creates a table over g
func New(g *engine.Grid) Model {
	return Model{grid: g, focused: true}
}

// SetGrid replaces the grid and resets the cursor
func (m *Model) SetGrid(g *engine.Grid) {
	m.grid = g
	m.Reset()
}

// Reset moves the cursor back to the first cell
func (m *Model) Reset() {
	m.scroll, m.colOffset, m.cursorRow, m.cursorCol = 0, 0, 0, 0
}

// SetSize sets the viewport dimensions
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.Clamp()
}

// SetFocused sets whether the table is focused
func (m *Model) SetFocused(focused bool) {
	m.focused = focused
}

// Focused returns whether the table is focused
func (m Model) Focused() bool {
	return m.focused
}

// Cursor returns the display index of the cursor row
func (m Model) Cursor() int {
	return m.cursorRow
}

// CursorColumn returns the column under the cursor
func (m Model) CursorColumn() (grid.Column, bool) {
	if m.grid == nil {
		return grid.Column{}, false
	}
	cols := m.grid.VisibleColumns()
	if m.cursorCol < 0 || m.cursorCol >= len(cols) {
		return grid.Column{}, false
	}
	return cols[m.cursorCol], true
}

// CursorValue returns the current value of the cell under the cursor
func (m Model) CursorValue() (any, bool) {
	col, ok := m.CursorColumn()
	if !ok {
		return nil, false
	}
	return m.grid.CellValue(m.cursorRow, col.Name)
}

// Viewport returns the number of terminal lines available for rows
func (m Model) Viewport() int {
	return max(0, m.height-chromeLines)
}

// Scroll returns the current scroll offset
func (m Model) Scroll() int {
	return m.scroll
}

// Clamp keeps the cursor and scroll offsets inside the grid after the row
// or column count changed.
func (m *Model) Clamp() {
	if m.grid == nil {
		return
	}
	m.cursorRow = min(max(0, m.cursorRow), max(0, m.grid.RowCount()-1))
	m.cursorCol = min(max(0, m.cursorCol), max(0, len(m.grid.VisibleColumns())-1))
	m.scroll = min(max(0, m.scroll), m.grid.MaxScroll(m.Viewport()))
	m.follow()
}

// MoveTo puts the cursor on a cell
func (m *Model) MoveTo(row, col int) {
	m.cursorRow, m.cursorCol = row, col
	m.Clamp()
}

// follow scrolls so the cursor is on screen
func (m *Model) follow() {
	m.scroll = m.grid.ScrollTo(m.cursorRow, m.scroll, m.Viewport())

	cols := m.grid.VisibleColumns()
	pinned := pinnedCount(cols)
	if m.cursorCol < pinned {
		return
	}
	m.colOffset = max(m.colOffset, pinned)
	if m.cursorCol < m.colOffset {
		m.colOffset = m.cursorCol
	}
	for m.colOffset < m.cursorCol && !m.fits(cols, m.cursorCol) {
		m.colOffset++
	}
}

// fits reports whether column i is fully drawn at the current offset
func (m Model) fits(cols []grid.Column, i int) bool {
	for _, span := range m.layout(cols) {
		if span.index == i {
			return span.x+span.width <= m.width
		}
	}
	return false
}

// Update handles navigation and selection keys. Editing keys are left to
// the caller.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused || m.grid == nil {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.handleKey(msg.String())
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m *Model) handleKey(key string) {
	page := max(1, m.Viewport()/m.grid.RowHeight())
	last := len(m.grid.VisibleColumns()) - 1

	switch key {
	case "up", "k":
		m.MoveTo(m.cursorRow-1, m.cursorCol)
	case "down", "j":
		m.MoveTo(m.cursorRow+1, m.cursorCol)
	case "pgup", "K":
		m.MoveTo(m.cursorRow-page, m.cursorCol)
	case "pgdown", "J":
		m.MoveTo(m.cursorRow+page, m.cursorCol)
	case "home", "g":
		m.MoveTo(0, m.cursorCol)
	case "end", "G":
		m.MoveTo(m.grid.RowCount()-1, m.cursorCol)
	case "left", "h":
		m.MoveTo(m.cursorRow, m.cursorCol-1)
	case "right", "l":
		m.MoveTo(m.cursorRow, m.cursorCol+1)
	case "H":
		m.colOffset = 0
		m.MoveTo(m.cursorRow, 0)
	case "L":
		m.MoveTo(m.cursorRow, last)

	case "shift+up", "shift+down", "shift+left", "shift+right":
		m.extend(strings.TrimPrefix(key, "shift+"))
	case " ":
		m.selectCell(selection.Modifiers{})
	case "ctrl+@":
		m.selectCell(selection.Modifiers{Ctrl: true})
	case "V":
		m.grid.DispatchSelection(selection.SelectRow{Index: m.cursorRow})
	case "C":
		m.grid.DispatchSelection(selection.SelectColumn{Index: m.cursorCol})
	case "ctrl+a":
		m.grid.SelectAll()
	case "esc":
		m.grid.DispatchSelection(selection.KeyEscape{})
	}
}

// extend grows a cell range from the anchor while moving the cursor
func (m *Model) extend(direction string) {
	if m.grid.Selection().Kind() != selection.KindCell {
		m.selectCell(selection.Modifiers{})
	}
	switch direction {
	case "up":
		m.MoveTo(m.cursorRow-1, m.cursorCol)
	case "down":
		m.MoveTo(m.cursorRow+1, m.cursorCol)
	case "left":
		m.MoveTo(m.cursorRow, m.cursorCol-1)
	case "right":
		m.MoveTo(m.cursorRow, m.cursorCol+1)
	}
	m.selectCell(selection.Modifiers{Shift: true})
}

func (m *Model) selectCell(mods selection.Modifiers) {
	value, ok := m.CursorValue()
	if !ok {
		return
	}
	m.grid.DispatchSelection(selection.SelectCell{
		Row:       m.cursorRow,
		Col:       m.cursorCol,
		Value:     value,
		Modifiers: mods,
	})
}

// handleMouse expects coordinates relative to the table's top left corner
func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Type {
	case tea.MouseWheelUp:
		m.scroll = max(0, m.scroll-3*m.grid.RowHeight())
		m.cursorRow = min(m.cursorRow, m.lastVisibleRow())
		m.cursorRow = max(m.cursorRow, m.scroll/m.grid.RowHeight())
		return
	case tea.MouseWheelDown:
		m.scroll = min(m.grid.MaxScroll(m.Viewport()), m.scroll+3*m.grid.RowHeight())
		m.cursorRow = max(m.cursorRow, m.scroll/m.grid.RowHeight())
		m.cursorRow = min(m.cursorRow, m.lastVisibleRow())
		return
	case tea.MouseLeft:
	default:
		return
	}

	mods := selection.Modifiers{Ctrl: msg.Ctrl, Shift: msg.Shift, Meta: msg.Alt}
	cols := m.grid.VisibleColumns()
	col := -1
	for _, span := range m.layout(cols) {
		if msg.X >= span.x && msg.X < span.x+span.width+1 {
			col = span.index
			break
		}
	}

	switch {
	case msg.Y == 0 && col >= 0:
		m.cursorCol = col
		m.grid.DispatchSelection(selection.SelectColumn{Index: col, Modifiers: mods})
	case msg.Y >= 2 && msg.Y < 2+m.Viewport():
		row := (m.scroll + msg.Y - 2) / m.grid.RowHeight()
		if row >= m.grid.RowCount() {
			return
		}
		if msg.X < m.gutterWidth() {
			m.MoveTo(row, m.cursorCol)
			m.grid.DispatchSelection(selection.SelectRow{Index: row, Modifiers: mods})
			return
		}
		if col < 0 {
			return
		}
		m.MoveTo(row, col)
		m.selectCell(mods)
	}
}

func (m Model) lastVisibleRow() int {
	h := m.grid.RowHeight()
	return max(0, min(m.grid.RowCount()-1, (m.scroll+m.Viewport())/h-1))
}

type span struct {
	index int
	x     int
	width int
}

// layout places the pinned columns first and then scrolled columns from
// colOffset until the width is used up.
func (m Model) layout(cols []grid.Column) []span {
	var spans []span
	x := m.gutterWidth()
	place := func(i int) bool {
		w := columnWidth(cols[i])
		if x >= m.width && len(spans) > 0 {
			return false
		}
		spans = append(spans, span{index: i, x: x, width: w + 2})
		x += w + 3
		return true
	}

	pinned := pinnedCount(cols)
	for i := range pinned {
		place(i)
	}
	for i := max(m.colOffset, pinned); i < len(cols); i++ {
		if !place(i) {
			break
		}
	}
	return spans
}

func (m Model) gutterWidth() int {
	return len(strconv.Itoa(max(1, m.grid.RowCount()))) + 2
}

func pinnedCount(cols []grid.Column) int {
	n := 0
	for n < len(cols) && cols[n].Pinned {
		n++
	}
	return n
}

func columnWidth(col grid.Column) int {
	return max(pipeline.MinColumnWidth, col.DisplayWidth, lipgloss.Width(col.Name)+2)
}

// View renders the table
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 || m.grid == nil {
		return ""
	}
	t := theme.Current

	cols := m.grid.VisibleColumns()
	spans := m.layout(cols)
	viewport := m.Viewport()

	lines := []string{m.renderHeader(cols, spans), m.renderSeparator(spans)}

	body := make([]string, viewport)
	blank := m.renderBlank(spans)
	for i := range body {
		body[i] = blank
	}
	for _, item := range m.grid.Items(m.scroll, viewport) {
		line := item.Start - m.scroll
		if line < 0 || line >= viewport {
			continue
		}
		body[line] = m.renderRow(item.Index, cols, spans)
	}
	if m.grid.RowCount() == 0 && viewport > 0 {
		msg := "No rows"
		if m.grid.Config().Filtering() {
			msg = "No rows match the filter"
		}
		body[0] = strings.Repeat(" ", m.gutterWidth()) + t.Muted.Render(msg)
	}
	lines = append(lines, body...)
	lines = append(lines, m.renderStatusBar(len(cols)))
	return strings.Join(lines, "\n")
}

func (m Model) renderHeader(cols []grid.Column, spans []span) string {
	t := theme.Current
	sort := m.grid.Config().Sort
	sel := m.grid.Selection()

	cells := []string{strings.Repeat(" ", m.gutterWidth()-1)}
	for _, s := range spans {
		col := cols[s.index]
		title := col.Name
		marker := ""
		if sort.Active() && sort.Column == col.Name {
			marker = " " + sortArrow(sort.Direction)
		}
		if _, filtered := m.grid.Config().Filters[col.Name]; filtered {
			marker += " ⚲"
		}

		style := t.ColumnHeader
		if col.Pinned {
			style = t.PinnedHeader
		}
		if col.IsPrimaryKey {
			style = style.Copy().Underline(true)
		}
		if sel.IsColumnSelected(s.index) {
			style = style.Copy().Inherit(t.Selected)
		}
		text := truncateOrPad(title, s.width-2-lipgloss.Width(marker))
		cells = append(cells, style.Render(" "+text)+t.SortMarker.Render(marker)+style.Render(" "))
	}
	return strings.Join(cells, t.Separator.Render("│"))
}

func sortArrow(d pipeline.Direction) string {
	if d == pipeline.Descending {
		return "▼"
	}
	return "▲"
}

func (m Model) renderSeparator(spans []span) string {
	parts := []string{strings.Repeat("─", m.gutterWidth()-1)}
	for _, s := range spans {
		parts = append(parts, strings.Repeat("─", s.width))
	}
	return theme.Current.Separator.Render(strings.Join(parts, "┼"))
}

func (m Model) renderBlank(spans []span) string {
	t := theme.Current
	parts := []string{strings.Repeat(" ", m.gutterWidth()-1)}
	for _, s := range spans {
		parts = append(parts, strings.Repeat(" ", s.width))
	}
	return strings.Join(parts, t.Separator.Render("│"))
}

func (m Model) renderRow(display int, cols []grid.Column, spans []span) string {
	t := theme.Current
	sel := m.grid.Selection()
	deleted := m.grid.IsRowDeleted(display)

	mark := " "
	switch {
	case deleted:
		mark = t.Error.Render("-")
	case m.grid.IsRowModified(display):
		mark = t.Badge.Render("*")
	}
	number := fmt.Sprintf("%*d", m.gutterWidth()-2, display+1)
	gutter := t.Muted.Render(number)
	if sel.IsRowSelected(display) {
		gutter = t.Selected.Render(number)
	}
	cells := []string{gutter + mark}

	for _, s := range spans {
		col := cols[s.index]
		value, _ := m.grid.CellValue(display, col.Name)

		text := " " + truncateOrPad(cellText(value), s.width-2) + " "
		style := t.Cell
		switch {
		case deleted:
			style = t.DeletedRow
		case m.grid.IsCellModified(display, col.Name):
			style = t.Modified
		case value == nil:
			style = t.NullCell
		}
		switch {
		case m.focused && display == m.cursorRow && s.index == m.cursorCol:
			style = style.Copy().Inherit(t.Cursor).Background(t.Palette.CursorBg)
		case sel.IsCellSelected(display, s.index):
			style = style.Copy().Background(t.Palette.SelectBg)
		}
		cells = append(cells, style.Render(text))
	}
	return strings.Join(cells, t.Separator.Render("│"))
}

func (m Model) renderStatusBar(colCount int) string {
	t := theme.Current

	rows := fmt.Sprintf("Row %d/%d", min(m.cursorRow+1, m.grid.RowCount()), m.grid.RowCount())
	if m.grid.RowCount() != m.grid.TotalRows() {
		rows += fmt.Sprintf(" (of %d)", m.grid.TotalRows())
	}
	left := fmt.Sprintf("%s, Col %d/%d", rows, min(m.cursorCol+1, colCount), colCount)

	sel := m.grid.Selection()
	if !sel.Empty() {
		left += fmt.Sprintf(" | %d %s(s) selected", sel.Count(), sel.Kind())
	}

	right := ""
	if l := m.grid.Ledger(); l.HasChanges() {
		right = fmt.Sprintf("%d modified, %d deleted", l.TotalChangedRows(), l.TotalDeletedRows())
	}

	leftInfo := t.StatusBar.Render(left)
	rightInfo := t.Badge.Render(right)
	spacing := max(m.width-lipgloss.Width(leftInfo)-lipgloss.Width(rightInfo), 1)
	return leftInfo + strings.Repeat(" ", spacing) + rightInfo
}

// cellText is how a value is shown in a single table line
func cellText(v any) string {
	if v == nil {
		return "NULL"
	}
	s := grid.ToString(v)
	s = strings.ReplaceAll(s, "\r\n", "↵")
	s = strings.ReplaceAll(s, "\n", "↵")
	return strings.ReplaceAll(s, "\t", " ")
}

func truncateOrPad(s string, width int) string {
	if width <= 0 {
		return ""
	}
	currentWidth := lipgloss.Width(s)
	if currentWidth <= width {
		return s + strings.Repeat(" ", width-currentWidth)
	}

	var b strings.Builder
	w := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if w+rw > width-1 {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	return b.String() + "…" + strings.Repeat(" ", max(0, width-w-1))
}
