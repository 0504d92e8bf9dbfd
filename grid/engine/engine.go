// Package engine ties the grid stores together for a set of result sets: the
// filter/sort configuration of each set, one selection and one pending-change
// ledger. Rows are addressed by display index (position after filtering and
// sorting) and columns by position among the visible columns; the engine maps
// both back to original rows and column names before touching the ledger.
package engine

import (
	"github.com/sheenazien8/sqgrid/grid"
	"github.com/sheenazien8/sqgrid/grid/changes"
	"github.com/sheenazien8/sqgrid/grid/pipeline"
	"github.com/sheenazien8/sqgrid/grid/selection"
	"github.com/sheenazien8/sqgrid/grid/window"
)

// Options tune the virtual window
type Options struct {
	Overscan  int
	RowHeight int
}

// DefaultOptions renders one terminal line per row
func DefaultOptions() Options {
	return Options{Overscan: window.DefaultOverscan, RowHeight: 1}
}

type sheet struct {
	set    grid.ResultSet
	config pipeline.Config
	order  []int
}

func newSheet(set grid.ResultSet) sheet {
	s := sheet{set: set}
	s.order = s.config.DisplayOrder(set.Rows, set.ColumnNames())
	return s
}

// Grid is the state of the result viewer. It is not safe for concurrent use.
type Grid struct {
	opts      Options
	sheets    []sheet
	active    int
	selection selection.State
	ledger    changes.Ledger
}

// New creates a grid over the given result sets. Each set's Index is
// rewritten to its position.
func New(opts Options, sets ...grid.ResultSet) *Grid {
	if opts.RowHeight <= 0 {
		opts.RowHeight = 1
	}
	if opts.Overscan < 0 {
		opts.Overscan = window.DefaultOverscan
	}
	g := &Grid{opts: opts}
	for i, set := range sets {
		set.Index = i
		g.sheets = append(g.sheets, newSheet(set))
	}
	return g
}

// Len returns the number of result sets
func (g *Grid) Len() int {
	return len(g.sheets)
}

// Active returns the index of the result set being viewed
func (g *Grid) Active() int {
	return g.active
}

// SetActive switches to another result set and clears the selection.
// Out of range indices are ignored.
func (g *Grid) SetActive(index int) {
	if index < 0 || index >= len(g.sheets) || index == g.active {
		return
	}
	g.active = index
	g.selection = selection.State{}
}

func (g *Grid) current() *sheet {
	if len(g.sheets) == 0 {
		return &sheet{}
	}
	return &g.sheets[g.active]
}

// ResultSet returns the active result set as loaded
func (g *Grid) ResultSet() grid.ResultSet {
	return g.current().set
}

// Config returns the filter, sort and layout state of the active result set
func (g *Grid) Config() pipeline.Config {
	return g.current().config
}

// DispatchConfig applies a filter, sort or layout change to the active result
// set. Any change that can move rows or columns clears the selection.
func (g *Grid) DispatchConfig(action pipeline.Action) {
	if len(g.sheets) == 0 {
		return
	}
	s := g.current()
	s.config = pipeline.Reduce(s.config, action)

	switch action.(type) {
	case pipeline.SetColumnWidth:
		return
	case pipeline.SetColumnHidden, pipeline.SetColumnPinned:
	default:
		s.order = s.config.DisplayOrder(s.set.Rows, s.set.ColumnNames())
	}
	g.selection = selection.State{}
}

// Columns returns the active result set's columns in display order, with
// layout overrides applied. Hidden columns are included.
func (g *Grid) Columns() []grid.Column {
	s := g.current()
	return s.config.ApplyColumns(s.set.Columns)
}

// VisibleColumns returns the columns that are rendered, in display order.
// Column positions used by the selection index into this list.
func (g *Grid) VisibleColumns() []grid.Column {
	var visible []grid.Column
	for _, col := range g.Columns() {
		if !col.Hidden {
			visible = append(visible, col)
		}
	}
	return visible
}

// RowCount returns the number of rows after filtering
func (g *Grid) RowCount() int {
	return len(g.current().order)
}

// TotalRows returns the number of rows in the active result set
func (g *Grid) TotalRows() int {
	return len(g.current().set.Rows)
}

// View returns the active result set's rows in display order
func (g *Grid) View() []grid.Row {
	s := g.current()
	rows := make([]grid.Row, len(s.order))
	for i, idx := range s.order {
		rows[i] = s.set.Rows[idx]
	}
	return rows
}

// DisplayToOriginal maps a display index to the row's position in the
// unfiltered result set.
func (g *Grid) DisplayToOriginal(display int) (int, bool) {
	order := g.current().order
	if display < 0 || display >= len(order) {
		return 0, false
	}
	return order[display], true
}

// Row returns the original snapshot of the row at a display index
func (g *Grid) Row(display int) (grid.Row, bool) {
	idx, ok := g.DisplayToOriginal(display)
	if !ok {
		return nil, false
	}
	return g.current().set.Rows[idx], true
}

// Window returns the rows to render for a scroll position
func (g *Grid) Window(scrollOffset, viewportHeight int) window.Window {
	return window.Range(g.windowParams(scrollOffset, viewportHeight))
}

// Items is Window with per-row offsets
func (g *Grid) Items(scrollOffset, viewportHeight int) []window.Item {
	return window.Calculate(g.windowParams(scrollOffset, viewportHeight))
}

// ScrollTo returns the scroll offset that brings a display row into view
func (g *Grid) ScrollTo(display, scrollOffset, viewportHeight int) int {
	return window.ScrollToIndex(display, g.opts.RowHeight, scrollOffset, viewportHeight)
}

// MaxScroll returns the largest useful scroll offset for a viewport
func (g *Grid) MaxScroll(viewportHeight int) int {
	return window.MaxScrollOffset(g.RowCount(), g.opts.RowHeight, viewportHeight)
}

// RowHeight returns the configured height of one row
func (g *Grid) RowHeight() int {
	return g.opts.RowHeight
}

func (g *Grid) windowParams(scrollOffset, viewportHeight int) window.Params {
	return window.Params{
		ItemCount:      g.RowCount(),
		ItemHeight:     g.opts.RowHeight,
		ScrollOffset:   scrollOffset,
		ViewportHeight: viewportHeight,
		Overscan:       g.opts.Overscan,
	}
}
