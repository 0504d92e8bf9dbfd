// Package selection is the row, column and cell selection state machine of
// the result grid. Indices address the display-order row list.
package selection

import (
	"maps"
	"slices"
)

// Kind is what the current selection is made of
type Kind int

const (
	KindNone Kind = iota
	KindRow
	KindColumn
	KindCell
)

func (k Kind) String() string {
	switch k {
	case KindRow:
		return "row"
	case KindColumn:
		return "column"
	case KindCell:
		return "cell"
	}
	return "none"
}

// Point addresses a cell. Row selections only use Row, column selections only Col.
type Point struct {
	Row int
	Col int
}

// Mode is how a click combines with the existing selection
type Mode int

const (
	ModeSingle Mode = iota
	ModeMulti
	ModeRange
)

// Modifiers are the keyboard modifiers held during a selection event
type Modifiers struct {
	Ctrl  bool
	Shift bool
	Meta  bool
}

// Mode resolves the modifiers: shift wins over ctrl/meta
func (m Modifiers) Mode() Mode {
	switch {
	case m.Shift:
		return ModeRange
	case m.Ctrl || m.Meta:
		return ModeMulti
	}
	return ModeSingle
}

// State is an immutable selection. The zero value selects nothing.
type State struct {
	kind   Kind
	rows   map[int]struct{}
	cols   map[int]struct{}
	cells  map[Point]any
	anchor *Point
	last   *Point
}

// Kind returns what is selected
func (s State) Kind() Kind {
	return s.kind
}

// Empty reports whether nothing is selected
func (s State) Empty() bool {
	return s.kind == KindNone
}

// Anchor returns the fixed end of a range selection
func (s State) Anchor() (Point, bool) {
	if s.anchor == nil {
		return Point{}, false
	}
	return *s.anchor, true
}

// LastInteracted returns the most recently clicked target
func (s State) LastInteracted() (Point, bool) {
	if s.last == nil {
		return Point{}, false
	}
	return *s.last, true
}

// IsRowSelected reports whether the whole row is selected
func (s State) IsRowSelected(row int) bool {
	if s.kind != KindRow {
		return false
	}
	_, ok := s.rows[row]
	return ok
}

// IsColumnSelected reports whether the whole column is selected
func (s State) IsColumnSelected(col int) bool {
	if s.kind != KindColumn {
		return false
	}
	_, ok := s.cols[col]
	return ok
}

// IsCellSelected reports whether a cell is selected on its own or as part of
// a selected row or column.
func (s State) IsCellSelected(row, col int) bool {
	switch s.kind {
	case KindRow:
		return s.IsRowSelected(row)
	case KindColumn:
		return s.IsColumnSelected(col)
	case KindCell:
		_, ok := s.cells[Point{Row: row, Col: col}]
		return ok
	}
	return false
}

// CellValue returns the value captured when the cell was selected
func (s State) CellValue(row, col int) (any, bool) {
	if s.kind != KindCell {
		return nil, false
	}
	v, ok := s.cells[Point{Row: row, Col: col}]
	return v, ok
}

// Count returns the number of selected members
func (s State) Count() int {
	switch s.kind {
	case KindRow:
		return len(s.rows)
	case KindColumn:
		return len(s.cols)
	case KindCell:
		return len(s.cells)
	}
	return 0
}

// SelectedRows returns the selected row indices in ascending order
func (s State) SelectedRows() []int {
	if s.kind != KindRow {
		return nil
	}
	return slices.Sorted(maps.Keys(s.rows))
}

// SelectedColumns returns the selected column indices in ascending order
func (s State) SelectedColumns() []int {
	if s.kind != KindColumn {
		return nil
	}
	return slices.Sorted(maps.Keys(s.cols))
}

// SelectedCells returns the selected cells ordered by row, then column
func (s State) SelectedCells() []Point {
	if s.kind != KindCell {
		return nil
	}
	points := slices.Collect(maps.Keys(s.cells))
	slices.SortFunc(points, func(a, b Point) int {
		if a.Row != b.Row {
			return a.Row - b.Row
		}
		return a.Col - b.Col
	})
	return points
}

// Bounds returns the smallest rectangle covering the selected cells
func (s State) Bounds() (top, left, bottom, right int, ok bool) {
	cells := s.SelectedCells()
	if len(cells) == 0 {
		return 0, 0, 0, 0, false
	}
	top, bottom = cells[0].Row, cells[len(cells)-1].Row
	left, right = cells[0].Col, cells[0].Col
	for _, p := range cells {
		left = min(left, p.Col)
		right = max(right, p.Col)
	}
	return top, left, bottom, right, true
}
