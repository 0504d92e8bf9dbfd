package selection

import "maps"

// Action is a selection event
type Action interface {
	isSelectionAction()
}

type (
	SelectRow struct {
		Index int
		Modifiers
	}
	SelectColumn struct {
		Index int
		Modifiers
	}
	SelectCell struct {
		Row   int
		Col   int
		Value any
		Modifiers
	}
	// SelectAllRows selects rows 0..Count-1
	SelectAllRows struct {
		Count int
	}
	Clear     struct{}
	KeyEscape struct{}
)

func (SelectRow) isSelectionAction()     {}
func (SelectColumn) isSelectionAction()  {}
func (SelectCell) isSelectionAction()    {}
func (SelectAllRows) isSelectionAction() {}
func (Clear) isSelectionAction()         {}
func (KeyEscape) isSelectionAction()     {}

// Reduce applies action to s and returns the new selection
func Reduce(s State, action Action) State {
	switch a := action.(type) {
	case SelectRow:
		return s.selectLine(KindRow, Point{Row: a.Index}, a.Mode())
	case SelectColumn:
		return s.selectLine(KindColumn, Point{Col: a.Index}, a.Mode())
	case SelectCell:
		return s.selectCell(Point{Row: a.Row, Col: a.Col}, a.Value, a.Mode())
	case SelectAllRows:
		if a.Count <= 0 {
			return State{}
		}
		rows := make(map[int]struct{}, a.Count)
		for i := range a.Count {
			rows[i] = struct{}{}
		}
		anchor, last := Point{Row: 0}, Point{Row: a.Count - 1}
		return State{kind: KindRow, rows: rows, anchor: &anchor, last: &last}
	case Clear, KeyEscape:
		return State{}
	}
	return s
}

// selectLine handles whole-row and whole-column selection. For rows the index
// lives in Point.Row, for columns in Point.Col.
func (s State) selectLine(kind Kind, target Point, mode Mode) State {
	index := target.Row
	if kind == KindColumn {
		index = target.Col
	}
	if s.kind != kind {
		mode = ModeSingle
	}

	switch mode {
	case ModeMulti:
		members := maps.Clone(s.lineMembers(kind))
		if _, ok := members[index]; ok {
			delete(members, index)
		} else {
			members[index] = struct{}{}
		}
		if len(members) == 0 {
			return State{}
		}
		return s.withLine(kind, members, s.anchorOr(target), target)

	case ModeRange:
		if s.anchor == nil {
			break
		}
		from := s.anchor.Row
		if kind == KindColumn {
			from = s.anchor.Col
		}
		members := make(map[int]struct{})
		for i := min(from, index); i <= max(from, index); i++ {
			members[i] = struct{}{}
		}
		return s.withLine(kind, members, *s.anchor, target)
	}

	return s.withLine(kind, map[int]struct{}{index: {}}, target, target)
}

func (s State) selectCell(target Point, value any, mode Mode) State {
	if s.kind != KindCell {
		mode = ModeSingle
	}

	switch mode {
	case ModeMulti:
		cells := maps.Clone(s.cells)
		if _, ok := cells[target]; ok {
			delete(cells, target)
		} else {
			cells[target] = value
		}
		if len(cells) == 0 {
			return State{}
		}
		return s.withCells(cells, s.anchorOr(target), target)

	case ModeRange:
		if s.anchor == nil {
			break
		}
		a := *s.anchor
		cells := make(map[Point]any)
		for r := min(a.Row, target.Row); r <= max(a.Row, target.Row); r++ {
			for c := min(a.Col, target.Col); c <= max(a.Col, target.Col); c++ {
				cells[Point{Row: r, Col: c}] = nil
			}
		}
		cells[target] = value
		return s.withCells(cells, a, target)
	}

	return s.withCells(map[Point]any{target: value}, target, target)
}

func (s State) lineMembers(kind Kind) map[int]struct{} {
	if kind == KindColumn {
		return s.cols
	}
	return s.rows
}

func (s State) anchorOr(target Point) Point {
	if s.anchor != nil {
		return *s.anchor
	}
	return target
}

func (s State) withLine(kind Kind, members map[int]struct{}, anchor, last Point) State {
	next := State{kind: kind, anchor: &anchor, last: &last}
	if kind == KindColumn {
		next.cols = members
	} else {
		next.rows = members
	}
	return next
}

func (s State) withCells(cells map[Point]any, anchor, last Point) State {
	return State{kind: KindCell, cells: cells, anchor: &anchor, last: &last}
}
