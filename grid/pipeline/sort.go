package pipeline

import (
	"slices"

	"github.com/sheenazien8/sqgrid/grid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction is the sort order of a column
type Direction int

const (
	Ascending Direction = iota + 1
	Descending
)

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	}
	return ""
}

// SortSpec names the single sorted column. The zero value means unsorted.
type SortSpec struct {
	Column    string
	Direction Direction
}

// Active reports whether s sorts anything
func (s SortSpec) Active() bool {
	return s.Column != "" && (s.Direction == Ascending || s.Direction == Descending)
}

// ApplySort returns rows ordered by spec. Nulls sort last in both
// directions and equal keys keep their relative order.
func ApplySort(rows []grid.Row, columnNames []string, spec SortSpec) []grid.Row {
	indices := SortIndices(rows, identity(len(rows)), columnNames, spec)
	sorted := make([]grid.Row, len(indices))
	for i, idx := range indices {
		sorted[i] = rows[idx]
	}
	return sorted
}

// SortIndices orders positions into rows by spec. The input slice is not modified.
func SortIndices(rows []grid.Row, indices []int, columnNames []string, spec SortSpec) []int {
	out := slices.Clone(indices)
	if !spec.Active() {
		return out
	}
	col := grid.ColumnIndex(columnNames, spec.Column)
	if col < 0 {
		return out
	}

	cmp := newComparer()
	sign := 1
	if spec.Direction == Descending {
		sign = -1
	}

	slices.SortStableFunc(out, func(a, b int) int {
		va, vb := rows[a].Cell(col), rows[b].Cell(col)
		aNull, bNull := grid.IsNull(va), grid.IsNull(vb)
		switch {
		case aNull && bNull:
			return 0
		case aNull:
			return 1
		case bNull:
			return -1
		}
		return sign * cmp.compare(va, vb)
	})
	return out
}

// comparer orders two non-null cell values. Collators are not safe for
// concurrent use, so one is built per sort.
type comparer struct {
	collator *collate.Collator
}

func newComparer() comparer {
	return comparer{collator: collate.New(language.Und, collate.IgnoreCase)}
}

func (c comparer) compare(a, b any) int {
	if grid.IsNumber(a) && grid.IsNumber(b) {
		na, nb := grid.ToNumber(a), grid.ToNumber(b)
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	}
	return c.collator.CompareString(grid.ToString(a), grid.ToString(b))
}

func identity(n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return indices
}
