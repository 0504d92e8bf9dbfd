// Package pipeline turns a raw result set into the display-order row list:
// rows are filtered first, then sorted.
package pipeline

import (
	"math"
	"strings"

	"github.com/sheenazien8/sqgrid/grid"
)

// Operator is a filter comparison
type Operator string

const (
	OpIsNull      Operator = "isNull"
	OpIsNotNull   Operator = "isNotNull"
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "notEquals"
	OpContains    Operator = "contains"
	OpStartsWith  Operator = "startsWith"
	OpEndsWith    Operator = "endsWith"
	OpGreaterThan Operator = "greaterThan"
	OpLessThan    Operator = "lessThan"
	OpBetween     Operator = "between"
)

// Filter is the condition applied to a single column
type Filter struct {
	Operator Operator
	Value    any
	ValueTo  any
}

// FilterSpec maps column names to their filter. All filters must pass.
type FilterSpec map[string]Filter

// Match reports whether value passes the filter. Unknown operators pass.
func (f Filter) Match(value any) bool {
	switch f.Operator {
	case OpIsNull:
		return grid.IsNull(value)
	case OpIsNotNull:
		return !grid.IsNull(value)
	case OpEquals:
		return grid.LooseEqual(value, f.Value)
	case OpNotEquals:
		return !grid.LooseEqual(value, f.Value)
	case OpContains:
		return strings.Contains(lower(value), lower(f.Value))
	case OpStartsWith:
		return strings.HasPrefix(lower(value), lower(f.Value))
	case OpEndsWith:
		return strings.HasSuffix(lower(value), lower(f.Value))
	case OpGreaterThan:
		// comparisons against NaN are false
		return grid.ToNumber(value) > grid.ToNumber(f.Value)
	case OpLessThan:
		return grid.ToNumber(value) < grid.ToNumber(f.Value)
	case OpBetween:
		n := grid.ToNumber(value)
		lo, hi := grid.ToNumber(f.Value), grid.ToNumber(f.ValueTo)
		if math.IsNaN(n) {
			return false
		}
		return n >= lo && n <= hi
	}
	return true
}

func lower(v any) string {
	return strings.ToLower(grid.ToString(v))
}

// ApplyFilters returns the rows passing every filter in spec, in their
// original order. Filters naming an unknown column are skipped.
func ApplyFilters(rows []grid.Row, columnNames []string, spec FilterSpec) []grid.Row {
	if len(spec) == 0 {
		return rows
	}
	indices := FilterIndices(rows, columnNames, spec)
	filtered := make([]grid.Row, len(indices))
	for i, idx := range indices {
		filtered[i] = rows[idx]
	}
	return filtered
}

// FilterIndices is ApplyFilters returning positions into rows
func FilterIndices(rows []grid.Row, columnNames []string, spec FilterSpec) []int {
	type boundFilter struct {
		col    int
		filter Filter
	}
	var bound []boundFilter
	for name, f := range spec {
		col := grid.ColumnIndex(columnNames, name)
		if col < 0 {
			continue
		}
		bound = append(bound, boundFilter{col: col, filter: f})
	}

	indices := make([]int, 0, len(rows))
	for i, row := range rows {
		pass := true
		for _, b := range bound {
			if !b.filter.Match(row.Cell(b.col)) {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}
	return indices
}
