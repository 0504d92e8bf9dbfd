package pipeline

import (
	"maps"

	"github.com/sheenazien8/sqgrid/grid"
)

// MinColumnWidth is the narrowest width a column can be resized to
const MinColumnWidth = 3

// Config is the filter, sort and column layout state of one result set.
// It is only changed through Reduce, which never mutates its input.
type Config struct {
	Filters FilterSpec
	Sort    SortSpec
	Widths  map[string]int
	Hidden  map[string]bool
	Pinned  map[string]bool
}

// Action is a change to a Config
type Action interface {
	isConfigAction()
}

type (
	SetFilter struct {
		Column string
		Filter Filter
	}
	ClearFilter struct {
		Column string
	}
	ClearAllFilters struct{}
	// ToggleSort cycles a column through ascending, descending and unsorted
	ToggleSort struct {
		Column string
	}
	SetSort struct {
		Spec SortSpec
	}
	SetColumnWidth struct {
		Column string
		Width  int
	}
	SetColumnHidden struct {
		Column string
		Hidden bool
	}
	SetColumnPinned struct {
		Column string
		Pinned bool
	}
)

func (SetFilter) isConfigAction()       {}
func (ClearFilter) isConfigAction()     {}
func (ClearAllFilters) isConfigAction() {}
func (ToggleSort) isConfigAction()      {}
func (SetSort) isConfigAction()         {}
func (SetColumnWidth) isConfigAction()  {}
func (SetColumnHidden) isConfigAction() {}
func (SetColumnPinned) isConfigAction() {}

// Reduce applies action to c and returns the new configuration
func Reduce(c Config, action Action) Config {
	switch a := action.(type) {
	case SetFilter:
		c.Filters = maps.Clone(c.Filters)
		if c.Filters == nil {
			c.Filters = FilterSpec{}
		}
		c.Filters[a.Column] = a.Filter

	case ClearFilter:
		if _, ok := c.Filters[a.Column]; !ok {
			return c
		}
		c.Filters = maps.Clone(c.Filters)
		delete(c.Filters, a.Column)

	case ClearAllFilters:
		c.Filters = nil

	case ToggleSort:
		switch {
		case c.Sort.Column != a.Column || !c.Sort.Active():
			c.Sort = SortSpec{Column: a.Column, Direction: Ascending}
		case c.Sort.Direction == Ascending:
			c.Sort.Direction = Descending
		default:
			c.Sort = SortSpec{}
		}

	case SetSort:
		c.Sort = a.Spec

	case SetColumnWidth:
		c.Widths = setKey(c.Widths, a.Column, max(MinColumnWidth, a.Width))

	case SetColumnHidden:
		c.Hidden = setKey(c.Hidden, a.Column, a.Hidden)

	case SetColumnPinned:
		c.Pinned = setKey(c.Pinned, a.Column, a.Pinned)
	}
	return c
}

func setKey[V any](m map[string]V, key string, value V) map[string]V {
	m = maps.Clone(m)
	if m == nil {
		m = make(map[string]V)
	}
	m[key] = value
	return m
}

// Filtering reports whether any filter is set
func (c Config) Filtering() bool {
	return len(c.Filters) > 0
}

// DisplayOrder returns the positions of rows after filtering and sorting
func (c Config) DisplayOrder(rows []grid.Row, columnNames []string) []int {
	indices := FilterIndices(rows, columnNames, c.Filters)
	return SortIndices(rows, indices, columnNames, c.Sort)
}

// ApplyColumns overlays the configured widths, visibility and pinning onto
// columns. Pinned columns move to the front, keeping their relative order.
func (c Config) ApplyColumns(columns []grid.Column) []grid.Column {
	var pinned, rest []grid.Column
	for _, col := range columns {
		if w, ok := c.Widths[col.Name]; ok {
			col.DisplayWidth = w
		}
		if h, ok := c.Hidden[col.Name]; ok {
			col.Hidden = h
		}
		if p, ok := c.Pinned[col.Name]; ok {
			col.Pinned = p
		}
		if col.Pinned {
			pinned = append(pinned, col)
		} else {
			rest = append(rest, col)
		}
	}
	return append(pinned, rest...)
}
