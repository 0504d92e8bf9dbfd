// Package window computes which rows of a long list need to be materialized
// for a given scroll position.
package window

// DefaultOverscan is the number of extra rows rendered on each side of the viewport
const DefaultOverscan = 5

// Params describes the scroll container at the time of a scroll or resize event
type Params struct {
	ItemCount      int
	ItemHeight     int
	ScrollOffset   int
	ViewportHeight int
	Overscan       int
}

// Item is one row to materialize, positioned inside the scroll container
type Item struct {
	Index int
	Start int
	Size  int
}

// Window is the contiguous index range selected for rendering.
// An empty window has EndIndex < StartIndex.
type Window struct {
	StartIndex int
	EndIndex   int
	ItemHeight int
}

// Empty reports whether the window materializes no rows
func (w Window) Empty() bool {
	return w.EndIndex < w.StartIndex
}

// Len returns the number of rows in the window
func (w Window) Len() int {
	if w.Empty() {
		return 0
	}
	return w.EndIndex - w.StartIndex + 1
}

// Contains reports whether index falls inside the window
func (w Window) Contains(index int) bool {
	return !w.Empty() && index >= w.StartIndex && index <= w.EndIndex
}

// Range returns the window bounds for p
func Range(p Params) Window {
	if p.ItemCount <= 0 || p.ViewportHeight <= 0 || p.ItemHeight <= 0 {
		return Window{StartIndex: 0, EndIndex: -1, ItemHeight: p.ItemHeight}
	}
	overscan := max(0, p.Overscan)
	scroll := max(0, p.ScrollOffset)

	start := max(0, scroll/p.ItemHeight-overscan)
	visible := ceilDiv(p.ViewportHeight, p.ItemHeight)
	end := min(p.ItemCount-1, start+visible+2*overscan)
	if start > end {
		// scrolled past the content
		return Window{StartIndex: 0, EndIndex: -1, ItemHeight: p.ItemHeight}
	}

	return Window{StartIndex: start, EndIndex: end, ItemHeight: p.ItemHeight}
}

// Calculate returns the rows to materialize, each with its pixel offset
func Calculate(p Params) []Item {
	w := Range(p)
	if w.Empty() {
		return nil
	}
	items := make([]Item, 0, w.Len())
	for i := w.StartIndex; i <= w.EndIndex; i++ {
		items = append(items, Item{
			Index: i,
			Start: i * p.ItemHeight,
			Size:  p.ItemHeight,
		})
	}
	return items
}

// TotalHeight returns the height of the scroll container's content
func TotalHeight(itemCount, itemHeight int) int {
	return max(0, itemCount) * max(0, itemHeight)
}

// ScrollToIndex returns the smallest change to scrollOffset that brings the
// row at index fully into a viewport of the given height.
func ScrollToIndex(index, itemHeight, scrollOffset, viewportHeight int) int {
	if itemHeight <= 0 || index < 0 {
		return max(0, scrollOffset)
	}
	top := index * itemHeight
	bottom := top + itemHeight
	switch {
	case top < scrollOffset:
		return top
	case bottom > scrollOffset+viewportHeight:
		return max(0, bottom-viewportHeight)
	}
	return max(0, scrollOffset)
}

// MaxScrollOffset returns the largest useful scroll offset
func MaxScrollOffset(itemCount, itemHeight, viewportHeight int) int {
	return max(0, TotalHeight(itemCount, itemHeight)-viewportHeight)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
