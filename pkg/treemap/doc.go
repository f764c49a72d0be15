// Package treemap computes squarified treemap layouts: it partitions a
// rectangular canvas into tiles whose areas are proportional to item
// weights, while keeping the tiles as close to square as the greedy
// heuristic of Bruls, Huizing, and van Wijk allows.
//
// # Overview
//
// A treemap turns a weighted list into a space-filling picture: every item
// receives a rectangle, bigger weights receive bigger rectangles, and the
// rectangles tile the canvas exactly. The naive approach (one long strip
// per item) produces unreadable slivers; the squarified heuristic instead
// grows strips greedily, keeping the worst aspect ratio in each strip from
// getting worse, which drives tiles toward squares.
//
// This package is the computational core only. It performs no drawing and
// holds no state between calls - every layout is a fresh, pure computation
// over the item list and the canvas rectangle. Consumers map the returned
// tiles onto whatever surface they render to.
//
// # Basic Usage
//
// Call [Layout] with a slice of items, a [WeightFunc] that extracts each
// item's weight, and the canvas rectangle:
//
//	files := []string{"core.go", "util.go", "main.go"}
//	sizes := map[string]float64{"core.go": 120, "util.go": 40, "main.go": 40}
//
//	tiles, err := treemap.Layout(files, func(f string) float64 {
//		return sizes[f]
//	}, treemap.Rect{Width: 100, Height: 60})
//
// Each returned [Tile] pairs an item with its rectangle. Tiles are ordered
// by descending weight (the order the heuristic places them in), not by
// input order.
//
// # The Heuristic
//
// Items are sorted by weight, largest first, and their weights are
// normalized so they sum to the canvas area. The algorithm then grows a
// strip along the shorter side of the remaining canvas: starting with the
// largest unplaced item, it keeps adding items while the worst aspect
// ratio of the strip does not get worse. Ties keep growing the strip, so
// runs of equal weights end up in the same strip. Once adding an item
// would hurt, the strip is fixed in place and the algorithm recurses into
// the leftover rectangle with the remaining items.
//
// The resulting layout is deterministic: identical inputs produce
// bit-identical output. Sorting is stable, so equal weights keep their
// original relative order.
//
// # Hierarchical Layouts
//
// [LayoutTree] lays out a weighted tree instead of a flat list: each
// branch tile is subdivided among its children, recursively. A branch's
// weight is the sum of its children's weights - see [Node.EffectiveWeight].
// Padding, depth limits, and a minimum tile size are available as options
// ([WithPadding], [WithMaxDepth], [WithMinTileSize]).
//
// # Errors
//
// [Layout] and [LayoutTree] validate up front and return all-or-nothing:
// [ErrInvalidCanvas] for a canvas with non-positive width or height, and
// [ErrNegativeWeight] for any negative (or NaN) weight. Empty input and
// all-zero weights are not errors - they yield an empty layout, since "no
// items" and "nothing visible" are ordinary states for a layout engine.
//
// # Concurrency
//
// All functions are pure and safe for concurrent use. Tiles and rectangles
// are immutable values; nothing is shared between calls.
package treemap
