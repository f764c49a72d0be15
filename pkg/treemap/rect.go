package treemap

import "math"

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
// Coordinates grow rightward (X) and downward (Y). Rect is a pure value and
// is never mutated by this package.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Area returns Width * Height.
func (r Rect) Area() float64 { return r.Width * r.Height }

// AspectRatio returns max(Width/Height, Height/Width), the
// furthest-from-square measure used by the squarify heuristic.
// A perfect square scores 1; larger values are worse. A rectangle with one
// zero dimension scores +Inf, and the degenerate 0x0 rectangle scores 0.
func (r Rect) AspectRatio() float64 {
	if r.Width == 0 && r.Height == 0 {
		return 0
	}
	return math.Max(r.Width/r.Height, r.Height/r.Width)
}

// MaxX returns the x coordinate of the right edge.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the y coordinate of the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// CenterX returns the x coordinate of the rectangle's center.
func (r Rect) CenterX() float64 { return r.X + r.Width/2 }

// CenterY returns the y coordinate of the rectangle's center.
func (r Rect) CenterY() float64 { return r.Y + r.Height/2 }

// Inset returns a copy of r shrunk by the given amount on each side.
// Dimensions never go below zero: if opposing insets meet or cross, the
// affected dimension collapses to an empty rectangle, which callers treat
// as "no room left".
func (r Rect) Inset(left, top, right, bottom float64) Rect {
	w := r.Width - left - right
	h := r.Height - top - bottom
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Rect{X: r.X + left, Y: r.Y + top, Width: w, Height: h}
}

// Tile pairs an input item with the rectangle the layout assigned to it.
// The embedded Rect exposes geometry helpers directly on the tile.
// Tiles are immutable values; callers map Item back to whatever they
// render.
type Tile[T any] struct {
	Item T
	Rect
}
