package treemap

import (
	"errors"
	"math"
)

var (
	// ErrInvalidCanvas is returned by [Layout] and [LayoutTree] when the
	// canvas width or height is not a positive finite number. A degenerate
	// canvas would turn the strip divisions into divisions by zero, so it
	// is rejected before any work happens.
	ErrInvalidCanvas = errors.New("canvas width and height must be positive")

	// ErrNegativeWeight is returned by [Layout] and [LayoutTree] when any
	// item weight is negative or NaN. Negative weights have no area
	// interpretation and are rejected before normalization.
	ErrNegativeWeight = errors.New("item weights must not be negative")

	// ErrDegenerateInput signals an empty item list or a total weight of
	// zero. It never escapes [Layout]: both states yield an empty layout
	// and a nil error, since they are ordinary "nothing to place" inputs
	// rather than faults.
	ErrDegenerateInput = errors.New("no items with positive weight")
)

// Layout partitions canvas into one tile per item, with tile areas
// proportional to the weights reported by weight. The canvas may sit at any
// origin; tiles are placed in absolute coordinates within it.
//
// Tiles are returned in descending weight order (stable for ties), cover
// the canvas exactly up to floating-point rounding, and never overlap.
// Items with zero weight receive zero-area tiles.
//
// An empty item list or an all-zero weighting returns an empty layout and
// a nil error. Layout fails with [ErrInvalidCanvas] or
// [ErrNegativeWeight]; on error no tiles are returned.
func Layout[T any](items []T, weight WeightFunc[T], canvas Rect) ([]Tile[T], error) {
	if err := validateCanvas(canvas); err != nil {
		return nil, err
	}
	infos, err := process(items, weight, canvas)
	if err != nil {
		if errors.Is(err, ErrDegenerateInput) {
			return nil, nil
		}
		return nil, err
	}
	return squarify(infos, canvas), nil
}

func validateCanvas(r Rect) error {
	if math.IsNaN(r.Width) || math.IsNaN(r.Height) ||
		math.IsInf(r.Width, 0) || math.IsInf(r.Height, 0) ||
		r.Width <= 0 || r.Height <= 0 {
		return ErrInvalidCanvas
	}
	return nil
}

// squarify recursively partitions canvas among the sorted, normalized
// entries. Each step fixes one strip of items along the shorter canvas
// side and recurses into the leftover rectangle, so the recursion depth is
// bounded by the number of items.
func squarify[T any](infos []sizeInfo[T], canvas Rect) []Tile[T] {
	switch len(infos) {
	case 0:
		return nil
	case 1:
		return []Tile[T]{{Item: infos[0].item, Rect: canvas}}
	}

	// Grow the strip while the worst aspect ratio does not get worse.
	// The >= keeps growing on ties, so equal-ratio prefixes extend as far
	// as they can.
	i := 1
	for i < len(infos) && worstRatio(infos[:i], canvas) >= worstRatio(infos[:i+1], canvas) {
		i++
	}

	tiles, leftover := layoutStrip(infos[:i], canvas)
	return append(tiles, squarify(infos[i:], leftover)...)
}

// worstRatio reports the furthest-from-square aspect ratio that laying the
// entries out as a single strip in canvas would produce. Candidates with a
// zero dimension score +Inf, matching [Rect.AspectRatio].
func worstRatio[T any](infos []sizeInfo[T], canvas Rect) float64 {
	var covered float64
	for i := range infos {
		covered += infos[i].normalized
	}
	if covered <= 0 {
		return math.Inf(1)
	}

	span := canvas.Height
	if canvas.Width < canvas.Height {
		span = canvas.Width
	}
	shared := covered / span

	var worst float64
	for i := range infos {
		candidate := Rect{Width: shared, Height: infos[i].normalized / shared}
		if ratio := candidate.AspectRatio(); ratio > worst {
			worst = ratio
		}
	}
	return worst
}

// layoutStrip places the entries as a single strip inside canvas and
// returns the placed tiles together with the leftover rectangle.
//
// When the canvas is at least as wide as it is tall, the strip runs down
// the left edge and consumes width; otherwise it runs along the top edge
// and consumes height. The shared strip dimension is coveredArea divided
// by the canvas side the strip spans, and each entry's other dimension is
// its normalized size divided by that shared dimension.
//
// A strip of zero-weight entries covers no area: its tiles collapse to
// zero size at the canvas origin and the leftover is the canvas unchanged.
func layoutStrip[T any](infos []sizeInfo[T], canvas Rect) ([]Tile[T], Rect) {
	var covered float64
	for i := range infos {
		covered += infos[i].normalized
	}

	tiles := make([]Tile[T], len(infos))
	if covered <= 0 {
		for i := range infos {
			tiles[i] = Tile[T]{Item: infos[i].item, Rect: Rect{X: canvas.X, Y: canvas.Y}}
		}
		return tiles, canvas
	}

	if canvas.Width >= canvas.Height {
		shared := covered / canvas.Height
		y := canvas.Y
		for i := range infos {
			h := infos[i].normalized / shared
			tiles[i] = Tile[T]{
				Item: infos[i].item,
				Rect: Rect{X: canvas.X, Y: y, Width: shared, Height: h},
			}
			y += h
		}
		leftover := Rect{
			X:      canvas.X + shared,
			Y:      canvas.Y,
			Width:  canvas.Width - shared,
			Height: canvas.Height,
		}
		return tiles, leftover
	}

	shared := covered / canvas.Width
	x := canvas.X
	for i := range infos {
		w := infos[i].normalized / shared
		tiles[i] = Tile[T]{
			Item: infos[i].item,
			Rect: Rect{X: x, Y: canvas.Y, Width: w, Height: shared},
		}
		x += w
	}
	leftover := Rect{
		X:      canvas.X,
		Y:      canvas.Y + shared,
		Width:  canvas.Width,
		Height: canvas.Height - shared,
	}
	return tiles, leftover
}
