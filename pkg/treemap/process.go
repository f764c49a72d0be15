package treemap

import (
	"cmp"
	"math"
	"slices"
)

// WeightFunc extracts the layout weight of an item. Weights must be
// non-negative; a zero weight is allowed and yields a zero-area tile.
type WeightFunc[T any] func(T) float64

// sizeInfo carries one item through the layout: the raw weight as reported
// by the WeightFunc, and the weight rescaled so that all normalized sizes
// sum to the canvas area.
type sizeInfo[T any] struct {
	item       T
	size       float64
	normalized float64
}

// normalize rescales the raw size by the canvas-area ratio. The negative
// sentinel makes the call idempotent: once computed, later calls leave the
// value unchanged.
func (s *sizeInfo[T]) normalize(scale float64) {
	if s.normalized < 0 {
		s.normalized = s.size * scale
	}
}

// process turns the raw item list into the sorted, normalized sequence the
// partitioner consumes: weights are read once per item, entries are stably
// sorted by descending size (ties keep input order), and every entry is
// normalized against the canvas area.
//
// Returns ErrNegativeWeight if any weight is negative or NaN, and
// ErrDegenerateInput if the list is empty or the total weight is not
// positive.
func process[T any](items []T, weight WeightFunc[T], canvas Rect) ([]sizeInfo[T], error) {
	if len(items) == 0 {
		return nil, ErrDegenerateInput
	}

	infos := make([]sizeInfo[T], len(items))
	var total float64
	for i, item := range items {
		w := weight(item)
		if w < 0 || math.IsNaN(w) {
			return nil, ErrNegativeWeight
		}
		infos[i] = sizeInfo[T]{item: item, size: w, normalized: -1}
		total += w
	}
	if total <= 0 {
		return nil, ErrDegenerateInput
	}

	slices.SortStableFunc(infos, func(a, b sizeInfo[T]) int {
		return cmp.Compare(b.size, a.size)
	})

	scale := canvas.Area() / total
	for i := range infos {
		infos[i].normalize(scale)
	}
	return infos, nil
}
