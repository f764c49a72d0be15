package treemap

import (
	"errors"
	"math"
	"testing"
)

func TestProcessSortsDescendingStable(t *testing.T) {
	type entry struct {
		label  string
		weight float64
	}
	input := []entry{
		{"low", 1},
		{"tie-1", 4},
		{"high", 9},
		{"tie-2", 4},
	}

	infos, err := process(input, func(e entry) float64 { return e.weight }, Rect{Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("process() error = %v", err)
	}

	wantOrder := []string{"high", "tie-1", "tie-2", "low"}
	for i, info := range infos {
		if info.item.label != wantOrder[i] {
			t.Errorf("position %d = %q, want %q", i, info.item.label, wantOrder[i])
		}
	}
	for i := 1; i < len(infos); i++ {
		if infos[i].size > infos[i-1].size {
			t.Errorf("sizes not descending at %d: %v after %v", i, infos[i].size, infos[i-1].size)
		}
	}
}

func TestProcessNormalizedSumEqualsCanvasArea(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		canvas  Rect
	}{
		{name: "unit square", weights: []float64{1, 2, 3}, canvas: Rect{Width: 1, Height: 1}},
		{name: "screen", weights: []float64{80, 30, 16, 14, 7}, canvas: Rect{Width: 800, Height: 600}},
		{name: "already normalized", weights: []float64{60, 40}, canvas: Rect{Width: 10, Height: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			infos, err := process(tt.weights, func(w float64) float64 { return w }, tt.canvas)
			if err != nil {
				t.Fatalf("process() error = %v", err)
			}
			var sum float64
			for _, info := range infos {
				sum += info.normalized
			}
			if diff := math.Abs(sum - tt.canvas.Area()); diff > 1e-9*tt.canvas.Area() {
				t.Errorf("normalized sum = %v, want %v", sum, tt.canvas.Area())
			}
		})
	}
}

func TestProcessErrors(t *testing.T) {
	identity := func(w float64) float64 { return w }
	canvas := Rect{Width: 10, Height: 10}

	tests := []struct {
		name    string
		weights []float64
		want    error
	}{
		{name: "empty", weights: nil, want: ErrDegenerateInput},
		{name: "all zero", weights: []float64{0, 0}, want: ErrDegenerateInput},
		{name: "negative", weights: []float64{3, -2}, want: ErrNegativeWeight},
		{name: "NaN", weights: []float64{3, math.NaN()}, want: ErrNegativeWeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := process(tt.weights, identity, canvas); !errors.Is(err, tt.want) {
				t.Errorf("process() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	info := sizeInfo[string]{item: "x", size: 5, normalized: -1}

	info.normalize(4)
	first := info.normalized
	if first != 20 {
		t.Fatalf("normalize(4) = %v, want 20", first)
	}

	// A second pass, even with a different scale, must not change the
	// cached value.
	info.normalize(100)
	if info.normalized != first {
		t.Errorf("repeated normalize changed the value: %v -> %v", first, info.normalized)
	}
}
