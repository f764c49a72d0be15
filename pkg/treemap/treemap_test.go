package treemap_test

import (
	"errors"
	"math"
	"testing"

	"github.com/matzehuels/mosaic/pkg/treemap"
)

const eps = 1e-9

type item struct {
	name   string
	weight float64
}

func weightOf(it item) float64 { return it.weight }

func items(weights ...float64) []item {
	out := make([]item, len(weights))
	for i, w := range weights {
		out[i] = item{name: string(rune('a' + i)), weight: w}
	}
	return out
}

func approx(a, b float64) bool {
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	if a == 0 || b == 0 {
		return diff < eps
	}
	return diff/math.Max(math.Abs(a), math.Abs(b)) < eps
}

func approxRect(got, want treemap.Rect) bool {
	return approx(got.X, want.X) && approx(got.Y, want.Y) &&
		approx(got.Width, want.Width) && approx(got.Height, want.Height)
}

// openOverlap reports whether the open interiors of a and b intersect by
// more than the floating tolerance in both dimensions.
func openOverlap(a, b treemap.Rect) bool {
	w := math.Min(a.MaxX(), b.MaxX()) - math.Max(a.X, b.X)
	h := math.Min(a.MaxY(), b.MaxY()) - math.Max(a.Y, b.Y)
	return w > eps && h > eps
}

func TestLayoutSingleItem(t *testing.T) {
	tiles, err := treemap.Layout([]item{{name: "only", weight: 3}}, weightOf, treemap.Rect{Width: 10, Height: 5})
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if len(tiles) != 1 {
		t.Fatalf("Layout() returned %d tiles, want 1", len(tiles))
	}
	want := treemap.Rect{X: 0, Y: 0, Width: 10, Height: 5}
	if tiles[0].Rect != want {
		t.Errorf("Layout() tile = %+v, want %+v", tiles[0].Rect, want)
	}
}

func TestLayoutTwoEqualWeights(t *testing.T) {
	// Two equal items on a square canvas split it into two stacked rows.
	// Both the lone first item and the pair score a worst ratio of 2, and
	// the growth tie-break keeps extending the strip on equal ratios, so
	// the two items share one full-width strip.
	tiles, err := treemap.Layout(items(1, 1), weightOf, treemap.Rect{Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if len(tiles) != 2 {
		t.Fatalf("Layout() returned %d tiles, want 2", len(tiles))
	}

	want := []treemap.Rect{
		{X: 0, Y: 0, Width: 10, Height: 5},
		{X: 0, Y: 5, Width: 10, Height: 5},
	}
	for i, tile := range tiles {
		if !approxRect(tile.Rect, want[i]) {
			t.Errorf("tile %d = %+v, want %+v", i, tile.Rect, want[i])
		}
		if got := tile.AspectRatio(); !approx(got, 2) {
			t.Errorf("tile %d aspect = %v, want 2", i, got)
		}
	}
}

func TestLayoutEmptyInput(t *testing.T) {
	tiles, err := treemap.Layout(nil, weightOf, treemap.Rect{Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("Layout() error = %v, want nil", err)
	}
	if len(tiles) != 0 {
		t.Errorf("Layout() returned %d tiles, want 0", len(tiles))
	}
}

func TestLayoutAllZeroWeights(t *testing.T) {
	tiles, err := treemap.Layout(items(0, 0, 0), weightOf, treemap.Rect{Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("Layout() error = %v, want nil", err)
	}
	if len(tiles) != 0 {
		t.Errorf("Layout() returned %d tiles, want 0", len(tiles))
	}
}

func TestLayoutInvalidCanvas(t *testing.T) {
	tests := []struct {
		name   string
		canvas treemap.Rect
	}{
		{name: "zero width", canvas: treemap.Rect{Width: 0, Height: 10}},
		{name: "zero height", canvas: treemap.Rect{Width: 10, Height: 0}},
		{name: "negative width", canvas: treemap.Rect{Width: -4, Height: 10}},
		{name: "negative height", canvas: treemap.Rect{Width: 10, Height: -4}},
		{name: "NaN width", canvas: treemap.Rect{Width: math.NaN(), Height: 10}},
		{name: "infinite height", canvas: treemap.Rect{Width: 10, Height: math.Inf(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := treemap.Layout(items(1, 2), weightOf, tt.canvas)
			if !errors.Is(err, treemap.ErrInvalidCanvas) {
				t.Errorf("Layout() error = %v, want ErrInvalidCanvas", err)
			}
		})
	}
}

func TestLayoutNegativeWeight(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
	}{
		{name: "negative", weights: []float64{5, -1, 3}},
		{name: "NaN", weights: []float64{5, math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiles, err := treemap.Layout(items(tt.weights...), weightOf, treemap.Rect{Width: 10, Height: 10})
			if !errors.Is(err, treemap.ErrNegativeWeight) {
				t.Errorf("Layout() error = %v, want ErrNegativeWeight", err)
			}
			if tiles != nil {
				t.Errorf("Layout() returned %d tiles on error, want none", len(tiles))
			}
		})
	}
}

// TestLayoutReferenceExample pins the layout of the classic squarified
// treemap example (weights 6,6,4,3,2,2,1 on a 6x4 canvas): a left column
// with the two sixes, a strip of 4 and 3 along the top of the remainder,
// and 2, 2, 1 filling the bottom-right corner.
func TestLayoutReferenceExample(t *testing.T) {
	tiles, err := treemap.Layout(items(6, 6, 4, 3, 2, 2, 1), weightOf, treemap.Rect{Width: 6, Height: 4})
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}

	want := []struct {
		weight float64
		rect   treemap.Rect
	}{
		{6, treemap.Rect{X: 0, Y: 0, Width: 3, Height: 2}},
		{6, treemap.Rect{X: 0, Y: 2, Width: 3, Height: 2}},
		{4, treemap.Rect{X: 3, Y: 0, Width: 12.0 / 7, Height: 7.0 / 3}},
		{3, treemap.Rect{X: 3 + 12.0/7, Y: 0, Width: 9.0 / 7, Height: 7.0 / 3}},
		{2, treemap.Rect{X: 3, Y: 7.0 / 3, Width: 1.2, Height: 5.0 / 3}},
		{2, treemap.Rect{X: 4.2, Y: 7.0 / 3, Width: 1.2, Height: 5.0 / 3}},
		{1, treemap.Rect{X: 5.4, Y: 7.0 / 3, Width: 0.6, Height: 5.0 / 3}},
	}
	if len(tiles) != len(want) {
		t.Fatalf("Layout() returned %d tiles, want %d", len(tiles), len(want))
	}
	for i, tile := range tiles {
		if tile.Item.weight != want[i].weight {
			t.Errorf("tile %d item weight = %v, want %v", i, tile.Item.weight, want[i].weight)
		}
		if !approxRect(tile.Rect, want[i].rect) {
			t.Errorf("tile %d = %+v, want %+v", i, tile.Rect, want[i].rect)
		}
	}
}

func layoutFixtures() map[string][]item {
	return map[string][]item{
		"uniform":      items(1, 1, 1, 1, 1, 1, 1, 1),
		"paper":        items(6, 6, 4, 3, 2, 2, 1),
		"skewed":       items(80, 30, 16, 14, 7, 7, 5, 5, 5, 3, 3, 3, 2, 2, 1, 1),
		"single":       items(42),
		"with zero":    items(9, 4, 0, 1),
		"tiny weights": items(1e-7, 3e-7, 2e-7),
	}
}

func TestLayoutAreaConservation(t *testing.T) {
	canvases := []treemap.Rect{
		{Width: 10, Height: 10},
		{Width: 800, Height: 600},
		{X: 12.5, Y: -3, Width: 7, Height: 19},
	}

	for name, fixture := range layoutFixtures() {
		t.Run(name, func(t *testing.T) {
			for _, canvas := range canvases {
				tiles, err := treemap.Layout(fixture, weightOf, canvas)
				if err != nil {
					t.Fatalf("Layout() error = %v", err)
				}
				var sum float64
				for _, tile := range tiles {
					sum += tile.Area()
				}
				if !approx(sum, canvas.Area()) {
					t.Errorf("canvas %+v: covered area = %v, want %v", canvas, sum, canvas.Area())
				}
			}
		})
	}
}

func TestLayoutNoOverlap(t *testing.T) {
	for name, fixture := range layoutFixtures() {
		t.Run(name, func(t *testing.T) {
			tiles, err := treemap.Layout(fixture, weightOf, treemap.Rect{Width: 640, Height: 480})
			if err != nil {
				t.Fatalf("Layout() error = %v", err)
			}
			for i := range tiles {
				for j := i + 1; j < len(tiles); j++ {
					if openOverlap(tiles[i].Rect, tiles[j].Rect) {
						t.Errorf("tiles %d and %d overlap: %+v vs %+v", i, j, tiles[i].Rect, tiles[j].Rect)
					}
				}
			}
		})
	}
}

func TestLayoutWithinCanvas(t *testing.T) {
	canvas := treemap.Rect{X: 5, Y: 7, Width: 30, Height: 20}
	tiles, err := treemap.Layout(items(5, 4, 3, 2, 1), weightOf, canvas)
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	for i, tile := range tiles {
		if tile.X < canvas.X-eps || tile.Y < canvas.Y-eps ||
			tile.MaxX() > canvas.MaxX()+eps || tile.MaxY() > canvas.MaxY()+eps {
			t.Errorf("tile %d escapes the canvas: %+v", i, tile.Rect)
		}
	}
}

func TestLayoutProportionality(t *testing.T) {
	weights := []float64{24, 12, 6, 6}
	tiles, err := treemap.Layout(items(weights...), weightOf, treemap.Rect{Width: 16, Height: 12})
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	for i := 1; i < len(tiles); i++ {
		gotRatio := tiles[0].Area() / tiles[i].Area()
		wantRatio := tiles[0].Item.weight / tiles[i].Item.weight
		if !approx(gotRatio, wantRatio) {
			t.Errorf("area ratio tile0/tile%d = %v, want %v", i, gotRatio, wantRatio)
		}
	}
}

func TestLayoutDeterminism(t *testing.T) {
	fixture := items(80, 30, 16, 14, 7, 7, 5, 5, 5, 3, 3)
	canvas := treemap.Rect{Width: 300, Height: 200}

	first, err := treemap.Layout(fixture, weightOf, canvas)
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	second, err := treemap.Layout(fixture, weightOf, canvas)
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("runs disagree on tile count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("tile %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestLayoutOrderAndTies(t *testing.T) {
	// Output follows descending weight; equal weights keep input order.
	input := []item{
		{name: "small", weight: 1},
		{name: "first-two", weight: 2},
		{name: "big", weight: 5},
		{name: "second-two", weight: 2},
	}
	tiles, err := treemap.Layout(input, weightOf, treemap.Rect{Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}

	wantOrder := []string{"big", "first-two", "second-two", "small"}
	for i, tile := range tiles {
		if tile.Item.name != wantOrder[i] {
			t.Errorf("tile %d = %q, want %q", i, tile.Item.name, wantOrder[i])
		}
	}
}

func TestLayoutZeroWeightItem(t *testing.T) {
	tiles, err := treemap.Layout(items(5, 0), weightOf, treemap.Rect{Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if len(tiles) != 2 {
		t.Fatalf("Layout() returned %d tiles, want 2", len(tiles))
	}
	if got := tiles[0].Area(); !approx(got, 100) {
		t.Errorf("positive tile area = %v, want 100", got)
	}
	if got := tiles[1].Area(); got != 0 {
		t.Errorf("zero-weight tile area = %v, want 0", got)
	}
}

// TestLayoutQuadrants checks that four equal weights on a square canvas
// come out as a 2x2 grid of perfect squares rather than four slivers: the
// strip grows to hold two items (a pair in a half-width strip is square)
// and then stops.
func TestLayoutQuadrants(t *testing.T) {
	tiles, err := treemap.Layout(items(1, 1, 1, 1), weightOf, treemap.Rect{Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	want := []treemap.Rect{
		{X: 0, Y: 0, Width: 5, Height: 5},
		{X: 0, Y: 5, Width: 5, Height: 5},
		{X: 5, Y: 0, Width: 5, Height: 5},
		{X: 5, Y: 5, Width: 5, Height: 5},
	}
	if len(tiles) != len(want) {
		t.Fatalf("Layout() returned %d tiles, want %d", len(tiles), len(want))
	}
	for i, tile := range tiles {
		if !approxRect(tile.Rect, want[i]) {
			t.Errorf("tile %d = %+v, want %+v", i, tile.Rect, want[i])
		}
	}
}
