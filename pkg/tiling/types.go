package tiling

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Default canvas dimensions, shared by the pipeline, CLI and API.
const (
	DefaultWidth  = 800.0
	DefaultHeight = 600.0
)

// =============================================================================
// Tiling - Layout Document
// =============================================================================

// Tiling is the canonical serialization format for computed layouts.
// Used for API responses, files, caching, and cross-tool compatibility.
//
// The format is human-readable and designed for round-trip fidelity:
// compute → export → re-import produces identical results.
type Tiling struct {
	Name   string `json:"name,omitempty"`
	Canvas Canvas `json:"canvas"`
	Tiles  []Tile `json:"tiles"`
	Meta   *Meta  `json:"meta,omitempty"`
}

// Canvas is the target frame the tiles partition. Tiles use coordinates
// relative to the canvas origin (top-left).
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Area returns the canvas area.
func (c Canvas) Area() float64 { return c.Width * c.Height }

// =============================================================================
// Tile - Positioned Element
// =============================================================================

// Tile is one positioned rectangle of a layout.
//
// Flat layouts emit only leaf tiles at depth 0. Hierarchical layouts also
// emit their enclosing group rectangles, marked with Branch and carrying
// the nesting level in Depth; a branch precedes its children in the list
// (paint order).
type Tile struct {
	Label  string  `json:"label"`
	Group  string  `json:"group,omitempty"` // Optional grouping key (e.g. category, directory)
	Weight float64 `json:"weight"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  int     `json:"depth,omitempty"`
	Branch bool    `json:"branch,omitempty"`
}

// Area returns the tile area.
func (t *Tile) Area() float64 { return t.Width * t.Height }

// Aspect returns the tile's aspect ratio as max(w/h, h/w), the layout
// quality measure. A zero-area tile reports 0.
func (t *Tile) Aspect() float64 {
	if t.Width <= 0 || t.Height <= 0 {
		return 0
	}
	return math.Max(t.Width/t.Height, t.Height/t.Width)
}

// =============================================================================
// Meta - Document Provenance
// =============================================================================

// Meta records where and when a document was produced.
type Meta struct {
	ID          string    `json:"id,omitempty"` // Unique document ID (UUID)
	GeneratedAt time.Time `json:"generated_at"`
	Generator   string    `json:"generator,omitempty"` // Producing tool, e.g. "mosaic"
	Version     string    `json:"version,omitempty"`   // Producing tool version
}

// NewMeta creates provenance metadata with a fresh document ID and the
// current UTC time.
func NewMeta(generator, version string) *Meta {
	return &Meta{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Generator:   generator,
		Version:     version,
	}
}

// =============================================================================
// Stats Helpers
// =============================================================================

// WorstAspect returns the worst aspect ratio over the leaf tiles with
// positive area, the usual quality score of a squarified layout. Returns 0
// for a document without such tiles.
func (t *Tiling) WorstAspect() float64 {
	var worst float64
	for i := range t.Tiles {
		tile := &t.Tiles[i]
		if tile.Branch || tile.Area() <= 0 {
			continue
		}
		if a := tile.Aspect(); a > worst {
			worst = a
		}
	}
	return worst
}

// CoveredArea returns the total area of the leaf tiles. Without padding
// this equals the canvas area; padding around nested levels reduces it.
func (t *Tiling) CoveredArea() float64 {
	var sum float64
	for i := range t.Tiles {
		tile := &t.Tiles[i]
		if tile.Branch {
			continue
		}
		sum += tile.Area()
	}
	return sum
}

// MaxDepth returns the deepest nesting level in the document, 0 for flat
// layouts and empty documents.
func (t *Tiling) MaxDepth() int {
	var max int
	for i := range t.Tiles {
		if d := t.Tiles[i].Depth; d > max {
			max = d
		}
	}
	return max
}

// Leaves returns the number of leaf tiles.
func (t *Tiling) Leaves() int {
	var n int
	for i := range t.Tiles {
		if !t.Tiles[i].Branch {
			n++
		}
	}
	return n
}
