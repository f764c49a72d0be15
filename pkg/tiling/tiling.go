package tiling

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
)

// =============================================================================
// Tiling Serialization API
// =============================================================================

// Marshal serializes a Tiling to pretty-printed JSON bytes.
func Marshal(t *Tiling) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// Unmarshal deserializes JSON bytes into a Tiling.
// The document is validated; see [Validate] for the rules.
func Unmarshal(data []byte) (*Tiling, error) {
	var t Tiling
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("unmarshal tiling: %w", err)
	}
	if err := Validate(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Write writes a Tiling as JSON to an io.Writer.
// Use Marshal for in-memory serialization or WriteFile for files.
func Write(t *Tiling, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes a JSON tiling from an io.Reader.
// Use ReadFile for files or pass bytes.NewReader for in-memory data.
func Read(r io.Reader) (*Tiling, error) {
	var t Tiling
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := Validate(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// WriteFile writes a Tiling to a JSON file, creating parent directories as
// needed. The file is created with 0644 permissions.
func WriteFile(t *Tiling, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(t, f)
}

// ReadFile reads a Tiling from a JSON file.
// Returns validation errors for malformed documents.
func ReadFile(path string) (*Tiling, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks a document for structural soundness: a positive finite
// canvas, non-empty tile labels and finite, non-negative tile geometry and
// weights. An empty tile list is valid; degenerate inputs serialize to
// empty documents.
func Validate(t *Tiling) error {
	if t == nil {
		return fmt.Errorf("tiling must not be nil")
	}

	if !positiveFinite(t.Canvas.Width) || !positiveFinite(t.Canvas.Height) {
		return fmt.Errorf("canvas must have positive finite dimensions, got %gx%g", t.Canvas.Width, t.Canvas.Height)
	}

	for i := range t.Tiles {
		tile := &t.Tiles[i]
		if tile.Label == "" {
			return fmt.Errorf("tile %d: label must not be empty", i)
		}
		if !finite(tile.X) || !finite(tile.Y) {
			return fmt.Errorf("tile %d (%s): position must be finite", i, tile.Label)
		}
		if !nonNegativeFinite(tile.Width) || !nonNegativeFinite(tile.Height) {
			return fmt.Errorf("tile %d (%s): size must be finite and non-negative", i, tile.Label)
		}
		if !nonNegativeFinite(tile.Weight) {
			return fmt.Errorf("tile %d (%s): weight must be finite and non-negative", i, tile.Label)
		}
		if tile.Depth < 0 {
			return fmt.Errorf("tile %d (%s): depth must not be negative", i, tile.Label)
		}
	}

	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func positiveFinite(v float64) bool {
	return finite(v) && v > 0
}

func nonNegativeFinite(v float64) bool {
	return finite(v) && v >= 0
}
