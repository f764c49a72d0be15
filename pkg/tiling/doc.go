// Package tiling provides serialization types for treemap layout documents.
//
// This package defines the canonical wire format for Mosaic's layout output,
// used for JSON files, API responses, caching, and cross-tool interoperability.
//
// # Architecture
//
// The package sits at the serialization boundary between the pure layout
// engine and external formats:
//
//   - [Tiling], [Tile]: Serialization types (this package)
//   - pkg/treemap: Internal layout representation (generic, in-memory)
//
// pkg/pipeline assembles a Tiling from core layout results; this package
// stays free of layout logic and validates documents on the way in.
//
// # Core Types
//
//   - [Tiling]: A complete layout document (canvas, tiles, metadata)
//   - [Canvas]: The target frame dimensions
//   - [Tile]: One positioned rectangle with its label and weight
//   - [Meta]: Provenance (document ID, generator, timestamp)
//
// # Document Format
//
// Tilings use a flat JSON format; hierarchical layouts carry depth and
// branch markers per tile instead of nesting:
//
//	{
//	  "name": "demo",
//	  "canvas": {"width": 800, "height": 600},
//	  "tiles": [
//	    {"label": "core", "weight": 6, "x": 0, "y": 0, "width": 480, "height": 600}
//	  ],
//	  "meta": {"id": "…", "generated_at": "…", "generator": "mosaic", "version": "…"}
//	}
//
// # Reading and Writing
//
// Common operations:
//
//	tl, _ := tiling.ReadFile("layout.json")     // File → Tiling (validated)
//	tiling.WriteFile(tl, "layout.json")         // Tiling → File
//	data, _ := tiling.Marshal(tl)               // Tiling → []byte
//	parsed, _ := tiling.Unmarshal(data)         // []byte → Tiling (validated)
//
// # Stats
//
// [Tiling.WorstAspect] and [Tiling.CoveredArea] summarize layout quality
// over the leaf tiles; branch tiles enclose their children and are skipped
// so nothing is counted twice.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package tiling
