// Package pkg provides the core libraries for Mosaic treemap layout.
//
// # Overview
//
// Mosaic turns weighted hierarchies into squarified treemap layouts: each
// item becomes a rectangle whose area is proportional to its weight, and
// the algorithm keeps those rectangles as close to square as it can. The
// pkg directory is organized into four main areas:
//
//  1. [treemap] - The layout algorithm (flat and hierarchical squarify)
//  2. [tiling] - The serializable layout document
//  3. [manifest] / [scan] - Input acquisition (weighted manifests, directory trees)
//  4. [pipeline] - Orchestration (source → layout → export) with caching
//
// # Architecture
//
// The typical data flow through Mosaic:
//
//	Manifest file/URL or directory
//	         ↓
//	    [manifest] / [scan] package (acquire weighted items)
//	         ↓
//	    [treemap] package (squarified layout)
//	         ↓
//	    [tiling] package (serializable document)
//	         ↓
//	    JSON file / stdout / HTTP response
//
// # Quick Start
//
// Run the full pipeline over a manifest file:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/mosaic/pkg/pipeline"
//	    "github.com/matzehuels/mosaic/pkg/tiling"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	defer runner.Close()
//
//	result, _ := runner.Run(context.Background(), pipeline.Options{
//	    Source: "manifest.toml",
//	    Canvas: tiling.Canvas{Width: 1200, Height: 800},
//	})
//	doc := result.Tiling
//
// Or call the layout algorithm directly:
//
//	import "github.com/matzehuels/mosaic/pkg/treemap"
//
//	type file struct {
//	    name string
//	    size float64
//	}
//
//	files := []file{{"core", 3}, {"ui", 1}}
//	tiles, _ := treemap.Layout(files,
//	    func(f file) float64 { return f.size },
//	    treemap.Rect{Width: 400, Height: 300})
//
// # Main Packages
//
// ## Layout
//
// [treemap] - The squarified treemap algorithm (Bruls, Huizing, van Wijk).
// [treemap.Layout] places a flat item list; [treemap.LayoutTree] recurses
// into a weighted tree, emitting branch rectangles around their children.
// Both are generic over the item payload.
//
// [tiling] - The canonical layout document: a canvas partitioned into
// positioned tiles, plus provenance metadata. Designed for round-trip
// fidelity so compute → export → re-import produces identical results.
//
// ## Input Acquisition
//
// [manifest] - Weighted manifest parsing (TOML and JSON) with validation:
// labels, non-negative finite weights, branch/leaf rules, optional canvas.
//
// [scan] - Directory walking. File sizes become weights, subdirectories
// become branches. Skips hidden entries, optionally follows symlinks,
// and can fold small files into a synthetic "other" entry.
//
// ## Infrastructure
//
// [pipeline] - Complete layout pipeline (source → layout → export) used by
// both the CLI and the HTTP API. Handles source classification, canvas
// resolution, caching, and statistics.
//
// [cache] - Cache backends behind a small interface: FileCache for the
// CLI (filesystem), RedisCache for server deployments, NullCache for
// tests and --no-cache runs. The Keyer produces content-addressed keys
// so equal inputs share entries.
//
// [httputil] - HTTP client for remote manifests with response caching,
// size limits, and retry-after handling.
//
// [errors] - Structured errors with stable machine-readable codes, shared
// by the CLI (exit messages) and the API (status mapping).
//
// [observability] - Pipeline stage hooks. The CLI drives its spinner from
// these; servers can attach metrics without the pipeline knowing.
//
// [buildinfo] - Build metadata (version, commit, date) injected via ldflags.
//
// # Common Workflows
//
// Parse and validate a manifest:
//
//	m, _ := manifest.Load("weights.toml")
//	err := m.Validate()
//
// Lay out a tree with nesting options:
//
//	tiles, _ := treemap.LayoutTree(root, frame,
//	    treemap.WithPadding(2),
//	    treemap.WithMaxDepth(3))
//
// Persist and reload a document:
//
//	_ = tiling.WriteFile(doc, "layout.json")
//	doc2, _ := tiling.ReadFile("layout.json")
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/treemap/...    # Specific package
//	go test -run Example         # Examples only
//
// [treemap]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/treemap
// [tiling]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/tiling
// [manifest]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/manifest
// [scan]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/scan
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/buildinfo
package pkg
