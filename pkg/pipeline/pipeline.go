// Package pipeline provides the core layout pipeline for Mosaic.
//
// This package implements the complete source → layout → export pipeline
// that can be used by CLI and API components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Source: Acquire weighted items from a manifest file, URL, or directory
//  2. Layout: Compute tile positions with the squarified algorithm
//  3. Export: Assemble and validate the serializable tiling document
//
// Computed documents are cached under a content-addressed key, so repeated
// runs over unchanged input are served from the cache.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source: "project.toml",
//	}
//	result, err := runner.Run(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc := result.Tiling
//
// The API server feeds request bodies through [Runner.RunManifest], which
// skips source classification and lays out an already parsed manifest.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mosaic/pkg/cache"
	apperrors "github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/tiling"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// Format constants for output formats.
const (
	FormatJSON  = "json"
	FormatTable = "table"
)

// DefaultFormat is the output format used when none is requested.
const DefaultFormat = FormatJSON

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON:  true,
	FormatTable: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Source options
	Source      string `json:"source,omitempty"`
	Flat        bool   `json:"flat,omitempty"`         // Discard hierarchy, lay out leaves only
	MinSize     int64  `json:"min_size,omitempty"`     // Directory scans: fold smaller files into "other"
	FollowLinks bool   `json:"follow_links,omitempty"` // Directory scans: follow symbolic links
	Refresh     bool   `json:"refresh,omitempty"`

	// Layout options
	Canvas   tiling.Canvas `json:"canvas"`
	Padding  float64       `json:"padding,omitempty"`
	MaxDepth int           `json:"max_depth,omitempty"`
	MinTile  float64       `json:"min_tile,omitempty"` // Stop nesting below this tile edge length

	// Export options
	Format string `json:"format,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tiling is the computed layout document.
	Tiling *tiling.Tiling

	// SourceHash is the content hash of the source input.
	SourceHash string

	// Stats contains timing and quality information.
	Stats Stats

	// CacheInfo tracks whether the document came from cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Items       int     // Leaf tiles in the document
	Groups      int     // Distinct non-empty group keys over leaf tiles
	TotalWeight float64 // Sum of leaf weights
	WorstAspect float64 // Worst leaf aspect ratio
	MeanAspect  float64 // Mean leaf aspect ratio
	Depth       int     // Deepest nesting level
	SourceTime  time.Duration
	LayoutTime  time.Duration
}

// CacheInfo tracks the cache interaction of a run.
type CacheInfo struct {
	LayoutHit bool   // Whether the document came from cache
	Key       string // Cache key of the document
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperrors.ValidateFormat(format, FormatJSON, FormatTable)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
//
// The canvas is deliberately not defaulted here: a zero canvas means "use
// the canvas the manifest declares, or the package defaults". Resolution
// happens inside the run, after the source is loaded.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Source == "" {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "source is required")
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLayout applies defaults and validates everything except the
// source. [Runner.RunManifest] uses this; its manifest arrives already
// parsed, so no source string is needed.
func (o *Options) ValidateForLayout() error {
	o.SetDefaults()
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	return o.validateGeometry()
}

// SetDefaults fills the format and logger defaults.
func (o *Options) SetDefaults() {
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// validateGeometry checks the numeric layout options. A zero canvas is
// allowed (resolved later); a half-set canvas is not.
func (o *Options) validateGeometry() error {
	if (o.Canvas.Width != 0) != (o.Canvas.Height != 0) {
		return apperrors.New(apperrors.ErrCodeInvalidCanvas, "canvas width and height must be set together, got %gx%g", o.Canvas.Width, o.Canvas.Height)
	}
	if o.Canvas.Width != 0 {
		if err := apperrors.RequirePositive("canvas.width", o.Canvas.Width); err != nil {
			return err
		}
		if err := apperrors.RequirePositive("canvas.height", o.Canvas.Height); err != nil {
			return err
		}
	}
	if err := apperrors.RequireNonNegative("padding", o.Padding); err != nil {
		return err
	}
	if err := apperrors.RequireNonNegative("min_tile", o.MinTile); err != nil {
		return err
	}
	if o.MaxDepth < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "max_depth cannot be negative, got %d", o.MaxDepth)
	}
	if o.MinSize < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "min_size cannot be negative, got %d", o.MinSize)
	}
	return nil
}

// LayoutKeyOpts returns cache key options for the layout document. The
// canvas is passed in resolved form because Options.Canvas stays zero when
// the manifest or the package defaults provide it.
func (o *Options) LayoutKeyOpts(canvas tiling.Canvas) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:    canvas.Width,
		Height:   canvas.Height,
		Padding:  o.Padding,
		MaxDepth: o.MaxDepth,
		MinTile:  o.MinTile,
		Flat:     o.Flat,
	}
}
