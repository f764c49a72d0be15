package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/mosaic/pkg/cache"
	"github.com/matzehuels/mosaic/pkg/httputil"
	"github.com/matzehuels/mosaic/pkg/manifest"
	"github.com/matzehuels/mosaic/pkg/observability"
	"github.com/matzehuels/mosaic/pkg/tiling"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Client *httputil.Client
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
// The HTTP client is wired to the same cache; replace Client to customize
// fetch behavior.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Client: httputil.NewClient(c),
		Logger: logger,
	}
}

// Run executes the complete source → layout → export pipeline with caching.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger.With("run", uuid.NewString())

	result := &Result{}

	// Stage 1: Source
	sourceStart := time.Now()
	src, err := r.loadSource(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	result.Stats.SourceTime = time.Since(sourceStart)

	logger.Info("loaded source",
		"kind", src.kind,
		"name", src.name,
		"items", src.items,
		"duration", result.Stats.SourceTime)

	// Stages 2+3: Layout and export, cached as one document
	return r.finish(ctx, src, opts, logger, result)
}

// RunManifest computes a layout for an already parsed manifest. The API
// server uses this for request bodies; opts.Source is not required.
func (r *Runner) RunManifest(ctx context.Context, m *manifest.Manifest, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger.With("run", uuid.NewString())

	src, err := manifestSource(m, SourceManifest, opts)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	return r.finish(ctx, src, opts, logger, &Result{})
}

// finish runs the cached layout half of the pipeline and assembles the
// result.
func (r *Runner) finish(ctx context.Context, src *source, opts Options, logger *log.Logger, result *Result) (*Result, error) {
	result.SourceHash = src.hash

	layoutStart := time.Now()
	doc, hit, key, err := r.layoutWithCacheInfo(ctx, src, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Tiling = doc
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = hit
	result.CacheInfo.Key = key
	computeStats(doc, &result.Stats)

	logger.Info("computed layout",
		"tiles", len(doc.Tiles),
		"worst_aspect", result.Stats.WorstAspect,
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	if result.Stats.Items == 0 {
		logger.Warn("document has no tiles", "name", src.name)
	}

	return result, nil
}

// layoutWithCacheInfo returns the document for a source, serving it from
// cache when possible, and reports the cache interaction.
func (r *Runner) layoutWithCacheInfo(ctx context.Context, src *source, opts Options) (*tiling.Tiling, bool, string, error) {
	canvas := resolveCanvas(opts.Canvas, src.canvas)
	key := r.Keyer.LayoutKey(src.hash, opts.LayoutKeyOpts(canvas))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if doc, err := tiling.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return doc, true, key, nil
			}
			// Undecodable entries fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	doc, err := computeTiling(ctx, src, canvas, opts)
	if err != nil {
		return nil, false, "", err
	}

	// Cache the result
	if data, err := tiling.Marshal(doc); err == nil {
		_ = r.Cache.Set(ctx, key, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	return doc, false, key, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
