// Package cache provides pluggable caching backends for Mosaic.
//
// This package defines the Cache interface used by the HTTP client and the
// layout pipeline, with implementations for different deployments:
//   - file: File-based storage for CLI usage
//   - redis: Redis-backed storage for multi-instance deployments
//   - null: No-op cache for tests and --no-cache runs
//
// # Keys
//
// Cache keys are generated by a [Keyer] so every caller agrees on the key
// layout. The default keyer produces content-addressed keys: layout keys
// hash the source bytes together with every option that changes the
// output, so a cached document is always safe to reuse.
//
// Use [NewScopedKeyer] to prefix keys when several contexts share one
// backend:
//
//	// Per-user keys on a shared Redis
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "user:abc123:")
//
// # Usage
//
//	c, err := cache.NewFileCache(dir)
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	key := keyer.LayoutKey(cache.Hash(source), opts)
//	if data, hit, err := c.Get(ctx, key); err == nil && hit {
//	    // data is the cached layout document
//	}
package cache

import (
	"context"
	"time"
)

// ===== TTL Policy (Single Source of Truth) =====

// Default retention per artifact class. HTTP responses expire daily so
// remote manifests stay reasonably fresh; layout documents are pure
// functions of their inputs and can live longer.
const (
	// TTLHTTP is the retention for fetched HTTP responses.
	TTLHTTP = 24 * time.Hour

	// TTLLayout is the retention for computed layout documents.
	TTLLayout = 7 * 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
//
// Get reports a miss with (nil, false, nil); errors are reserved for
// backend failures. A zero TTL on Set stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer generates cache keys for the cacheable artifacts.
type Keyer interface {
	// HTTPKey generates a key for HTTP response caching.
	HTTPKey(namespace, key string) string

	// LayoutKey generates a key for computed layout documents.
	// sourceHash identifies the input bytes; opts must carry every
	// option that changes the output.
	LayoutKey(sourceHash string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts captures the layout options that affect cached output.
// Two runs with equal source hash and equal opts produce byte-identical
// documents, so they may share a cache entry.
type LayoutKeyOpts struct {
	Width    float64
	Height   float64
	Padding  float64
	MaxDepth int
	MinTile  float64
	Flat     bool
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// HTTPKey generates a key for HTTP response caching.
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// LayoutKey generates a content-addressed key for layout documents.
func (k *DefaultKeyer) LayoutKey(sourceHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", sourceHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
