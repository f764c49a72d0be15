// Package cli implements the mosaic command-line interface.
//
// This package provides commands for laying out weighted manifests and
// directory trees as squarified treemaps, serving the layout engine over
// HTTP, and managing the local cache. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Compute a treemap layout from a manifest file or URL
//   - scan: Lay out a directory tree as a disk-usage treemap
//   - serve: Expose the layout engine as an HTTP API
//   - cache: Manage cached layouts and HTTP responses
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging and
// --quiet (-q) to suppress everything below warnings.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mosaic/pkg/buildinfo"
	"github.com/matzehuels/mosaic/pkg/cache"
	"github.com/matzehuels/mosaic/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "mosaic"

	// defaultRedisAddr is the fallback address for --cache-backend redis.
	defaultRedisAddr = "localhost:6379"
)

// Cache backends selectable via --cache-backend.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogWarn  = log.WarnLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Mosaic lays out weighted data as squarified treemaps",
		Long:          `Mosaic is a CLI tool for turning weighted hierarchies, such as manifest files or directory trees, into squarified treemap layouts whose tiles stay close to square.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.scanCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheConfig holds the cache flags shared by the commands that run the
// pipeline.
type cacheConfig struct {
	backend   string
	redisAddr string
	noCache   bool
}

// register adds the cache flags to cmd.
func (cfg *cacheConfig) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&cfg.backend, "cache-backend", backendFile, "cache backend: file (default), redis, none")
	cmd.Flags().StringVar(&cfg.redisAddr, "redis-addr", "", "redis address ($MOSAIC_REDIS_ADDR or localhost:6379 if empty)")
	cmd.Flags().BoolVar(&cfg.noCache, "no-cache", false, "disable caching")
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg cacheConfig) (*pipeline.Runner, error) {
	store, err := newCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func newCache(ctx context.Context, cfg cacheConfig) (cache.Cache, error) {
	if cfg.noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.backend {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendRedis:
		addr := cfg.redisAddr
		if addr == "" {
			addr = os.Getenv("MOSAIC_REDIS_ADDR")
		}
		if addr == "" {
			addr = defaultRedisAddr
		}
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: addr})
	case backendFile, "":
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	default:
		return nil, fmt.Errorf("unknown cache backend: %s (must be 'file', 'redis', or 'none')", cfg.backend)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory. MOSAIC_CACHE_DIR wins, then the
// XDG standard (~/.cache/mosaic/).
func cacheDir() (string, error) {
	if dir := os.Getenv("MOSAIC_CACHE_DIR"); dir != "" {
		return dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// setCLIDefaults applies CLI-specific defaults on top of pipeline defaults.
func setCLIDefaults(opts *pipeline.Options) {
	opts.SetDefaults()
	// CLI-specific preferences (override pipeline defaults)
	opts.Format = pipeline.FormatTable
}
