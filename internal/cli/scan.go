package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/pipeline"
)

// scanCommand creates the scan command for directory treemaps.
func (c *CLI) scanCommand() *cobra.Command {
	var (
		output   string
		top      int
		cacheCfg cacheConfig
	)
	opts := pipeline.Options{}
	setCLIDefaults(&opts)

	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Lay out a directory tree as a disk-usage treemap",
		Long: `Lay out a directory tree as a disk-usage treemap.

File sizes become tile weights, so large files and directories occupy
proportionally large tiles. Hidden entries (dotfiles) are skipped, and
symbolic links are not followed unless --follow-symlinks is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Source = args[0]
			return c.runScan(cmd.Context(), opts, output, top, cacheCfg)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "out", "o", "", "write the tiling document to this file")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", opts.Format, "output format: table (default), json")
	cmd.Flags().IntVar(&top, "top", 0, "limit the table to the N heaviest tiles")

	// Scan flags
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", opts.MaxDepth, "maximum nesting depth (0 = unlimited)")
	cmd.Flags().Int64Var(&opts.MinSize, "min-size", opts.MinSize, "fold files smaller than this many bytes into an \"other\" tile")
	cmd.Flags().BoolVar(&opts.FollowLinks, "follow-symlinks", opts.FollowLinks, "follow symbolic links")

	// Layout flags
	cmd.Flags().Float64Var(&opts.Canvas.Width, "width", opts.Canvas.Width, "canvas width (0 = 800)")
	cmd.Flags().Float64Var(&opts.Canvas.Height, "height", opts.Canvas.Height, "canvas height (0 = 600)")
	cmd.Flags().Float64Var(&opts.Padding, "padding", opts.Padding, "padding between nested tiles")
	cmd.Flags().Float64Var(&opts.MinTile, "min-tile", opts.MinTile, "stop nesting below this tile edge length")
	cmd.Flags().BoolVar(&opts.Flat, "flat", opts.Flat, "discard hierarchy and lay out files only")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", opts.Refresh, "recompute even if a cached layout exists")
	cacheCfg.register(cmd)

	return cmd
}

// runScan checks the source is a directory, then runs the shared pipeline
// path with byte-sized weights.
func (c *CLI) runScan(ctx context.Context, opts pipeline.Options, output string, top int, cacheCfg cacheConfig) error {
	kind, err := pipeline.ClassifySource(opts.Source)
	if err != nil {
		return err
	}
	if kind != pipeline.SourceDir {
		return apperrors.New(apperrors.ErrCodeInvalidPath, "%s is not a directory", opts.Source)
	}

	result, err := c.execute(ctx, opts, cacheCfg)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	export := fmt.Sprintf("%s scan %s --format json -o layout.json", appName, opts.Source)
	return c.printResult(result, opts, output, top, true, export)
}
