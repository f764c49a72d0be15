package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mosaic/pkg/observability"
	"github.com/matzehuels/mosaic/pkg/pipeline"
	"github.com/matzehuels/mosaic/pkg/tiling"
)

// layoutCommand creates the layout command for computing treemap layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output   string
		top      int
		cacheCfg cacheConfig
	)
	opts := pipeline.Options{}
	setCLIDefaults(&opts)

	cmd := &cobra.Command{
		Use:   "layout [manifest]",
		Short: "Compute a treemap layout from a weighted manifest",
		Long: `Compute a squarified treemap layout from a weighted manifest.

The manifest can be a local TOML or JSON file or an HTTP(S) URL. When no
argument is given, mosaic offers a picker over the manifest files in the
current directory.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Source = args[0]
			}
			return c.runLayout(cmd.Context(), opts, output, top, cacheCfg)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "out", "o", "", "write the tiling document to this file")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", opts.Format, "output format: table (default), json")
	cmd.Flags().IntVar(&top, "top", 0, "limit the table to the N heaviest tiles")

	// Layout flags
	cmd.Flags().Float64Var(&opts.Canvas.Width, "width", opts.Canvas.Width, "canvas width (0 = manifest canvas or 800)")
	cmd.Flags().Float64Var(&opts.Canvas.Height, "height", opts.Canvas.Height, "canvas height (0 = manifest canvas or 600)")
	cmd.Flags().Float64Var(&opts.Padding, "padding", opts.Padding, "padding between nested tiles")
	cmd.Flags().IntVar(&opts.MaxDepth, "depth", opts.MaxDepth, "maximum nesting depth (0 = unlimited)")
	cmd.Flags().Float64Var(&opts.MinTile, "min-tile", opts.MinTile, "stop nesting below this tile edge length")
	cmd.Flags().BoolVar(&opts.Flat, "flat", opts.Flat, "discard hierarchy and lay out leaves only")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", opts.Refresh, "recompute even if a cached layout exists")
	cacheCfg.register(cmd)

	return cmd
}

// runLayout resolves the source, runs the pipeline, and writes output.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, top int, cacheCfg cacheConfig) error {
	if opts.Source == "" {
		picked, err := c.pickManifest(".")
		if err != nil {
			return err
		}
		if picked == "" {
			printInfo("No manifest selected")
			return nil
		}
		opts.Source = picked
	}

	result, err := c.execute(ctx, opts, cacheCfg)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	export := fmt.Sprintf("%s layout %s --format json -o layout.json", appName, opts.Source)
	return c.printResult(result, opts, output, top, false, export)
}

// execute runs the pipeline behind a spinner whose message follows the
// pipeline stages.
func (c *CLI) execute(ctx context.Context, opts pipeline.Options, cacheCfg cacheConfig) (*pipeline.Result, error) {
	runner, err := c.newRunner(ctx, cacheCfg)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Working...")
	observability.SetPipelineHooks(&stageHooks{spinner: spinner})
	defer observability.Reset()

	spinner.Start()
	result, err := runner.Run(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return nil, err
	}
	spinner.Stop()

	return result, nil
}

// printResult writes the tiling document to the requested destinations.
// With --format json and no output file the document goes to stdout;
// otherwise the table and stats footer are printed, plus the file path
// when one was written.
func (c *CLI) printResult(result *pipeline.Result, opts pipeline.Options, output string, top int, humanBytes bool, export string) error {
	if output != "" {
		if err := tiling.WriteFile(result.Tiling, output); err != nil {
			return fmt.Errorf("write output %s: %w", output, err)
		}
	}

	if opts.Format == pipeline.FormatJSON {
		if output == "" {
			return tiling.Write(result.Tiling, os.Stdout)
		}
		printSuccess("Layout complete")
		printFile(output)
		printLayoutStats(result.Stats, result.CacheInfo.LayoutHit)
		return nil
	}

	printTileTable(result.Tiling, top, humanBytes)
	printLayoutStats(result.Stats, result.CacheInfo.LayoutHit)
	if output != "" {
		printFile(output)
	} else if export != "" {
		printNewline()
		printNextStep("Export", export)
	}

	return nil
}
