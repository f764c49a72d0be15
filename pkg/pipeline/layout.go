package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/mosaic/pkg/buildinfo"
	apperrors "github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/observability"
	"github.com/matzehuels/mosaic/pkg/tiling"
	"github.com/matzehuels/mosaic/pkg/treemap"
)

// =============================================================================
// Layout and Export
// =============================================================================

// computeTiling runs the layout and export stages with their hooks.
func computeTiling(ctx context.Context, src *source, canvas tiling.Canvas, opts Options) (*tiling.Tiling, error) {
	mode := "tree"
	if opts.Flat {
		mode = "flat"
	}

	observability.Pipeline().OnLayoutStart(ctx, mode, src.items)
	layoutStart := time.Now()
	tiles, err := layoutTiles(src, canvas, opts)
	if err != nil {
		err = apperrors.Wrap(apperrors.ErrCodeLayout, err, "layout %s", src.name)
	}
	observability.Pipeline().OnLayoutComplete(ctx, mode, time.Since(layoutStart), err)
	if err != nil {
		return nil, err
	}

	observability.Pipeline().OnExportStart(ctx, opts.Format)
	exportStart := time.Now()
	doc := buildTiling(src.name, canvas, tiles)
	err = tiling.Validate(doc)
	observability.Pipeline().OnExportComplete(ctx, opts.Format, len(doc.Tiles), time.Since(exportStart), err)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "export %s", src.name)
	}
	return doc, nil
}

// layoutTiles runs the squarified layout over the source tree.
func layoutTiles(src *source, canvas tiling.Canvas, opts Options) ([]treemap.TreeTile[tileItem], error) {
	frame := treemap.Rect{Width: canvas.Width, Height: canvas.Height}
	var topts []treemap.TreeOption
	if opts.Padding > 0 {
		topts = append(topts, treemap.WithPadding(opts.Padding))
	}
	if opts.MaxDepth > 0 {
		topts = append(topts, treemap.WithMaxDepth(opts.MaxDepth))
	}
	if opts.MinTile > 0 {
		topts = append(topts, treemap.WithMinTileSize(opts.MinTile, opts.MinTile))
	}
	return treemap.LayoutTree(src.root, frame, topts...)
}

// resolveCanvas picks the canvas for a run: explicit options win, then the
// canvas the source declares, then the package defaults.
func resolveCanvas(explicit tiling.Canvas, declared *tiling.Canvas) tiling.Canvas {
	if explicit.Width > 0 && explicit.Height > 0 {
		return explicit
	}
	if declared != nil && declared.Width > 0 && declared.Height > 0 {
		return *declared
	}
	return tiling.Canvas{Width: tiling.DefaultWidth, Height: tiling.DefaultHeight}
}

// buildTiling assembles the serializable document from placed tiles.
func buildTiling(name string, canvas tiling.Canvas, tiles []treemap.TreeTile[tileItem]) *tiling.Tiling {
	doc := &tiling.Tiling{
		Name:   name,
		Canvas: canvas,
		Tiles:  make([]tiling.Tile, 0, len(tiles)),
		Meta:   tiling.NewMeta("mosaic", buildinfo.Version),
	}
	for i := range tiles {
		t := &tiles[i]
		doc.Tiles = append(doc.Tiles, tiling.Tile{
			Label:  t.Item.Label,
			Group:  t.Item.Group,
			Weight: t.Weight,
			X:      t.X,
			Y:      t.Y,
			Width:  t.Width,
			Height: t.Height,
			Depth:  t.Depth,
			Branch: !t.Leaf,
		})
	}
	return doc
}

// computeStats fills the document-derived statistics.
func computeStats(doc *tiling.Tiling, stats *Stats) {
	stats.Depth = doc.MaxDepth()
	stats.WorstAspect = doc.WorstAspect()

	groups := make(map[string]struct{})
	var sumAspect float64
	var counted int
	for i := range doc.Tiles {
		t := &doc.Tiles[i]
		if t.Branch {
			continue
		}
		stats.Items++
		stats.TotalWeight += t.Weight
		if t.Group != "" {
			groups[t.Group] = struct{}{}
		}
		if a := t.Aspect(); a > 0 {
			sumAspect += a
			counted++
		}
	}
	stats.Groups = len(groups)
	if counted > 0 {
		stats.MeanAspect = sumAspect / float64(counted)
	}
}
