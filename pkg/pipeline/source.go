package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/mosaic/pkg/cache"
	apperrors "github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/manifest"
	"github.com/matzehuels/mosaic/pkg/observability"
	"github.com/matzehuels/mosaic/pkg/scan"
	"github.com/matzehuels/mosaic/pkg/tiling"
	"github.com/matzehuels/mosaic/pkg/treemap"
)

// Source kind constants, reported by [ClassifySource] and the source hooks.
const (
	SourceManifest = "manifest"
	SourceURL      = "url"
	SourceDir      = "dir"
)

// ClassifySource reports how a source string will be acquired: URLs are
// fetched, directories are scanned, and everything else is read as a
// manifest file.
func ClassifySource(src string) (string, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return SourceURL, nil
	}
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperrors.New(apperrors.ErrCodeFileNotFound, "source %s does not exist", src)
		}
		return "", apperrors.Wrap(apperrors.ErrCodeIO, err, "stat %s", src)
	}
	if info.IsDir() {
		return SourceDir, nil
	}
	return SourceManifest, nil
}

// tileItem is the unified payload the layout stage works on. Manifest items
// and scanned directory entries are both converted to this shape.
type tileItem struct {
	Label string `json:"label"`
	Group string `json:"group,omitempty"`
}

// source carries everything the layout stage needs from input acquisition.
type source struct {
	kind   string
	name   string                  // document name
	hash   string                  // content hash for cache keys
	canvas *tiling.Canvas          // canvas declared by the source, if any
	root   *treemap.Node[tileItem] // weighted tree ready for layout
	items  int                     // leaf count
}

// loadSource classifies and acquires the input behind opts.Source.
func (r *Runner) loadSource(ctx context.Context, opts Options) (*source, error) {
	kind, err := ClassifySource(opts.Source)
	if err != nil {
		return nil, err
	}

	observability.Pipeline().OnSourceStart(ctx, kind, opts.Source)
	start := time.Now()

	var src *source
	switch kind {
	case SourceURL:
		src, err = r.loadURL(ctx, opts)
	case SourceDir:
		src, err = loadDir(ctx, opts)
	default:
		src, err = loadManifestFile(opts)
	}

	var items int
	if src != nil {
		items = src.items
	}
	observability.Pipeline().OnSourceComplete(ctx, kind, opts.Source, items, time.Since(start), err)
	return src, err
}

// loadManifestFile reads a manifest from the local filesystem.
func loadManifestFile(opts Options) (*source, error) {
	m, err := manifest.Load(opts.Source)
	if err != nil {
		return nil, err
	}
	return manifestSource(m, SourceManifest, opts)
}

// loadURL fetches a manifest over HTTP. The format is picked from the URL
// path extension, falling back to content sniffing.
func (r *Runner) loadURL(ctx context.Context, opts Options) (*source, error) {
	data, err := r.Client.Get(ctx, opts.Source, opts.Refresh)
	if err != nil {
		return nil, err
	}
	format := manifest.FormatFromPath(opts.Source)
	if format == "" {
		format = manifest.Detect(data)
	}
	m, err := manifest.Parse(data, format)
	if err != nil {
		return nil, err
	}
	return manifestSource(m, SourceURL, opts)
}

// manifestSource converts a parsed manifest into a layout source. The hash
// covers the canonical JSON form with the resolved name, so formatting-only
// edits to a TOML file reuse cached documents while renames do not.
func manifestSource(m *manifest.Manifest, kind string, opts Options) (*source, error) {
	name := m.Name
	if name == "" && opts.Source != "" {
		name = nameFromPath(opts.Source)
	}

	named := *m
	named.Name = name
	data, err := json.Marshal(&named)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "hash manifest")
	}

	var root *treemap.Node[tileItem]
	if opts.Flat {
		root = flatManifestRoot(m, name)
	} else {
		root = &treemap.Node[tileItem]{Item: tileItem{Label: name}}
		for _, it := range m.Entries {
			root.Children = append(root.Children, manifestNode(it, ""))
		}
	}

	var canvas *tiling.Canvas
	if m.Canvas != nil {
		canvas = &tiling.Canvas{Width: m.Canvas.Width, Height: m.Canvas.Height}
	}

	return &source{
		kind:   kind,
		name:   name,
		hash:   cache.Hash(data),
		canvas: canvas,
		root:   root,
		items:  countLeaves(root),
	}, nil
}

// manifestNode converts one manifest item. Items without an explicit group
// inherit the label of their enclosing item, so grouped rendering works the
// same in tree and flat mode.
func manifestNode(it manifest.Item, parent string) *treemap.Node[tileItem] {
	group := it.Group
	if group == "" {
		group = parent
	}
	node := &treemap.Node[tileItem]{
		Item:   tileItem{Label: it.Label, Group: group},
		Weight: it.Weight,
	}
	for _, c := range it.Children {
		node.Children = append(node.Children, manifestNode(c, it.Label))
	}
	return node
}

// flatManifestRoot flattens a manifest into a single level of leaves.
func flatManifestRoot(m *manifest.Manifest, name string) *treemap.Node[tileItem] {
	root := &treemap.Node[tileItem]{Item: tileItem{Label: name}}
	var walk func(items []manifest.Item, parent string)
	walk = func(items []manifest.Item, parent string) {
		for _, it := range items {
			if it.Branch() {
				walk(it.Children, it.Label)
				continue
			}
			group := it.Group
			if group == "" {
				group = parent
			}
			root.Children = append(root.Children, &treemap.Node[tileItem]{
				Item:   tileItem{Label: it.Label, Group: group},
				Weight: it.Weight,
			})
		}
	}
	walk(m.Entries, "")
	return root
}

// loadDir scans a directory tree into a layout source.
func loadDir(ctx context.Context, opts Options) (*source, error) {
	var scanOpts []scan.Option
	if opts.MaxDepth > 0 {
		scanOpts = append(scanOpts, scan.WithMaxDepth(opts.MaxDepth))
	}
	if opts.MinSize > 0 {
		scanOpts = append(scanOpts, scan.WithMinSize(opts.MinSize))
	}
	if opts.FollowLinks {
		scanOpts = append(scanOpts, scan.WithFollowSymlinks(true))
	}

	tree, err := scan.Scan(ctx, opts.Source, scanOpts...)
	if err != nil {
		return nil, err
	}

	var root *treemap.Node[tileItem]
	if opts.Flat {
		root = flatScanRoot(tree)
	} else {
		root = scanNode(tree, tree.Item.Path, "")
	}

	data, err := json.Marshal(root)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "hash scan tree")
	}

	return &source{
		kind:  SourceDir,
		name:  tree.Item.Name,
		hash:  cache.Hash(data),
		root:  root,
		items: countLeaves(root),
	}, nil
}

// scanNode converts one scanned entry; group is the entry's directory
// relative to the scan root.
func scanNode(n *treemap.Node[scan.Entry], base, group string) *treemap.Node[tileItem] {
	node := &treemap.Node[tileItem]{
		Item:   tileItem{Label: n.Item.Name, Group: group},
		Weight: n.Weight,
	}
	if n.Leaf() {
		return node
	}
	childGroup := relGroup(base, n.Item.Path)
	node.Children = make([]*treemap.Node[tileItem], 0, len(n.Children))
	for _, c := range n.Children {
		node.Children = append(node.Children, scanNode(c, base, childGroup))
	}
	return node
}

// flatScanRoot flattens a scanned tree into a single level of leaves,
// grouped by directory relative to the scan root.
func flatScanRoot(tree *treemap.Node[scan.Entry]) *treemap.Node[tileItem] {
	base := tree.Item.Path
	root := &treemap.Node[tileItem]{Item: tileItem{Label: tree.Item.Name}}
	for _, e := range scan.Flatten(tree) {
		root.Children = append(root.Children, &treemap.Node[tileItem]{
			Item:   tileItem{Label: e.Name, Group: relGroup(base, filepath.Dir(e.Path))},
			Weight: float64(e.Size),
		})
	}
	return root
}

// relGroup returns dir relative to the scan root in slash form, or "" for
// the root itself.
func relGroup(base, dir string) string {
	rel, err := filepath.Rel(base, dir)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

// countLeaves counts the items a layout of the tree would place. The
// synthetic root itself is not an item.
func countLeaves(n *treemap.Node[tileItem]) int {
	if n == nil || n.Leaf() {
		return 0
	}
	var total int
	for _, c := range n.Children {
		if c.Leaf() {
			total++
			continue
		}
		total += countLeaves(c)
	}
	return total
}

// nameFromPath derives a document name from the last path element.
func nameFromPath(p string) string {
	base := filepath.Base(strings.TrimSuffix(p, "/"))
	// URLs keep their path separator regardless of OS
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
