// Package scan builds weighted trees from directory contents, so a treemap
// can visualize disk usage. File sizes become leaf weights; directories
// derive their weight from what they contain.
package scan

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/treemap"
)

// Entry describes one scanned file or directory.
type Entry struct {
	Path string // Full path from the scan root
	Name string // Base name
	Size int64  // File size in bytes; for directories, the total size beneath
	Dir  bool   // Whether the entry is a directory
}

// otherLabel names the synthetic per-directory leaf that collects files
// below the WithMinSize threshold.
const otherLabel = "other"

type options struct {
	maxDepth       int
	minSize        int64
	followSymlinks bool
	skip           func(path string) bool
}

// Option configures a scan.
type Option func(*options)

// WithMaxDepth limits the tree to n levels below the root. Directories at
// the limit are collapsed into leaves carrying their total size. Zero means
// no limit.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		o.maxDepth = n
	}
}

// WithMinSize folds files smaller than bytes into one synthetic "other"
// leaf per directory, keeping tiny files from cluttering the layout.
func WithMinSize(bytes int64) Option {
	return func(o *options) {
		o.minSize = bytes
	}
}

// WithFollowSymlinks resolves symbolic links instead of skipping them.
// Linked directories are descended at most once, so link cycles terminate.
func WithFollowSymlinks(follow bool) Option {
	return func(o *options) {
		o.followSymlinks = follow
	}
}

// WithSkip replaces the default skip rule (hidden entries, names starting
// with a dot). The predicate receives the full path; returning true drops
// the entry and everything beneath it.
func WithSkip(skip func(path string) bool) Option {
	return func(o *options) {
		if skip != nil {
			o.skip = skip
		}
	}
}

func defaultSkip(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// Scan walks the directory at root and returns it as a weighted tree ready
// for [treemap.LayoutTree]. Children appear in name order. Unreadable
// subdirectories and unstatable files are skipped rather than failing the
// whole scan; the root itself must exist and be a directory.
//
// Cancellation is checked between directory reads, so a cancelled context
// stops the walk promptly.
func Scan(ctx context.Context, root string, opts ...Option) (*treemap.Node[Entry], error) {
	cfg := options{skip: defaultSkip}
	for _, opt := range opts {
		opt(&cfg)
	}

	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "scan root %s", root)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeIO, err, "stat scan root %s", root)
	}
	if !info.IsDir() {
		return nil, apperrors.New(apperrors.ErrCodeInvalidPath, "scan root %s is not a directory", root)
	}

	s := &scanner{opts: cfg}
	if cfg.followSymlinks {
		s.visited = make(map[string]bool)
		if resolved, err := filepath.EvalSymlinks(root); err == nil {
			s.visited[resolved] = true
		}
	}

	children, total, err := s.scanDir(ctx, root, 1)
	if err != nil {
		return nil, err
	}
	return &treemap.Node[Entry]{
		Item:     Entry{Path: root, Name: filepath.Base(root), Size: total, Dir: true},
		Children: children,
	}, nil
}

// Flatten returns the leaf entries beneath root in tree order: files,
// synthetic "other" buckets, and collapsed or empty directories. The root
// itself is never included.
func Flatten(root *treemap.Node[Entry]) []Entry {
	if root == nil {
		return nil
	}
	var entries []Entry
	var walk func(*treemap.Node[Entry])
	walk = func(n *treemap.Node[Entry]) {
		if n.Leaf() {
			entries = append(entries, n.Item)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, c := range root.Children {
		walk(c)
	}
	return entries
}

type scanner struct {
	opts    options
	visited map[string]bool // resolved dir paths, only when following links
}

func (s *scanner) scanDir(ctx context.Context, dir string, depth int) ([]*treemap.Node[Entry], int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, nil
	}

	var nodes []*treemap.Node[Entry]
	var total, small int64
	smallCount := 0

	for _, de := range dirents {
		full := filepath.Join(dir, de.Name())
		if s.opts.skip(full) {
			continue
		}

		isDir := de.IsDir()
		var size int64
		switch {
		case de.Type()&os.ModeSymlink != 0:
			if !s.opts.followSymlinks {
				continue
			}
			info, err := os.Stat(full)
			if err != nil {
				continue
			}
			isDir = info.IsDir()
			size = info.Size()
			if isDir && s.seen(full) {
				continue
			}
		case !isDir:
			info, err := de.Info()
			if err != nil {
				continue
			}
			size = info.Size()
		}

		if isDir {
			sub, subTotal, err := s.scanDir(ctx, full, depth+1)
			if err != nil {
				return nil, 0, err
			}
			node := &treemap.Node[Entry]{
				Item: Entry{Path: full, Name: de.Name(), Size: subTotal, Dir: true},
			}
			if s.opts.maxDepth > 0 && depth >= s.opts.maxDepth {
				node.Weight = float64(subTotal)
			} else {
				node.Children = sub
			}
			nodes = append(nodes, node)
			total += subTotal
			continue
		}

		if s.opts.minSize > 0 && size < s.opts.minSize {
			small += size
			smallCount++
			total += size
			continue
		}

		nodes = append(nodes, &treemap.Node[Entry]{
			Item:   Entry{Path: full, Name: de.Name(), Size: size},
			Weight: float64(size),
		})
		total += size
	}

	if smallCount > 0 {
		nodes = append(nodes, &treemap.Node[Entry]{
			Item:   Entry{Path: filepath.Join(dir, otherLabel), Name: otherLabel, Size: small},
			Weight: float64(small),
		})
	}

	return nodes, total, nil
}

// seen records the resolved path of a linked directory and reports whether
// it was already visited.
func (s *scanner) seen(path string) bool {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return true
	}
	if s.visited[resolved] {
		return true
	}
	s.visited[resolved] = true
	return false
}
