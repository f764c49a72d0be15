package treemap

import "math"

// Node is one element of a weighted tree for hierarchical layouts.
// A leaf carries its own Weight; a branch's weight is derived from its
// children (see [Node.EffectiveWeight]), and any Weight set on a branch is
// ignored. Child pointers must be non-nil.
type Node[T any] struct {
	Item     T
	Weight   float64
	Children []*Node[T]
}

// Leaf reports whether the node has no children.
func (n *Node[T]) Leaf() bool { return len(n.Children) == 0 }

// EffectiveWeight returns the weight the layout uses for the node: the
// node's own Weight for a leaf, or the sum of the children's effective
// weights for a branch.
func (n *Node[T]) EffectiveWeight() float64 {
	if n.Leaf() {
		return n.Weight
	}
	var sum float64
	for _, c := range n.Children {
		sum += c.EffectiveWeight()
	}
	return sum
}

// TreeTile is one placed node of a hierarchical layout. Depth counts
// nesting levels starting at 0 for the tiles directly inside the canvas.
// Branch tiles precede their children in the output (paint order). Weight
// is the effective weight the layout used for the node, so branch tiles
// report the sum over their leaves.
type TreeTile[T any] struct {
	Tile[T]
	Weight float64
	Depth  int
	Leaf   bool
}

// TreeOption configures [LayoutTree].
type TreeOption func(*treeConfig)

type treeConfig struct {
	padding  float64
	maxDepth int
	minTileW float64
	minTileH float64
}

// WithPadding reserves the given amount of space on every side of a branch
// tile (and of the canvas itself) before laying out its children, leaving
// a visible frame around nested levels. Padding that exceeds a tile's size
// collapses the interior and stops the descent there.
func WithPadding(p float64) TreeOption {
	return func(c *treeConfig) { c.padding = p }
}

// WithMaxDepth limits how many nesting levels are laid out. A branch at
// depth limit-1 is emitted but not descended into. Zero or negative means
// no limit.
func WithMaxDepth(limit int) TreeOption {
	return func(c *treeConfig) { c.maxDepth = limit }
}

// WithMinTileSize stops descending into branch tiles narrower than width
// or shorter than height. The branch tile itself is still emitted, so
// small regions stay visible without producing sub-pixel noise inside.
func WithMinTileSize(width, height float64) TreeOption {
	return func(c *treeConfig) { c.minTileW = width; c.minTileH = height }
}

// LayoutTree lays out a weighted tree: root's children partition the
// canvas, and every branch tile is recursively partitioned among its own
// children. The root itself represents the canvas and is not emitted; a
// root without children is laid out as a single leaf tile spanning the
// whole canvas.
//
// Within one level the flat [Layout] rules apply unchanged (descending
// weight order, area proportionality, zero-weight nodes get zero-area
// tiles). Zero-area branch tiles are not descended into.
//
// LayoutTree fails with [ErrInvalidCanvas] or, if any leaf anywhere in the
// tree has a negative or NaN weight, [ErrNegativeWeight]. A nil root or a
// tree with no visible weight yields an empty layout and a nil error.
func LayoutTree[T any](root *Node[T], canvas Rect, opts ...TreeOption) ([]TreeTile[T], error) {
	if err := validateCanvas(canvas); err != nil {
		return nil, err
	}
	if root == nil {
		return nil, nil
	}
	if err := checkTreeWeights(root); err != nil {
		return nil, err
	}
	if root.EffectiveWeight() <= 0 {
		return nil, nil
	}

	var cfg treeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	nodes := root.Children
	if root.Leaf() {
		nodes = []*Node[T]{root}
	}

	var tiles []TreeTile[T]
	err := layoutLevel(&tiles, nodes, canvas.Inset(cfg.padding, cfg.padding, cfg.padding, cfg.padding), 0, cfg)
	if err != nil {
		return nil, err
	}
	return tiles, nil
}

// layoutLevel places one sibling group inside canvas and recurses into the
// branches. The canvas passed here is already inset by the padding.
func layoutLevel[T any](dst *[]TreeTile[T], nodes []*Node[T], canvas Rect, depth int, cfg treeConfig) error {
	if len(nodes) == 0 || canvas.Width <= 0 || canvas.Height <= 0 {
		return nil
	}
	if cfg.maxDepth > 0 && depth >= cfg.maxDepth {
		return nil
	}

	weight := func(n *Node[T]) float64 { return n.EffectiveWeight() }
	tiles, err := Layout(nodes, weight, canvas)
	if err != nil {
		return err
	}

	for _, tile := range tiles {
		node := tile.Item
		*dst = append(*dst, TreeTile[T]{
			Tile:   Tile[T]{Item: node.Item, Rect: tile.Rect},
			Weight: node.EffectiveWeight(),
			Depth:  depth,
			Leaf:   node.Leaf(),
		})

		if node.Leaf() || tile.Area() <= 0 {
			continue
		}
		if tile.Width < cfg.minTileW || tile.Height < cfg.minTileH {
			continue
		}
		inner := tile.Inset(cfg.padding, cfg.padding, cfg.padding, cfg.padding)
		if err := layoutLevel(dst, node.Children, inner, depth+1, cfg); err != nil {
			return err
		}
	}
	return nil
}

// checkTreeWeights rejects negative and NaN leaf weights anywhere in the
// tree before any geometry is produced, keeping LayoutTree all-or-nothing.
func checkTreeWeights[T any](n *Node[T]) error {
	if n.Leaf() {
		if n.Weight < 0 || math.IsNaN(n.Weight) {
			return ErrNegativeWeight
		}
		return nil
	}
	for _, c := range n.Children {
		if err := checkTreeWeights(c); err != nil {
			return err
		}
	}
	return nil
}
