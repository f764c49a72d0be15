package manifest

import (
	"github.com/matzehuels/mosaic/pkg/treemap"
)

// Format identifies a manifest encoding.
type Format string

// Supported manifest encodings.
const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// Item is one weighted entry in a manifest. An item with children is a
// branch: its weight is derived from the children and must not be declared.
type Item struct {
	Label    string  `toml:"label" json:"label"`
	Weight   float64 `toml:"weight" json:"weight,omitempty"`
	Group    string  `toml:"group" json:"group,omitempty"`
	Children []Item  `toml:"children" json:"children,omitempty"`
}

// Branch reports whether the item derives its weight from children.
func (i Item) Branch() bool { return len(i.Children) > 0 }

// Canvas overrides the layout canvas size for a manifest.
type Canvas struct {
	Width  float64 `toml:"width" json:"width"`
	Height float64 `toml:"height" json:"height"`
}

// Manifest is a parsed weight manifest: named entries to lay out, with an
// optional canvas override.
//
// Zero values: an empty Entries slice is valid and lays out to an empty
// tiling. Name and Canvas are optional.
type Manifest struct {
	Name    string  `toml:"name" json:"name,omitempty"`
	Canvas  *Canvas `toml:"canvas" json:"canvas,omitempty"`
	Entries []Item  `toml:"item" json:"item"`
}

// Items returns the leaf items in document order. Branches contribute their
// descendant leaves, not themselves; use [Manifest.Tree] to keep hierarchy.
func (m *Manifest) Items() []Item {
	var items []Item
	var walk func([]Item)
	walk = func(entries []Item) {
		for _, it := range entries {
			if it.Branch() {
				walk(it.Children)
				continue
			}
			items = append(items, it)
		}
	}
	walk(m.Entries)
	return items
}

// Tree builds the weighted hierarchy for layout. The returned root is a
// synthetic branch carrying the manifest name; [treemap.LayoutTree] lays
// out its children and never emits the root itself.
func (m *Manifest) Tree() *treemap.Node[Item] {
	return &treemap.Node[Item]{
		Item:     Item{Label: m.Name},
		Children: buildNodes(m.Entries),
	}
}

func buildNodes(items []Item) []*treemap.Node[Item] {
	nodes := make([]*treemap.Node[Item], 0, len(items))
	for _, it := range items {
		n := &treemap.Node[Item]{Item: it, Weight: it.Weight}
		if it.Branch() {
			n.Children = buildNodes(it.Children)
		}
		nodes = append(nodes, n)
	}
	return nodes
}
