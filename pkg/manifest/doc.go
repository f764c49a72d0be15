// Package manifest reads weighted-item manifests for treemap layouts.
//
// # Format
//
// A manifest lists the items to lay out, in TOML or JSON. The TOML form:
//
//	name = "my-project"
//
//	[canvas]
//	width = 1024
//	height = 768
//
//	[[item]]
//	label = "core"
//	weight = 120.5
//	group = "backend"
//
//	[[item]]
//	label = "ui"
//
//	[[item.children]]
//	label = "widgets"
//	weight = 40
//
//	[[item.children]]
//	label = "themes"
//	weight = 12
//
// The JSON form mirrors the same keys ("name", "canvas", "item"). The
// canvas table is optional and overrides the default layout size. An item
// with children is a branch: its weight is the sum of its children and
// must not be declared.
//
// # Reading
//
// [Load] reads a file and picks the encoding by extension (.toml, .json),
// falling back to content sniffing via [Detect]. [Parse] decodes a byte
// slice directly. Both validate the document before returning it.
//
// # Views
//
// [Manifest.Items] flattens the hierarchy into its leaves for single-level
// layouts. [Manifest.Tree] produces a [treemap.Node] hierarchy for nested
// layouts.
//
// # Validation
//
// [Manifest.Validate] enforces non-empty well-formed labels, non-negative
// finite leaf weights, no declared weights on branches, unique top-level
// labels, and positive canvas dimensions. Errors carry codes from the
// errors package (PARSE_ERROR for malformed documents, INVALID_MANIFEST
// and INVALID_WEIGHT for rule violations).
package manifest
