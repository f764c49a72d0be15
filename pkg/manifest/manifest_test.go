package manifest

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/treemap"
)

const demoTOML = `name = "demo"

[canvas]
width = 1024
height = 768

[[item]]
label = "core"
weight = 120.5
group = "backend"

[[item]]
label = "ui"

[[item.children]]
label = "widgets"
weight = 40.0

[[item.children]]
label = "themes"
weight = 12.0
`

const demoJSON = `{
  "name": "demo",
  "canvas": {"width": 1024, "height": 768},
  "item": [
    {"label": "core", "weight": 120.5, "group": "backend"},
    {"label": "ui", "children": [
      {"label": "widgets", "weight": 40},
      {"label": "themes", "weight": 12}
    ]}
  ]
}`

func checkDemo(t *testing.T, m *Manifest) {
	t.Helper()

	if m.Name != "demo" {
		t.Errorf("Name = %q, want %q", m.Name, "demo")
	}
	if m.Canvas == nil || m.Canvas.Width != 1024 || m.Canvas.Height != 768 {
		t.Errorf("Canvas = %+v, want 1024x768", m.Canvas)
	}
	if len(m.Entries) != 2 {
		t.Fatalf("Entries = %d, want 2", len(m.Entries))
	}

	core := m.Entries[0]
	if core.Label != "core" || core.Weight != 120.5 || core.Group != "backend" {
		t.Errorf("core = %+v", core)
	}
	if core.Branch() {
		t.Error("core should be a leaf")
	}

	ui := m.Entries[1]
	if !ui.Branch() || len(ui.Children) != 2 {
		t.Fatalf("ui = %+v, want branch with 2 children", ui)
	}
	if ui.Children[0].Label != "widgets" || ui.Children[0].Weight != 40 {
		t.Errorf("widgets = %+v", ui.Children[0])
	}
}

func TestParseTOML(t *testing.T) {
	m, err := Parse([]byte(demoTOML), FormatTOML)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	checkDemo(t, m)
}

func TestParseJSON(t *testing.T) {
	m, err := Parse([]byte(demoJSON), FormatJSON)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	checkDemo(t, m)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		format   Format
		wantCode apperrors.Code
	}{
		{"malformed toml", "label = ", FormatTOML, apperrors.ErrCodeParse},
		{"malformed json", "{", FormatJSON, apperrors.ErrCodeParse},
		{"unknown format", demoTOML, Format("yaml"), apperrors.ErrCodeInvalidFormat},
		{
			"branch with declared weight",
			"[[item]]\nlabel = \"x\"\nweight = 5.0\n\n[[item.children]]\nlabel = \"y\"\nweight = 2.0\n",
			FormatTOML,
			apperrors.ErrCodeInvalidManifest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			if !apperrors.Is(err, tt.wantCode) {
				t.Errorf("Parse() error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.toml")
	if err := os.WriteFile(path, []byte(demoTOML), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	checkDemo(t, m)
}

func TestLoadDetectsContent(t *testing.T) {
	// No extension, JSON content: Load should fall back to sniffing.
	dir := t.TempDir()
	path := filepath.Join(dir, "weights")
	if err := os.WriteFile(path, []byte(demoJSON), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	checkDemo(t, m)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		t.Errorf("Load() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"weights.toml", FormatTOML},
		{"weights.TOML", FormatTOML},
		{"weights.json", FormatJSON},
		{"/tmp/dir/weights.json", FormatJSON},
		{"weights.yaml", ""},
		{"weights", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := FormatFromPath(tt.path); got != tt.want {
				t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Format
	}{
		{"json object", `{"item": []}`, FormatJSON},
		{"json with leading whitespace", "\n\t {\"item\": []}", FormatJSON},
		{"toml", "name = \"x\"", FormatTOML},
		{"toml comment", "# weights\n", FormatTOML},
		{"empty", "", FormatTOML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect([]byte(tt.data)); got != tt.want {
				t.Errorf("Detect(%q) = %q, want %q", tt.data, got, tt.want)
			}
		})
	}
}

func validManifest() *Manifest {
	return &Manifest{
		Name: "demo",
		Entries: []Item{
			{Label: "core", Weight: 10},
			{Label: "ui", Children: []Item{
				{Label: "widgets", Weight: 4},
			}},
		},
	}
}

func TestManifest_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Manifest)
		wantCode apperrors.Code
	}{
		{
			name:   "valid",
			mutate: func(m *Manifest) {},
		},
		{
			name:   "zero weight allowed",
			mutate: func(m *Manifest) { m.Entries[0].Weight = 0 },
		},
		{
			name: "nested label may repeat top-level label",
			mutate: func(m *Manifest) {
				m.Entries[1].Children = append(m.Entries[1].Children, Item{Label: "core", Weight: 2})
			},
		},
		{
			name:     "empty label",
			mutate:   func(m *Manifest) { m.Entries[0].Label = "" },
			wantCode: apperrors.ErrCodeInvalidManifest,
		},
		{
			name:     "traversal label",
			mutate:   func(m *Manifest) { m.Entries[0].Label = "../etc" },
			wantCode: apperrors.ErrCodeInvalidManifest,
		},
		{
			name:     "negative weight",
			mutate:   func(m *Manifest) { m.Entries[0].Weight = -1 },
			wantCode: apperrors.ErrCodeInvalidWeight,
		},
		{
			name:     "nan weight",
			mutate:   func(m *Manifest) { m.Entries[0].Weight = math.NaN() },
			wantCode: apperrors.ErrCodeInvalidWeight,
		},
		{
			name:     "negative nested weight",
			mutate:   func(m *Manifest) { m.Entries[1].Children[0].Weight = -3 },
			wantCode: apperrors.ErrCodeInvalidWeight,
		},
		{
			name:     "branch with declared weight",
			mutate:   func(m *Manifest) { m.Entries[1].Weight = 5 },
			wantCode: apperrors.ErrCodeInvalidManifest,
		},
		{
			name: "duplicate top-level label",
			mutate: func(m *Manifest) {
				m.Entries = append(m.Entries, Item{Label: "core", Weight: 1})
			},
			wantCode: apperrors.ErrCodeInvalidManifest,
		},
		{
			name:     "zero canvas width",
			mutate:   func(m *Manifest) { m.Canvas = &Canvas{Width: 0, Height: 600} },
			wantCode: apperrors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validManifest()
			tt.mutate(m)

			err := m.Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !apperrors.Is(err, tt.wantCode) {
				t.Errorf("Validate() error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestManifest_Items(t *testing.T) {
	m, err := Parse([]byte(demoTOML), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}

	items := m.Items()
	want := []string{"core", "widgets", "themes"}
	if len(items) != len(want) {
		t.Fatalf("Items() = %d items, want %d", len(items), len(want))
	}
	for i, label := range want {
		if items[i].Label != label {
			t.Errorf("Items()[%d].Label = %q, want %q", i, items[i].Label, label)
		}
	}
}

func TestManifest_Tree(t *testing.T) {
	m, err := Parse([]byte(demoTOML), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}

	root := m.Tree()
	if root.Item.Label != "demo" {
		t.Errorf("root label = %q, want %q", root.Item.Label, "demo")
	}
	if len(root.Children) != 2 {
		t.Fatalf("root has %d children, want 2", len(root.Children))
	}
	if w := root.EffectiveWeight(); w != 172.5 {
		t.Errorf("EffectiveWeight() = %v, want 172.5", w)
	}

	tiles, err := treemap.LayoutTree(root, treemap.Rect{Width: 100, Height: 100})
	if err != nil {
		t.Fatalf("LayoutTree() error: %v", err)
	}
	// core, ui, and ui's two children
	if len(tiles) != 4 {
		t.Fatalf("LayoutTree() = %d tiles, want 4", len(tiles))
	}

	var leafArea float64
	for _, tile := range tiles {
		if tile.Leaf {
			leafArea += tile.Area()
		}
	}
	if math.Abs(leafArea-10000) > 1e-6 {
		t.Errorf("leaf area = %v, want 10000", leafArea)
	}
}

func TestManifest_TreeEmpty(t *testing.T) {
	m := &Manifest{Name: "empty"}

	tiles, err := treemap.LayoutTree(m.Tree(), treemap.Rect{Width: 100, Height: 100})
	if err != nil {
		t.Fatalf("LayoutTree() error: %v", err)
	}
	if len(tiles) != 0 {
		t.Errorf("LayoutTree() = %d tiles, want 0", len(tiles))
	}
}
