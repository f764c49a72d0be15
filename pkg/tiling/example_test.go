package tiling_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/mosaic/pkg/tiling"
)

func ExampleWrite() {
	// A computed layout: two tiles partitioning a 100x60 canvas
	tl := &tiling.Tiling{
		Name:   "demo",
		Canvas: tiling.Canvas{Width: 100, Height: 60},
		Tiles: []tiling.Tile{
			{Label: "core", Weight: 6, X: 0, Y: 0, Width: 60, Height: 60},
			{Label: "util", Weight: 4, X: 60, Y: 0, Width: 40, Height: 60},
		},
		Meta: &tiling.Meta{
			ID:          "3052fa46-2068-4e1a-962f-0c0a4a3637fe",
			GeneratedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			Generator:   "mosaic",
			Version:     "1.2.0",
		},
	}

	// Write to a buffer (or any io.Writer)
	var buf bytes.Buffer
	if err := tiling.Write(tl, &buf); err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println(buf.String())
	// Output:
	// {
	//   "name": "demo",
	//   "canvas": {
	//     "width": 100,
	//     "height": 60
	//   },
	//   "tiles": [
	//     {
	//       "label": "core",
	//       "weight": 6,
	//       "x": 0,
	//       "y": 0,
	//       "width": 60,
	//       "height": 60
	//     },
	//     {
	//       "label": "util",
	//       "weight": 4,
	//       "x": 60,
	//       "y": 0,
	//       "width": 40,
	//       "height": 60
	//     }
	//   ],
	//   "meta": {
	//     "id": "3052fa46-2068-4e1a-962f-0c0a4a3637fe",
	//     "generated_at": "2024-03-01T12:00:00Z",
	//     "generator": "mosaic",
	//     "version": "1.2.0"
	//   }
	// }
}

func ExampleRead() {
	// JSON input as produced by the layout pipeline
	jsonData := `{
		"canvas": {"width": 100, "height": 60},
		"tiles": [
			{"label": "core", "weight": 6, "x": 0, "y": 0, "width": 60, "height": 60},
			{"label": "util", "weight": 4, "x": 60, "y": 0, "width": 40, "height": 60}
		]
	}`

	tl, err := tiling.Read(bytes.NewReader([]byte(jsonData)))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println("Tiles:", tl.Leaves())
	fmt.Println("Worst aspect:", tl.WorstAspect())
	fmt.Println("Covered area:", tl.CoveredArea())
	// Output:
	// Tiles: 2
	// Worst aspect: 1.5
	// Covered area: 6000
}

func ExampleWriteFile() {
	tl := &tiling.Tiling{
		Canvas: tiling.Canvas{Width: 800, Height: 600},
		Tiles: []tiling.Tile{
			{Label: "app", Weight: 1, Width: 800, Height: 600},
		},
	}

	// Export to a file
	tmpDir := os.TempDir()
	path := filepath.Join(tmpDir, "exported-layout.json")
	defer os.Remove(path)

	if err := tiling.WriteFile(tl, path); err != nil {
		fmt.Println("Error:", err)
		return
	}

	// Verify the file was created
	if _, err := os.Stat(path); err == nil {
		fmt.Println("Layout exported successfully")
	}
	// Output:
	// Layout exported successfully
}
