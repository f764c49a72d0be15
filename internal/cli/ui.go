package cli

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/mosaic/pkg/pipeline"
	"github.com/matzehuels/mosaic/pkg/tiling"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}

// =============================================================================
// Stats Display
// =============================================================================

// printLayoutStats prints layout statistics on a single line.
func printLayoutStats(stats pipeline.Stats, cached bool) {
	parts := []string{fmt.Sprintf("%d tiles", stats.Items)}
	if stats.Groups > 0 {
		parts = append(parts, fmt.Sprintf("%d groups", stats.Groups))
	}
	if stats.Depth > 0 {
		parts = append(parts, fmt.Sprintf("depth %d", stats.Depth))
	}
	if stats.WorstAspect > 0 {
		parts = append(parts, fmt.Sprintf("worst aspect %.2f", stats.WorstAspect))
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}
	parts = append(parts, statusStyle.Render(status))

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Println(line)
}

// =============================================================================
// Tile Table
// =============================================================================

// printTileTable renders the leaf tiles of a document as a table, heaviest
// first. top limits the row count when positive. With humanBytes, weights
// are formatted as byte sizes.
func printTileTable(doc *tiling.Tiling, top int, humanBytes bool) {
	var leaves []tiling.Tile
	var total float64
	for _, tl := range doc.Tiles {
		if tl.Branch {
			continue
		}
		leaves = append(leaves, tl)
		total += tl.Weight
	}
	if len(leaves) == 0 {
		printWarning("No tiles to display")
		return
	}

	sort.SliceStable(leaves, func(i, j int) bool { return leaves[i].Weight > leaves[j].Weight })
	if top > 0 && top < len(leaves) {
		leaves = leaves[:top]
	}

	weight := func(w float64) string { return fmt.Sprintf("%g", w) }
	if humanBytes {
		weight = func(w float64) string { return humanSize(w) }
	}

	rows := make([][]string, 0, len(leaves))
	for i := range leaves {
		tl := &leaves[i]
		share := ""
		if total > 0 {
			share = fmt.Sprintf("%.1f%%", 100*tl.Weight/total)
		}
		rows = append(rows, []string{
			tl.Label,
			tl.Group,
			weight(tl.Weight),
			share,
			fmt.Sprintf("%.1f", tl.X),
			fmt.Sprintf("%.1f", tl.Y),
			fmt.Sprintf("%.1f", tl.Width),
			fmt.Sprintf("%.1f", tl.Height),
			formatAspect(tl.Aspect()),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Label", "Group", "Weight", "Share", "X", "Y", "W", "H", "Aspect").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			switch col {
			case 0:
				return StyleValue
			case 2, 3:
				return StyleNumber
			default:
				return StyleDim
			}
		})

	fmt.Println(t.Render())
}

// formatAspect renders an aspect ratio, or "-" for zero-area tiles.
func formatAspect(a float64) string {
	if a == 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f", a)
}

// =============================================================================
// Utilities
// =============================================================================

// humanSize formats a byte count using SI units, e.g. "1.5 MB".
func humanSize(bytes float64) string {
	if bytes > -1000 && bytes < 1000 {
		return fmt.Sprintf("%.0f B", bytes)
	}
	units := "kMGTPE"
	i := 0
	for (bytes <= -999950 || bytes >= 999950) && i < len(units)-1 {
		bytes /= 1000
		i++
	}
	return fmt.Sprintf("%.1f %cB", bytes/1000, units[i])
}
