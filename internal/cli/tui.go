package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	apperrors "github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/manifest"
)

// =============================================================================
// Manifest Picker - Interactive source selection
// =============================================================================

// manifestEntry is one selectable file in the picker.
type manifestEntry struct {
	Name    string
	Format  manifest.Format
	Size    int64
	ModTime time.Time
}

// listManifests returns the manifest files (*.toml, *.json) in dir,
// newest first. Hidden files are skipped.
func listManifests(dir string) ([]manifestEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeIO, err, "read directory %s", dir)
	}

	var files []manifestEntry
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		format := manifest.FormatFromPath(e.Name())
		if format == "" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, manifestEntry{
			Name:    e.Name(),
			Format:  format,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].ModTime.After(files[j].ModTime) })
	return files, nil
}

// pickManifest lets the user choose a manifest file from dir when the
// layout command is run without arguments. It returns the empty string
// when the user quits without selecting.
func (c *CLI) pickManifest(dir string) (string, error) {
	files, err := listManifests(dir)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", apperrors.New(apperrors.ErrCodeNotFound, "no manifest files (*.toml, *.json) in %s", dir)
	}
	if len(files) == 1 {
		printInfo("Using %s", files[0].Name)
		return filepath.Join(dir, files[0].Name), nil
	}
	if !isTerminal(os.Stdin) {
		return "", apperrors.New(apperrors.ErrCodeInvalidInput, "no source given (pass a manifest path, URL, or directory)")
	}

	final, err := tea.NewProgram(newPickerModel(files)).Run()
	if err != nil {
		return "", fmt.Errorf("run picker: %w", err)
	}
	picked := final.(pickerModel)
	if picked.selected == "" {
		return "", nil
	}
	return filepath.Join(dir, picked.selected), nil
}

// pickerModel is the bubbletea model behind the manifest picker.
type pickerModel struct {
	files    []manifestEntry
	cursor   int
	selected string
	height   int
	offset   int
}

// newPickerModel creates a picker over the given files.
func newPickerModel(files []manifestEntry) pickerModel {
	return pickerModel{files: files, height: 15}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.files)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			m.selected = m.files[m.cursor].Name
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Manifest"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("up/down navigate  enter select  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.files) {
		end = len(m.files)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		f := m.files[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		rows = append(rows, []string{
			cursor,
			f.Name,
			string(f.Format),
			humanSize(float64(f.Size)),
			formatRelativeTime(f.ModTime),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "File", "Format", "Size", "Modified").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.offset+row == m.cursor {
				return StyleSuccess.Bold(true)
			}
			if col >= 2 {
				return StyleDim
			}
			return StyleValue
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.files))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// formatRelativeTime renders recent timestamps relative to now, falling
// back to a date for anything older than a week.
func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
