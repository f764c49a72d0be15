package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	apperrors "github.com/matzehuels/mosaic/pkg/errors"
)

// FormatFromPath maps a file extension to a [Format]. Unknown extensions
// return an empty Format; use [Detect] on the content as a fallback.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".json":
		return FormatJSON
	}
	return ""
}

// Detect guesses the encoding from content. Documents whose first
// non-whitespace byte is '{' are JSON; everything else is treated as TOML.
func Detect(data []byte) Format {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
		case '{':
			return FormatJSON
		default:
			return FormatTOML
		}
	}
	return FormatTOML
}

// Load reads and parses the manifest at path. The format is picked by file
// extension, falling back to [Detect] on the content.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "manifest %s", path)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeIO, err, "read manifest %s", path)
	}
	format := FormatFromPath(path)
	if format == "" {
		format = Detect(data)
	}
	return Parse(data, format)
}

// Parse decodes data in the given format and validates the result.
func Parse(data []byte, format Format) (*Manifest, error) {
	var m Manifest
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeParse, err, "parse TOML manifest")
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeParse, err, "parse JSON manifest")
		}
	default:
		return nil, apperrors.ValidateFormat(string(format), string(FormatTOML), string(FormatJSON))
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the structural rules: labels are present and well formed,
// leaf weights are non-negative and finite, branches do not declare weights,
// top-level labels are unique, and a canvas override (if any) has positive
// dimensions.
func (m *Manifest) Validate() error {
	if m == nil {
		return apperrors.New(apperrors.ErrCodeInvalidManifest, "manifest is nil")
	}
	if m.Canvas != nil {
		if err := apperrors.RequirePositive("canvas.width", m.Canvas.Width); err != nil {
			return err
		}
		if err := apperrors.RequirePositive("canvas.height", m.Canvas.Height); err != nil {
			return err
		}
	}

	if err := validateItems(m.Entries, ""); err != nil {
		return err
	}

	seen := make(map[string]bool, len(m.Entries))
	for _, it := range m.Entries {
		if seen[it.Label] {
			return apperrors.New(apperrors.ErrCodeInvalidManifest, "duplicate item %q", it.Label)
		}
		seen[it.Label] = true
	}
	return nil
}

func validateItems(items []Item, parent string) error {
	for _, it := range items {
		name := it.Label
		if parent != "" {
			name = parent + "/" + it.Label
		}

		if err := apperrors.ValidateLabel(it.Label); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidManifest, err, "item %q", name)
		}

		if it.Branch() {
			if it.Weight != 0 {
				return apperrors.New(apperrors.ErrCodeInvalidManifest, "item %q has children and cannot declare weight %v", name, it.Weight)
			}
			if err := validateItems(it.Children, name); err != nil {
				return err
			}
			continue
		}

		if err := apperrors.RequireNonNegative("weight", it.Weight); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidWeight, err, "item %q", name)
		}
	}
	return nil
}
