package schema

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/csvmap/internal/core"
	"github.com/JonMunkholm/csvmap/internal/mapping"
)

// ErrUnsupportedFormat is returned for file extensions with no decoder.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Format is a file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatHCL  Format = "hcl"
)

// FormatOf picks the encoding from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads a schema file. The encoding follows the file extension.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema file %s: %w", path, err)
	}
	format, err := FormatOf(path)
	if err != nil {
		return nil, fmt.Errorf("schema file %s: %w", path, err)
	}

	f, err := Parse(data, format, path)
	if err != nil {
		return nil, fmt.Errorf("schema file %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes schema data. filename is only used in HCL diagnostics.
func Parse(data []byte, format Format, filename string) (*File, error) {
	var f File
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	case FormatHCL:
		if err := decodeHCL(data, filename, &f); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if len(f.Columns) == 0 {
		return nil, fmt.Errorf("%w: no columns", core.ErrInvalidSpec)
	}
	return &f, nil
}

// LoadSchema reads a schema file and converts it. The file name without its
// extension is the key when the file has none.
func LoadSchema(path string) (core.Schema, error) {
	f, err := Load(path)
	if err != nil {
		return core.Schema{}, err
	}
	base := filepath.Base(path)
	s, err := f.Schema(strings.TrimSuffix(base, filepath.Ext(base)))
	if err != nil {
		return core.Schema{}, fmt.Errorf("schema file %s: %w", path, err)
	}
	return s, nil
}

// LoadTemplates reads a YAML or JSON list of import templates.
func LoadTemplates(path string) ([]core.ImportTemplate, error) {
	var templates []core.ImportTemplate
	if err := decodeFile(path, &templates); err != nil {
		return nil, fmt.Errorf("templates file %s: %w", path, err)
	}
	for i, t := range templates {
		if t.Name == "" {
			return nil, fmt.Errorf("templates file %s: template %d has no name", path, i)
		}
	}
	return templates, nil
}

// WriteTemplates writes templates to path in the encoding its extension
// names.
func WriteTemplates(path string, templates []core.ImportTemplate) error {
	if err := encodeFile(path, templates); err != nil {
		return fmt.Errorf("templates file %s: %w", path, err)
	}
	return nil
}

// LoadMapping reads a YAML or JSON object of source header to target names.
func LoadMapping(path string) (*mapping.Mapping, error) {
	var m map[string][]string
	if err := decodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("mapping file %s: %w", path, err)
	}
	return mapping.FromMap(m), nil
}

// WriteMapping writes m in the encoding its extension names.
func WriteMapping(path string, m *mapping.Mapping) error {
	if err := encodeFile(path, m.Map()); err != nil {
		return fmt.Errorf("mapping file %s: %w", path, err)
	}
	return nil
}

func decodeFile(path string, v any) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, v)
	case FormatJSON:
		err = json.Unmarshal(data, v)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("parse %s: %w", format, err)
	}
	return nil
}

func encodeFile(path string, v any) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case FormatYAML:
		data, err = yaml.Marshal(v)
	case FormatJSON:
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}
