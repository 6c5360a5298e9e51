package schema

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/JonMunkholm/csvmap/internal/core"
	"github.com/JonMunkholm/csvmap/internal/mapping"
)

// ============================================================================
// Fixtures
// ============================================================================

const yamlSchema = `
key: products
label: Products
group: Catalog
columns:
  - name: sku
    title: SKU
    required: true
    transforms:
      - trim
      - uppercase
    validate:
      type: pattern
      pattern: "^[A-Z0-9-]+$"
  - name: price
    transforms:
      - name: number
    validate:
      type: number
      min: 0
  - name: released
    default: ""
    transforms:
      - name: date
        format: Y-m-d
        input: d/m/Y
`

const jsonSchema = `{
  "key": "products",
  "label": "Products",
  "group": "Catalog",
  "columns": [
    {
      "name": "sku",
      "title": "SKU",
      "required": true,
      "transforms": ["trim", {"name": "uppercase"}],
      "validate": {"type": "pattern", "pattern": "^[A-Z0-9-]+$"}
    },
    {
      "name": "price",
      "transforms": ["number"],
      "validate": {"type": "number", "min": 0}
    },
    {
      "name": "released",
      "default": "",
      "transforms": [{"name": "date", "format": "Y-m-d", "input": "d/m/Y"}]
    }
  ]
}`

const hclSchema = `
key   = "products"
label = "Products"
group = "Catalog"

column "sku" {
  title    = "SKU"
  required = true

  transform "trim" {}
  transform "uppercase" {}

  validate "pattern" {
    pattern = "^[A-Z0-9-]+$"
  }
}

column "price" {
  transform "number" {}

  validate "number" {
    min = 0
  }
}

column "released" {
  default = ""

  transform "date" {
    format = "Y-m-d"
    input  = "d/m/Y"
  }
}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func wantSpecs() []core.ColumnSpec {
	zero := 0.0
	return []core.ColumnSpec{
		{
			Name:       "sku",
			Title:      "SKU",
			Required:   true,
			Transforms: []core.Transform{{Name: "trim"}, {Name: "uppercase"}},
			Rule:       &core.Rule{Type: core.RulePattern, Pattern: "^[A-Z0-9-]+$"},
		},
		{
			Name:       "price",
			Transforms: []core.Transform{{Name: "number"}},
			Rule:       &core.Rule{Type: core.RuleNumber, Min: &zero},
		},
		{
			Name:       "released",
			Default:    core.DefaultTo(""),
			Transforms: []core.Transform{{Name: "date", Format: "Y-m-d", InputFormat: "d/m/Y"}},
		},
	}
}

// ============================================================================
// Schema Files
// ============================================================================

func TestLoadSchema_Formats(t *testing.T) {
	tests := []struct {
		file    string
		content string
	}{
		{"products.yaml", yamlSchema},
		{"products.yml", yamlSchema},
		{"products.json", jsonSchema},
		{"products.hcl", hclSchema},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			s, err := LoadSchema(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("LoadSchema() error = %v", err)
			}
			if s.Key != "products" || s.Label != "Products" || s.Group != "Catalog" {
				t.Errorf("schema = %+v", s)
			}
			if !reflect.DeepEqual(s.Columns, wantSpecs()) {
				t.Errorf("Columns =\n%+v\nwant\n%+v", s.Columns, wantSpecs())
			}
			if _, err := s.Engine(); err != nil {
				t.Errorf("Engine() error = %v", err)
			}
		})
	}
}

func TestLoadSchema_KeyFromFileName(t *testing.T) {
	s, err := LoadSchema(writeFile(t, "people.yaml", "columns:\n  - name: email\n"))
	if err != nil {
		t.Fatalf("LoadSchema() error = %v", err)
	}
	if s.Key != "people" {
		t.Errorf("Key = %q, want people", s.Key)
	}
}

func TestLoadSchema_Match(t *testing.T) {
	s, err := LoadSchema(writeFile(t, "m.yaml", "columns:\n  - name: email\n    match: \"(?i)^e-?mail\"\n"))
	if err != nil {
		t.Fatalf("LoadSchema() error = %v", err)
	}
	m := s.Columns[0].Matcher
	if m == nil || !m.Match("E-Mail Address") || m.Match("phone") {
		t.Errorf("Matcher = %v", m)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    error
		text    string
	}{
		{"unsupported extension", "s.toml", "", ErrUnsupportedFormat, ""},
		{"no columns", "s.yaml", "key: empty\n", core.ErrInvalidSpec, "no columns"},
		{"bad match", "s.json", `{"columns": [{"name": "a", "match": "("}]}`, core.ErrInvalidSpec, `column "a"`},
		{"unnamed transform", "s.yaml", "columns:\n  - name: a\n    transforms:\n      - format: x\n", core.ErrInvalidSpec, "transform without a name"},
		{"bad yaml", "s.yaml", "columns: [", nil, "parse yaml"},
		{"bad json", "s.json", "{", nil, "parse json"},
		{"bad hcl", "s.hcl", "column {\n", nil, "s.hcl"},
		{"unknown hcl attribute", "s.hcl", "column \"a\" {\n  colour = \"red\"\n}\n", nil, "Unsupported argument"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			s, err := LoadSchema(path)
			if err == nil {
				t.Fatalf("LoadSchema() = %+v, want error", s)
			}
			if !strings.HasPrefix(err.Error(), "schema file ") {
				t.Errorf("error %q lacks schema file prefix", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if tt.text != "" && !strings.Contains(err.Error(), tt.text) {
				t.Errorf("error %q does not contain %q", err, tt.text)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want ErrNotExist", err)
	}
	if got := core.MapError(err); got.Code != "SCH005" {
		t.Errorf("MapError code = %s, want SCH005", got.Code)
	}
}

// ============================================================================
// Templates and Mappings
// ============================================================================

func TestTemplates_RoundTrip(t *testing.T) {
	templates := []core.ImportTemplate{
		{
			Name:    "crm export",
			Schema:  "contacts",
			Headers: []string{"Full Name", "E-Mail"},
			Mapping: map[string][]string{"Full Name": {"first_name"}, "E-Mail": {"email"}},
		},
	}
	for _, ext := range []string{".yaml", ".json"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "templates"+ext)
			if err := WriteTemplates(path, templates); err != nil {
				t.Fatalf("WriteTemplates() error = %v", err)
			}
			got, err := LoadTemplates(path)
			if err != nil {
				t.Fatalf("LoadTemplates() error = %v", err)
			}
			if !reflect.DeepEqual(got, templates) {
				t.Errorf("LoadTemplates() = %+v, want %+v", got, templates)
			}
		})
	}
}

func TestLoadTemplates_Unnamed(t *testing.T) {
	path := writeFile(t, "t.yaml", "- headers: [A]\n")
	if _, err := LoadTemplates(path); err == nil || !strings.Contains(err.Error(), "has no name") {
		t.Errorf("LoadTemplates() error = %v", err)
	}
}

func TestMapping_RoundTrip(t *testing.T) {
	m := mapping.New()
	m.Set("Name", "first_name", "display")
	m.Set("Mail", "email")

	for _, ext := range []string{".yml", ".json"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "mapping"+ext)
			if err := WriteMapping(path, m); err != nil {
				t.Fatalf("WriteMapping() error = %v", err)
			}
			got, err := LoadMapping(path)
			if err != nil {
				t.Fatalf("LoadMapping() error = %v", err)
			}
			if !reflect.DeepEqual(got.Map(), m.Map()) {
				t.Errorf("LoadMapping() = %v, want %v", got.Map(), m.Map())
			}
		})
	}
}

func TestLoadMapping_HCLUnsupported(t *testing.T) {
	path := writeFile(t, "m.hcl", "")
	if _, err := LoadMapping(path); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("LoadMapping() error = %v, want ErrUnsupportedFormat", err)
	}
}
