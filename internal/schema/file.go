// Package schema reads column specs, import templates and saved mappings
// from YAML, JSON or HCL files.
package schema

import (
	"fmt"
	"regexp"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/csvmap/internal/automap"
	"github.com/JonMunkholm/csvmap/internal/core"
)

// File is the on-disk form of a schema.
type File struct {
	Key     string   `yaml:"key" json:"key" hcl:"key,optional"`
	Label   string   `yaml:"label,omitempty" json:"label,omitempty" hcl:"label,optional"`
	Group   string   `yaml:"group,omitempty" json:"group,omitempty" hcl:"group,optional"`
	Columns []Column `yaml:"columns" json:"columns" hcl:"column,block"`
}

// Column is one column entry of a schema file.
type Column struct {
	Name            string    `yaml:"name" json:"name" hcl:"name,label"`
	Title           string    `yaml:"title,omitempty" json:"title,omitempty" hcl:"title,optional"`
	Output          string    `yaml:"output,omitempty" json:"output,omitempty" hcl:"output,optional"`
	Default         *string   `yaml:"default,omitempty" json:"default,omitempty" hcl:"default,optional"`
	Required        bool      `yaml:"required,omitempty" json:"required,omitempty" hcl:"required,optional"`
	AllowDuplicates bool      `yaml:"allow_duplicates,omitempty" json:"allow_duplicates,omitempty" hcl:"allow_duplicates,optional"`
	Match           string    `yaml:"match,omitempty" json:"match,omitempty" hcl:"match,optional"`
	Message         string    `yaml:"message,omitempty" json:"message,omitempty" hcl:"message,optional"`
	Transforms      []Step    `yaml:"transforms,omitempty" json:"transforms,omitempty" hcl:"transform,block"`
	Validate        *Validate `yaml:"validate,omitempty" json:"validate,omitempty" hcl:"validate,block"`
}

// Step names a registered transform. In YAML and JSON a bare string is
// accepted in place of the object form.
type Step struct {
	Name   string `yaml:"name" json:"name" hcl:"name,label"`
	Format string `yaml:"format,omitempty" json:"format,omitempty" hcl:"format,optional"`
	Input  string `yaml:"input,omitempty" json:"input,omitempty" hcl:"input,optional"`
}

// UnmarshalYAML accepts "trim" as well as {name: trim}.
func (s *Step) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		s.Name = value.Value
		return nil
	}
	type plain Step
	return value.Decode((*plain)(s))
}

// UnmarshalJSON accepts "trim" as well as {"name": "trim"}.
func (s *Step) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &s.Name)
	}
	type plain Step
	return json.Unmarshal(data, (*plain)(s))
}

// Validate is the rule of a column.
type Validate struct {
	Type    string   `yaml:"type" json:"type" hcl:"type,label"`
	Pattern string   `yaml:"pattern,omitempty" json:"pattern,omitempty" hcl:"pattern,optional"`
	Format  string   `yaml:"format,omitempty" json:"format,omitempty" hcl:"format,optional"`
	Values  []string `yaml:"values,omitempty" json:"values,omitempty" hcl:"values,optional"`
	Min     *float64 `yaml:"min,omitempty" json:"min,omitempty" hcl:"min,optional"`
	Max     *float64 `yaml:"max,omitempty" json:"max,omitempty" hcl:"max,optional"`
	Message string   `yaml:"message,omitempty" json:"message,omitempty" hcl:"message,optional"`
}

// Specs converts the file's columns. Transform and rule names are checked
// when an engine is built from the result.
func (f *File) Specs() ([]core.ColumnSpec, error) {
	specs := make([]core.ColumnSpec, 0, len(f.Columns))
	for _, c := range f.Columns {
		spec, err := c.spec()
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Name, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// Schema converts the file to a registrable schema. fallbackKey is used
// when the file does not name itself.
func (f *File) Schema(fallbackKey string) (core.Schema, error) {
	specs, err := f.Specs()
	if err != nil {
		return core.Schema{}, err
	}
	key := f.Key
	if key == "" {
		key = fallbackKey
	}
	return core.Schema{Key: key, Label: f.Label, Group: f.Group, Columns: specs}, nil
}

func (c Column) spec() (core.ColumnSpec, error) {
	spec := core.ColumnSpec{
		Name:            c.Name,
		Title:           c.Title,
		OutputHeader:    c.Output,
		Default:         c.Default,
		Required:        c.Required,
		AllowDuplicates: c.AllowDuplicates,
		Message:         c.Message,
	}

	if c.Match != "" {
		re, err := regexp.Compile(c.Match)
		if err != nil {
			return spec, fmt.Errorf("%w: match: %w", core.ErrInvalidSpec, err)
		}
		spec.Matcher = automap.Pattern(re)
	}

	for _, s := range c.Transforms {
		if s.Name == "" {
			return spec, fmt.Errorf("%w: transform without a name", core.ErrInvalidSpec)
		}
		spec.Transforms = append(spec.Transforms, core.Transform{
			Name:        s.Name,
			Format:      s.Format,
			InputFormat: s.Input,
		})
	}

	if v := c.Validate; v != nil {
		spec.Rule = &core.Rule{
			Type:    core.RuleType(strings.ToLower(v.Type)),
			Pattern: v.Pattern,
			Format:  v.Format,
			Values:  v.Values,
			Min:     v.Min,
			Max:     v.Max,
			Message: v.Message,
		}
	}
	return spec, nil
}
