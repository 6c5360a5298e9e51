package core

import (
	"fmt"

	"github.com/JonMunkholm/csvmap/internal/automap"
	"github.com/JonMunkholm/csvmap/internal/tabular"
)

// ColumnSpec describes one column of the target schema.
type ColumnSpec struct {
	Name            string          // Unique identifier, used in mappings
	Title           string          // Display title, also scored by the auto-mapper
	OutputHeader    string          // Header written to the output (default: Name, then Title)
	Default         *string         // Value for rows when no source column is mapped
	Required        bool            // Must be mapped unless Default is set
	AllowDuplicates bool            // More than one source column may feed this column
	Matcher         automap.Matcher // Optional header matcher, used only for scoring
	Transforms      []Transform     // Applied in order to every cell
	Rule            *Rule           // Optional validation rule
	Message         string          // Fallback validation message
}

// Header returns the name written to the output table.
func (s ColumnSpec) Header() string {
	switch {
	case s.OutputHeader != "":
		return s.OutputHeader
	case s.Name != "":
		return s.Name
	default:
		return s.Title
	}
}

// needsSource reports whether a transform must fail when nothing maps here.
func (s ColumnSpec) needsSource() bool {
	return s.Required && s.Default == nil
}

func (s ColumnSpec) candidate() automap.Candidate {
	return automap.Candidate{
		Name:            s.Name,
		Title:           s.Title,
		Matcher:         s.Matcher,
		AllowDuplicates: s.AllowDuplicates,
	}
}

// DefaultTo returns a pointer to v for use as ColumnSpec.Default.
func DefaultTo(v string) *string {
	return &v
}

// CellContext identifies the cell a transform or rule is looking at.
type CellContext struct {
	Row    int         // Zero-based data row index
	Column string      // Output header of the column
	Spec   *ColumnSpec // Owning column spec
}

// TransformFunc converts one cell value.
type TransformFunc func(value string, cell CellContext) (string, error)

// Transform is one step of a column's pipeline. Either Name selects a
// registered step (see RegisterTransform) or Func supplies one directly.
type Transform struct {
	Name        string        // Registered step name
	Format      string        // Output layout for "date" (preset name or pattern)
	InputFormat string        // Input layout for "date"; empty accepts common forms
	Func        TransformFunc // Custom step; takes precedence over Name
}

// Step returns a Transform that runs the named registered step.
func Step(name string) Transform {
	return Transform{Name: name}
}

// label names the step in errors and logs.
func (t Transform) label() string {
	if t.Name != "" {
		return t.Name
	}
	return "custom"
}

// RuleType selects a built-in validation.
type RuleType string

const (
	RulePattern  RuleType = "pattern"
	RuleNumber   RuleType = "number"
	RuleInteger  RuleType = "integer"
	RuleBoolean  RuleType = "boolean"
	RuleDate     RuleType = "date"
	RuleEmail    RuleType = "email"
	RuleEnum     RuleType = "enum"
	RuleRequired RuleType = "required"
	RuleCustom   RuleType = "custom"
)

// ValidateFunc checks one cell value. A non-empty message on failure is
// used as the error text; it is ignored when ok is true.
type ValidateFunc func(value string, cell CellContext) (ok bool, message string)

// Rule validates a column's transformed values. Typed rules other than
// RuleRequired accept empty values.
type Rule struct {
	Type    RuleType
	Pattern string   // RulePattern: regular expression the value must match
	Format  string   // RuleDate: preset name or date pattern
	Values  []string // RuleEnum: allowed values, compared case-insensitively
	Min     *float64 // RuleNumber, RuleInteger: inclusive lower bound
	Max     *float64 // RuleNumber, RuleInteger: inclusive upper bound
	Message string   // Overrides the type's default message
	Func    ValidateFunc
}

// MatchPattern returns a pattern rule.
func MatchPattern(expr string) *Rule {
	return &Rule{Type: RulePattern, Pattern: expr}
}

// Check returns a custom rule backed by fn.
func Check(fn ValidateFunc) *Rule {
	return &Rule{Type: RuleCustom, Func: fn}
}

// TransformError records a pipeline step that failed for one cell. The cell
// keeps the value it had before the step.
type TransformError struct {
	RowIndex int    `json:"row"`
	Field    string `json:"field"`
	Step     string `json:"step"`
	Value    string `json:"value"`
	Message  string `json:"message"`
	Err      error  `json:"-"`
}

func (e TransformError) Error() string {
	return fmt.Sprintf("row %d, %s: transform %s failed: %v", e.RowIndex, e.Field, e.Step, e.Err)
}

func (e TransformError) Unwrap() error {
	return e.Err
}

// Result is the outcome of Engine.Transform.
type Result struct {
	RunID           string
	Table           *tabular.Table
	Text            string // Serialized table; empty when disabled with WithoutText
	Validation      ValidationResult
	TransformErrors []TransformError
}
