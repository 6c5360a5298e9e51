package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/JonMunkholm/csvmap/internal/automap"
	"github.com/JonMunkholm/csvmap/internal/csvcodec"
	"github.com/JonMunkholm/csvmap/internal/logging"
	"github.com/JonMunkholm/csvmap/internal/mapping"
	"github.com/JonMunkholm/csvmap/internal/tabular"
)

// ContextCheckInterval is how many rows Transform processes between checks
// for context cancellation.
const ContextCheckInterval = 100

// Option configures an Engine.
type Option func(*options)

type options struct {
	dialect           csvcodec.Dialect
	header            bool
	text              bool
	onTransformError  func(TransformError) bool
	onValidationError func(ValidationError)
}

func defaultOptions() options {
	return options{
		dialect: csvcodec.DefaultDialect(),
		header:  true,
		text:    true,
	}
}

// WithDialect sets the dialect used to serialize Result.Text.
func WithDialect(d csvcodec.Dialect) Option {
	return func(o *options) { o.dialect = d }
}

// WithoutHeader leaves the header row out of Result.Text.
func WithoutHeader() Option {
	return func(o *options) { o.header = false }
}

// WithoutText skips serialization; Result.Text stays empty.
func WithoutText() Option {
	return func(o *options) { o.text = false }
}

// WithTransformErrorHandler installs a callback for failed transform steps.
// Returning true marks the failure handled: the cell keeps its pre-step value
// and the run continues. Returning false aborts Transform with
// ErrTransformAborted.
func WithTransformErrorHandler(fn func(TransformError) bool) Option {
	return func(o *options) { o.onTransformError = fn }
}

// WithValidationErrorHandler installs a callback invoked for every
// validation failure as it is found.
func WithValidationErrorHandler(fn func(ValidationError)) Option {
	return func(o *options) { o.onValidationError = fn }
}

// column is a ColumnSpec with its pipeline and rule compiled.
type column struct {
	spec  *ColumnSpec
	steps []step
	rule  *compiledRule
}

// Engine maps, transforms and validates tables against a fixed list of
// column specs. An Engine is immutable and safe for concurrent use; use
// With to derive one with different options.
type Engine struct {
	specs   []ColumnSpec
	columns []column
	byName  map[string]int
	opts    options
}

// NewEngine validates and compiles specs.
func NewEngine(specs []ColumnSpec, opts ...Option) (*Engine, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: no columns", ErrInvalidSpec)
	}

	e := &Engine{
		specs:  append([]ColumnSpec(nil), specs...),
		byName: make(map[string]int, len(specs)),
		opts:   defaultOptions(),
	}
	for _, opt := range opts {
		opt(&e.opts)
	}

	headers := make(map[string]bool, len(specs))
	e.columns = make([]column, len(e.specs))
	for i := range e.specs {
		spec := &e.specs[i]
		if spec.Name == "" {
			return nil, fmt.Errorf("%w: column %d has no name", ErrInvalidSpec, i)
		}
		if _, dup := e.byName[spec.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate column name %q", ErrInvalidSpec, spec.Name)
		}
		if headers[spec.Header()] {
			return nil, fmt.Errorf("%w: duplicate output header %q", ErrInvalidSpec, spec.Header())
		}
		e.byName[spec.Name] = i
		headers[spec.Header()] = true

		col, err := compileColumn(spec)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", spec.Name, err)
		}
		e.columns[i] = col
	}

	return e, nil
}

func compileColumn(spec *ColumnSpec) (column, error) {
	col := column{spec: spec, steps: make([]step, 0, len(spec.Transforms))}
	for _, t := range spec.Transforms {
		fn, err := compileTransform(t)
		if err != nil {
			return column{}, err
		}
		col.steps = append(col.steps, step{name: t.label(), fn: fn})
	}
	if spec.Rule != nil {
		rule, err := compileRule(spec.Rule)
		if err != nil {
			return column{}, err
		}
		col.rule = rule
	}
	return col, nil
}

// With returns a new engine with opts applied on top of the current ones.
func (e *Engine) With(opts ...Option) *Engine {
	next := *e
	for _, opt := range opts {
		opt(&next.opts)
	}
	return &next
}

// Specs returns a copy of the engine's column specs.
func (e *Engine) Specs() []ColumnSpec {
	return append([]ColumnSpec(nil), e.specs...)
}

// Spec returns the spec called name.
func (e *Engine) Spec(name string) (ColumnSpec, bool) {
	i, ok := e.byName[name]
	if !ok {
		return ColumnSpec{}, false
	}
	return e.specs[i], true
}

// candidates returns the specs as auto-mapper candidates, in declared order.
func (e *Engine) candidates() []automap.Candidate {
	out := make([]automap.Candidate, len(e.specs))
	for i, s := range e.specs {
		out[i] = s.candidate()
	}
	return out
}

// Transform maps in through m onto the engine's columns, then runs every
// cell through its column's pipeline and rule. The input table is not
// modified. A nil or empty mapping yields a table of defaults, one row per
// input row.
//
// Structural problems (required columns without a source, mapping sources
// missing from the input, remap arity errors) fail before any cell is
// processed. Validation failures never fail the call.
func (e *Engine) Transform(ctx context.Context, in *tabular.Table, m *mapping.Mapping) (*Result, error) {
	if m == nil {
		m = mapping.New()
	}
	if err := e.checkRequired(m); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.FromContext(ctx)
	logger.Debug("transform started", "rows", in.Len(), "columns", len(e.specs), "sources", m.Len())

	out, err := e.build(in, m)
	if err != nil {
		return nil, err
	}

	res := &Result{RunID: runID, Table: out}
	var verrs []ValidationError

	// Header to column lookups are cached for this run only.
	byHeader := make(map[string]*column, len(e.columns))
	for i := range e.columns {
		byHeader[e.columns[i].spec.Header()] = &e.columns[i]
	}
	headers := out.Headers()

	for r := 0; r < out.Len(); r++ {
		if r%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("transform cancelled at row %d: %w", r, err)
			}
		}

		for c, header := range headers {
			col := byHeader[header]
			value, _ := out.Cell(r, c)
			cell := CellContext{Row: r, Column: header, Spec: col.spec}

			outcome := runPipeline(col.steps, value, cell)
			for _, f := range outcome.failures {
				te := TransformError{
					RowIndex: r,
					Field:    col.spec.Name,
					Step:     f.step,
					Value:    f.value,
					Message:  f.err.Error(),
					Err:      f.err,
				}
				res.TransformErrors = append(res.TransformErrors, te)
				if e.opts.onTransformError != nil && !e.opts.onTransformError(te) {
					return nil, fmt.Errorf("%w: %w", ErrTransformAborted, te)
				}
				logger.Warn("transform step failed", "row", r, "field", col.spec.Name, "step", f.step, "error", f.err)
			}
			if err := out.SetCell(r, c, outcome.value); err != nil {
				return nil, err
			}

			if col.rule == nil {
				continue
			}
			if ok, msg := col.rule.check(outcome.value, cell); !ok {
				row, _ := out.Row(r)
				ve := ValidationError{RowIndex: r, Row: row, Field: col.spec.Name, Message: msg, Value: outcome.value}
				verrs = append(verrs, ve)
				if e.opts.onValidationError != nil {
					e.opts.onValidationError(ve)
				}
			}
		}
	}

	res.Validation = newValidationResult(verrs, out.Len())
	if e.opts.text {
		res.Text = csvcodec.Serialize(out.Records(e.opts.header), e.opts.dialect)
	}

	logger.Debug("transform finished",
		"rows", out.Len(),
		"validation_errors", res.Validation.ErrorCount,
		"transform_errors", len(res.TransformErrors),
	)
	return res, nil
}

// checkRequired fails when a column needing a source has none.
func (e *Engine) checkRequired(m *mapping.Mapping) error {
	targets := m.AllTargets()
	var missing []string
	for _, s := range e.specs {
		if s.needsSource() && targets[s.Name] == 0 {
			missing = append(missing, s.Name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrRequiredUnmapped, strings.Join(missing, ", "))
	}
	return nil
}

// build lays the input out in spec order with output headers. Every cell of
// the result still holds its raw value.
func (e *Engine) build(in *tabular.Table, m *mapping.Mapping) (*tabular.Table, error) {
	if m.Len() == 0 {
		return e.blank(in.Len())
	}

	t := in.Clone()

	// Drop input columns that feed nothing, by position so an unmapped
	// column sharing a name with a target cannot leak through.
	headers := t.Headers()
	for i := len(headers) - 1; i >= 0; i-- {
		if !m.Has(headers[i]) {
			if err := t.RemoveColumn(tabular.Pos(i)); err != nil {
				return nil, err
			}
		}
	}

	remaps := make([]tabular.Remap, 0, m.Len())
	for _, entry := range m.Entries() {
		remaps = append(remaps, tabular.Remap{Source: tabular.Col(entry.Source), Targets: entry.Targets})
	}
	if err := t.RemapColumns(remaps...); err != nil {
		return nil, fmt.Errorf("apply mapping: %w", err)
	}

	headers = t.Headers()
	for i := len(headers) - 1; i >= 0; i-- {
		if _, ok := e.byName[headers[i]]; !ok {
			if err := t.RemoveColumn(tabular.Pos(i)); err != nil {
				return nil, err
			}
		}
	}

	present := make(map[string]bool)
	for _, h := range t.Headers() {
		present[h] = true
	}
	order := make([]tabular.Key, len(e.specs))
	for i, s := range e.specs {
		if !present[s.Name] {
			if err := t.AddColumn(s.Name, tabular.End, defaultValue(s)); err != nil {
				return nil, err
			}
		}
		order[i] = tabular.Col(s.Name)
	}
	if err := t.ReorderColumns(order...); err != nil {
		return nil, err
	}

	for i, name := range t.Headers() {
		spec := e.specs[e.byName[name]]
		if err := t.RenameColumnAt(i, spec.Header()); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// blank builds rows of empty strings for every spec.
func (e *Engine) blank(rows int) (*tabular.Table, error) {
	headers := make([]string, len(e.specs))
	values := make([]string, len(e.specs))
	for i, s := range e.specs {
		headers[i] = s.Header()
	}

	records := make([][]string, rows)
	for i := range records {
		records[i] = values
	}
	return tabular.New(headers, records)
}

func defaultValue(s ColumnSpec) string {
	if s.Default != nil {
		return *s.Default
	}
	return ""
}
