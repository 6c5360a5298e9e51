package core

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/csvmap/internal/automap"
	"github.com/JonMunkholm/csvmap/internal/csvcodec"
	"github.com/JonMunkholm/csvmap/internal/mapping"
	"github.com/JonMunkholm/csvmap/internal/tabular"
)

// Importer is one interactive import: a parsed input table, the engine it
// is mapped onto and the mapping being edited. An Importer is not safe for
// concurrent use.
type Importer struct {
	table   *tabular.Table
	engine  *Engine
	mapping *mapping.Mapping
}

// NewImporter starts an import of table with an empty mapping. The table
// must have headers.
func NewImporter(table *tabular.Table, engine *Engine) (*Importer, error) {
	if !table.HasHeaders() {
		return nil, fmt.Errorf("new importer: %w", tabular.ErrNoHeaders)
	}
	return &Importer{table: table, engine: engine, mapping: mapping.New()}, nil
}

// ParseImport parses data with a header row and starts an import of it.
// Rows shorter than the header are padded with empty cells; longer rows are
// an error.
func ParseImport(data []byte, opts csvcodec.Options, engine *Engine) (*Importer, error) {
	opts.Header = true
	parsed, err := csvcodec.Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}
	table, err := TableFromParsed(parsed)
	if err != nil {
		return nil, err
	}
	return NewImporter(table, engine)
}

// TableFromParsed builds a table from codec output, padding short rows.
func TableFromParsed(p *csvcodec.Parsed) (*tabular.Table, error) {
	if p.Headers == nil {
		return tabular.New(nil, p.Rows)
	}

	width := len(p.Headers)
	rows := make([][]string, len(p.Rows))
	for i, row := range p.Rows {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			row = padded
		}
		rows[i] = row
	}
	t, err := tabular.New(p.Headers, rows)
	if err != nil {
		return nil, fmt.Errorf("build table: %w", err)
	}
	return t, nil
}

// Table returns the input table.
func (im *Importer) Table() *tabular.Table {
	return im.table
}

// Engine returns the engine the input is mapped onto.
func (im *Importer) Engine() *Engine {
	return im.engine
}

// Headers returns the input headers.
func (im *Importer) Headers() []string {
	return im.table.Headers()
}

// Mappings returns a copy of the current mapping.
func (im *Importer) Mappings() *mapping.Mapping {
	return im.mapping.Clone()
}

// ColumnMappings returns the targets header feeds.
func (im *Importer) ColumnMappings(header string) []string {
	return im.mapping.Targets(header)
}

// AddColumnMapping maps header onto target. A target that does not allow
// duplicates can only have one source.
func (im *Importer) AddColumnMapping(header, target string) error {
	if err := im.checkPair(header, target); err != nil {
		return err
	}
	im.mapping.Add(header, target)
	return nil
}

// RemoveColumnMapping unmaps header from target, or from every target when
// target is empty.
func (im *Importer) RemoveColumnMapping(header, target string) {
	if target == "" {
		im.mapping.Delete(header)
		return
	}
	im.mapping.Remove(header, target)
}

// SetMapping replaces the whole mapping. Every pair is checked as
// AddColumnMapping would; on error the current mapping is kept. A nil
// mapping clears every pair.
func (im *Importer) SetMapping(m *mapping.Mapping) error {
	if m == nil {
		m = mapping.New()
	}
	next := mapping.New()
	prev := im.mapping
	im.mapping = next
	for _, entry := range m.Entries() {
		for _, target := range entry.Targets {
			if err := im.AddColumnMapping(entry.Source, target); err != nil {
				im.mapping = prev
				return err
			}
		}
	}
	return nil
}

// AutoMap adds suggestions for unmapped headers to the current mapping and
// returns the pairs it added.
func (im *Importer) AutoMap(opts automap.Options) []mapping.Entry {
	before := im.mapping
	im.mapping = automap.Suggest(im.Headers(), im.engine.candidates(), before, opts)

	var added []mapping.Entry
	for _, entry := range im.mapping.Entries() {
		var fresh []string
		for _, t := range entry.Targets {
			if !contains(before.Targets(entry.Source), t) {
				fresh = append(fresh, t)
			}
		}
		if len(fresh) > 0 {
			added = append(added, mapping.Entry{Source: entry.Source, Targets: fresh})
		}
	}
	return added
}

// Transform runs the engine over the input with the current mapping.
func (im *Importer) Transform(ctx context.Context) (*Result, error) {
	return im.engine.Transform(ctx, im.table, im.mapping)
}

func (im *Importer) checkPair(header, target string) error {
	if !contains(im.table.Headers(), header) {
		return fmt.Errorf("%w: source %q", ErrUnknownColumn, header)
	}
	spec, ok := im.engine.Spec(target)
	if !ok {
		return fmt.Errorf("%w: target %q", ErrUnknownColumn, target)
	}
	if spec.AllowDuplicates {
		return nil
	}
	for _, src := range im.mapping.SourcesOf(target) {
		if src != header {
			return fmt.Errorf("%w: %s is mapped from %q", ErrTargetInUse, target, src)
		}
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
