// Package tabular provides the in-memory table model used by the importer.
//
// A Table is an ordered list of rows with an optional header list. Header
// names do not have to be unique: every structural operation (rename, remove,
// reorder, remap) is defined for duplicate-named columns.
//
// Tables are not safe for concurrent mutation. Clone a table before handing
// it to another goroutine.
package tabular

import (
	"errors"
	"fmt"
	"io"

	"github.com/JonMunkholm/csvmap/internal/csvcodec"
)

// Common errors returned by the tabular package.
var (
	// ErrRowLength is returned when a row's cell count differs from the table width.
	ErrRowLength = errors.New("row length does not match header count")

	// ErrColumnNotFound is returned when a named column does not exist.
	ErrColumnNotFound = errors.New("column not found")

	// ErrIndexOutOfRange is returned when a column or row position is invalid.
	ErrIndexOutOfRange = errors.New("column index out of range")

	// ErrArityMismatch is returned when a many-to-many remap has unequal counts.
	ErrArityMismatch = errors.New("source and target column counts differ")

	// ErrNoHeaders is returned when a name-based operation runs on a headerless table.
	ErrNoHeaders = errors.New("table has no headers")

	// ErrNoTargets is returned when a remap is given no target names.
	ErrNoTargets = errors.New("no target columns given")
)

// Table is an ordered, optionally headered sequence of rows.
type Table struct {
	headers []string // nil for headerless tables
	rows    [][]string
}

// New creates a table that owns copies of headers and rows.
// Pass nil headers for a headerless table. Every row must have the same
// number of cells as there are headers (or as the first row, when headerless).
func New(headers []string, rows [][]string) (*Table, error) {
	t := &Table{rows: make([][]string, len(rows))}
	if headers != nil {
		t.headers = append(make([]string, 0, len(headers)), headers...)
	}

	width := len(headers)
	if headers == nil && len(rows) > 0 {
		width = len(rows[0])
	}

	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d: %w (expected %d, got %d)", i, ErrRowLength, width, len(row))
		}
		t.rows[i] = append(make([]string, 0, width), row...)
	}

	return t, nil
}

// HasHeaders reports whether the table carries a header list.
func (t *Table) HasHeaders() bool {
	return t.headers != nil
}

// Headers returns a copy of the header list, or nil for headerless tables.
func (t *Table) Headers() []string {
	if t.headers == nil {
		return nil
	}
	return append([]string(nil), t.headers...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Width returns the number of columns.
func (t *Table) Width() int {
	if t.headers != nil {
		return len(t.headers)
	}
	if len(t.rows) > 0 {
		return len(t.rows[0])
	}
	return 0
}

// Row returns a view of row i.
func (t *Table) Row(i int) (Row, error) {
	if i < 0 || i >= len(t.rows) {
		return Row{}, fmt.Errorf("row %d: %w", i, ErrIndexOutOfRange)
	}
	return Row{table: t, index: i}, nil
}

// Cell returns the value at row r, column c.
func (t *Table) Cell(r, c int) (string, error) {
	if r < 0 || r >= len(t.rows) {
		return "", fmt.Errorf("row %d: %w", r, ErrIndexOutOfRange)
	}
	if c < 0 || c >= len(t.rows[r]) {
		return "", fmt.Errorf("column %d: %w", c, ErrIndexOutOfRange)
	}
	return t.rows[r][c], nil
}

// SetCell replaces the value at row r, column c.
func (t *Table) SetCell(r, c int, value string) error {
	if r < 0 || r >= len(t.rows) {
		return fmt.Errorf("row %d: %w", r, ErrIndexOutOfRange)
	}
	if c < 0 || c >= len(t.rows[r]) {
		return fmt.Errorf("column %d: %w", c, ErrIndexOutOfRange)
	}
	t.rows[r][c] = value
	return nil
}

// Clone returns a deep copy. Mutating the clone never affects t.
func (t *Table) Clone() *Table {
	c := &Table{rows: make([][]string, len(t.rows))}
	if t.headers != nil {
		c.headers = append(make([]string, 0, len(t.headers)), t.headers...)
	}
	for i, row := range t.rows {
		c.rows[i] = append(make([]string, 0, len(row)), row...)
	}
	return c
}

// Records returns the table as row-major records, optionally led by the
// header row. The result is a copy.
func (t *Table) Records(withHeader bool) [][]string {
	records := make([][]string, 0, len(t.rows)+1)
	if withHeader && t.headers != nil {
		records = append(records, t.Headers())
	}
	for _, row := range t.rows {
		records = append(records, append([]string(nil), row...))
	}
	return records
}

// Encode writes the table as delimited text using dialect d.
func (t *Table) Encode(w io.Writer, d csvcodec.Dialect, withHeader bool) error {
	return csvcodec.Write(w, t.Records(withHeader), d)
}

// indexOf returns the first position of name, or -1.
func (t *Table) indexOf(name string) int {
	for i, h := range t.headers {
		if h == name {
			return i
		}
	}
	return -1
}

// indicesOf returns every position of name in header order.
func (t *Table) indicesOf(name string) []int {
	var out []int
	for i, h := range t.headers {
		if h == name {
			out = append(out, i)
		}
	}
	return out
}

// resolveIndex validates a position, accepting negative from-the-end values.
func (t *Table) resolveIndex(i int) (int, error) {
	width := t.Width()
	pos := i
	if pos < 0 {
		pos += width
	}
	if pos < 0 || pos >= width {
		return 0, fmt.Errorf("column %d: %w (width %d)", i, ErrIndexOutOfRange, width)
	}
	return pos, nil
}
