package tabular

import (
	"fmt"
	"iter"
)

// Cell is the result of a name-based lookup. A header list may repeat a name,
// so a lookup yields either one value or several in column order.
type Cell struct {
	values []string
}

// One returns a single-valued cell.
func One(v string) Cell {
	return Cell{values: []string{v}}
}

// Many returns a multi-valued cell. The slice is copied.
func Many(vs []string) Cell {
	return Cell{values: append([]string(nil), vs...)}
}

// IsMany reports whether more than one column matched.
func (c Cell) IsMany() bool {
	return len(c.values) > 1
}

// Value returns the first matched value.
func (c Cell) Value() string {
	if len(c.values) == 0 {
		return ""
	}
	return c.values[0]
}

// Values returns every matched value in column order.
func (c Cell) Values() []string {
	return append([]string(nil), c.values...)
}

// Len returns the number of matched columns.
func (c Cell) Len() int {
	return len(c.values)
}

// Entry is one cell of a row together with its position and header.
type Entry struct {
	Index     int
	Value     string
	Header    string
	HasHeader bool
}

// Row is a positional view over one row of a table. It shares the table's
// headers and sees later mutations of the table.
type Row struct {
	table *Table
	index int
}

// Index returns the row's position in its table.
func (r Row) Index() int {
	return r.index
}

// Len returns the number of cells.
func (r Row) Len() int {
	if r.table == nil || r.index >= len(r.table.rows) {
		return 0
	}
	return len(r.table.rows[r.index])
}

// At returns the cell at position i.
func (r Row) At(i int) (string, error) {
	if r.table == nil {
		return "", fmt.Errorf("row %d: %w", r.index, ErrIndexOutOfRange)
	}
	return r.table.Cell(r.index, i)
}

// Get returns the cell for a header name. When several columns share the
// name the result holds every value in column order.
func (r Row) Get(name string) (Cell, error) {
	if r.table == nil || r.table.headers == nil {
		return Cell{}, ErrNoHeaders
	}
	idx := r.table.indicesOf(name)
	if len(idx) == 0 {
		return Cell{}, fmt.Errorf("%q: %w", name, ErrColumnNotFound)
	}
	values := make([]string, 0, len(idx))
	for _, i := range idx {
		v, err := r.At(i)
		if err != nil {
			return Cell{}, err
		}
		values = append(values, v)
	}
	return Cell{values: values}, nil
}

// Values returns a copy of the row's cells.
func (r Row) Values() []string {
	if r.table == nil || r.index >= len(r.table.rows) {
		return nil
	}
	return append([]string(nil), r.table.rows[r.index]...)
}

// Entries yields every cell with its index and header, in column order.
func (r Row) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		n := r.Len()
		for i := 0; i < n; i++ {
			e := Entry{Index: i, Value: r.table.rows[r.index][i]}
			if r.table.headers != nil && i < len(r.table.headers) {
				e.Header = r.table.headers[i]
				e.HasHeader = true
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Arrange returns the row's values in the order of headers. Repeated names
// consume successive occurrences left to right.
func (r Row) Arrange(headers []string) ([]string, error) {
	if r.table == nil || r.table.headers == nil {
		return nil, ErrNoHeaders
	}

	used := make([]bool, len(r.table.headers))
	out := make([]string, 0, len(headers))

	for _, name := range headers {
		pos := -1
		for i, h := range r.table.headers {
			if !used[i] && h == name {
				pos = i
				break
			}
		}
		if pos < 0 {
			return nil, fmt.Errorf("arrange %q: %w", name, ErrColumnNotFound)
		}
		used[pos] = true

		v, err := r.At(pos)
		if err != nil {
			return nil, fmt.Errorf("arrange %q: %w", name, err)
		}
		out = append(out, v)
	}

	return out, nil
}

// Iterator walks a table's rows with a single cursor. It is not safe for
// use from more than one goroutine; create one iterator per caller.
type Iterator struct {
	table  *Table
	cursor int
}

// Iter returns a new iterator positioned before the first row.
func (t *Table) Iter() *Iterator {
	return &Iterator{table: t}
}

// Next returns the next row, or false once the table is exhausted.
// An exhausted iterator keeps returning false until Rewind is called.
func (it *Iterator) Next() (Row, bool) {
	if it.cursor >= len(it.table.rows) {
		return Row{}, false
	}
	r := Row{table: it.table, index: it.cursor}
	it.cursor++
	return r, true
}

// Rewind resets the cursor to the first row.
func (it *Iterator) Rewind() {
	it.cursor = 0
}

// Rows yields every row view in index order.
func (t *Table) Rows() iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for i := range t.rows {
			if !yield(Row{table: t, index: i}) {
				return
			}
		}
	}
}
