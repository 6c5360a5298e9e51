package tabular

import (
	"fmt"
	"strconv"
)

type keyKind int

const (
	keyEnd keyKind = iota
	keyName
	keyIndex
)

// Key selects a column by header name or by position. The zero Key is End,
// which AddColumn reads as "append".
type Key struct {
	kind  keyKind
	name  string
	index int
}

// End is the zero Key.
var End = Key{}

// Col selects every column named name.
func Col(name string) Key {
	return Key{kind: keyName, name: name}
}

// Pos selects the column at position i. Negative positions count from the end.
func Pos(i int) Key {
	return Key{kind: keyIndex, index: i}
}

// String returns the name, or the position in brackets.
func (k Key) String() string {
	switch k.kind {
	case keyName:
		return k.name
	case keyIndex:
		return "[" + strconv.Itoa(k.index) + "]"
	default:
		return "<end>"
	}
}

// resolveAll returns every column position selected by k.
func (t *Table) resolveAll(k Key) ([]int, error) {
	switch k.kind {
	case keyName:
		if t.headers == nil {
			return nil, ErrNoHeaders
		}
		idx := t.indicesOf(k.name)
		if len(idx) == 0 {
			return nil, fmt.Errorf("%q: %w", k.name, ErrColumnNotFound)
		}
		return idx, nil
	case keyIndex:
		i, err := t.resolveIndex(k.index)
		if err != nil {
			return nil, err
		}
		return []int{i}, nil
	default:
		return nil, fmt.Errorf("empty column key: %w", ErrColumnNotFound)
	}
}

// AddColumn inserts a column filled with value. With End the column is
// appended; with Col(name) it goes right after the last column called name;
// with Pos(i) it is inserted at position i (0 through Width).
func (t *Table) AddColumn(name string, at Key, value string) error {
	width := t.Width()
	pos := width

	switch at.kind {
	case keyName:
		if t.headers == nil {
			return ErrNoHeaders
		}
		idx := t.indicesOf(at.name)
		if len(idx) == 0 {
			return fmt.Errorf("add after %q: %w", at.name, ErrColumnNotFound)
		}
		pos = idx[len(idx)-1] + 1
	case keyIndex:
		if at.index < 0 || at.index > width {
			return fmt.Errorf("add at %d: %w (width %d)", at.index, ErrIndexOutOfRange, width)
		}
		pos = at.index
	}

	if t.headers != nil {
		t.headers = insertAt(t.headers, pos, name)
	}
	for i, row := range t.rows {
		t.rows[i] = insertAt(row, pos, value)
	}
	return nil
}

// RenameColumn renames every column called from.
func (t *Table) RenameColumn(from, to string) error {
	idx, err := t.resolveAll(Col(from))
	if err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	for _, i := range idx {
		t.headers[i] = to
	}
	return nil
}

// RenameColumnAt renames the single column at position i.
func (t *Table) RenameColumnAt(i int, to string) error {
	if t.headers == nil {
		return ErrNoHeaders
	}
	pos, err := t.resolveIndex(i)
	if err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	t.headers[pos] = to
	return nil
}

// RemoveColumn removes columns. Col(name) removes every occurrence; Pos(i)
// removes exactly one position.
func (t *Table) RemoveColumn(k Key) error {
	if k.kind == keyIndex {
		pos, err := t.resolveIndex(k.index)
		if err != nil {
			return fmt.Errorf("remove: %w", err)
		}
		t.removeAt(pos)
		return nil
	}

	if _, err := t.resolveAll(k); err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	// Positions shift after each removal, so look the name up again each time.
	for pos := t.indexOf(k.name); pos >= 0; pos = t.indexOf(k.name) {
		t.removeAt(pos)
	}
	return nil
}

// ReorderColumns moves the selected columns to the front in the given order.
// A name pulls every remaining column with that name, in encounter order.
// Positions are resolved against the original layout before anything moves.
// Columns not mentioned keep their relative order after the selected ones.
func (t *Table) ReorderColumns(order ...Key) error {
	width := t.Width()

	resolved := make([]int, len(order))
	for i, k := range order {
		idx, err := t.resolveAll(k)
		if err != nil {
			return fmt.Errorf("reorder: %w", err)
		}
		resolved[i] = idx[0]
	}

	taken := make([]bool, width)
	perm := make([]int, 0, width)

	for i, k := range order {
		if k.kind == keyIndex {
			if j := resolved[i]; !taken[j] {
				taken[j] = true
				perm = append(perm, j)
			}
			continue
		}
		for j, h := range t.headers {
			if h == k.name && !taken[j] {
				taken[j] = true
				perm = append(perm, j)
			}
		}
	}
	for j := 0; j < width; j++ {
		if !taken[j] {
			perm = append(perm, j)
		}
	}

	t.permute(perm)
	return nil
}

// Remap describes one source column (or every column sharing a name) and
// the target names it becomes.
type Remap struct {
	Source  Key
	Targets []string
}

// RemapColumn renames source into targets. See RemapColumns.
func (t *Table) RemapColumn(source Key, targets ...string) error {
	return t.RemapColumns(Remap{Source: source, Targets: targets})
}

// RemapColumns applies every remap against the current layout at once:
//
//   - one source, many targets: the source is renamed to the first target and
//     each further target is appended as a copy of the source's values
//   - many sources, one target: every source is renamed to the target
//   - many sources, as many targets: sources are renamed pairwise
//
// Any other arity fails with ErrArityMismatch. All sources are resolved and
// all copies are taken before the table changes, so one remap never sees the
// renames of another. Nothing is modified when an error is returned.
func (t *Table) RemapColumns(remaps ...Remap) error {
	if t.headers == nil {
		return ErrNoHeaders
	}

	type rename struct {
		pos  int
		name string
	}
	type copyCol struct {
		name   string
		values []string
	}

	var renames []rename
	var copies []copyCol

	for _, rm := range remaps {
		if len(rm.Targets) == 0 {
			return fmt.Errorf("remap %s: %w", rm.Source, ErrNoTargets)
		}
		sources, err := t.resolveAll(rm.Source)
		if err != nil {
			return fmt.Errorf("remap: %w", err)
		}

		switch {
		case len(sources) == 1:
			renames = append(renames, rename{pos: sources[0], name: rm.Targets[0]})
			for _, target := range rm.Targets[1:] {
				copies = append(copies, copyCol{name: target, values: t.columnValues(sources[0])})
			}
		case len(rm.Targets) == 1:
			for _, pos := range sources {
				renames = append(renames, rename{pos: pos, name: rm.Targets[0]})
			}
		case len(rm.Targets) == len(sources):
			for i, pos := range sources {
				renames = append(renames, rename{pos: pos, name: rm.Targets[i]})
			}
		default:
			return fmt.Errorf("remap %s: %w (%d sources, %d targets)",
				rm.Source, ErrArityMismatch, len(sources), len(rm.Targets))
		}
	}

	for _, r := range renames {
		t.headers[r.pos] = r.name
	}
	for _, c := range copies {
		t.headers = append(t.headers, c.name)
		for i := range t.rows {
			t.rows[i] = append(t.rows[i], c.values[i])
		}
	}
	return nil
}

// columnValues snapshots one column.
func (t *Table) columnValues(pos int) []string {
	values := make([]string, len(t.rows))
	for i, row := range t.rows {
		values[i] = row[pos]
	}
	return values
}

func (t *Table) removeAt(pos int) {
	if t.headers != nil {
		t.headers = append(t.headers[:pos], t.headers[pos+1:]...)
	}
	for i, row := range t.rows {
		t.rows[i] = append(row[:pos], row[pos+1:]...)
	}
}

func (t *Table) permute(perm []int) {
	if t.headers != nil {
		headers := make([]string, len(perm))
		for i, j := range perm {
			headers[i] = t.headers[j]
		}
		t.headers = headers
	}
	for r, row := range t.rows {
		next := make([]string, len(perm))
		for i, j := range perm {
			next[i] = row[j]
		}
		t.rows[r] = next
	}
}

func insertAt(s []string, pos int, v string) []string {
	s = append(s, "")
	copy(s[pos+1:], s[pos:])
	s[pos] = v
	return s
}
