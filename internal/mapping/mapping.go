// Package mapping holds the source header to target column correspondence
// that drives an import.
package mapping

import "sort"

// Entry is one source header with the targets it feeds, in order.
type Entry struct {
	Source  string   `json:"source" yaml:"source"`
	Targets []string `json:"targets" yaml:"targets"`
}

// Mapping maps each source header to one or more target column names.
// Sources keep insertion order. The zero value is an empty mapping.
type Mapping struct {
	order   []string
	targets map[string][]string
}

// New returns an empty mapping.
func New() *Mapping {
	return &Mapping{targets: make(map[string][]string)}
}

// FromMap builds a mapping from a plain map. Sources are added in sorted
// order since Go maps carry none.
func FromMap(m map[string][]string) *Mapping {
	out := New()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out.Set(k, m[k]...)
	}
	return out
}

// Set replaces the targets of source. With no targets the source is removed.
// Repeated target names are collapsed.
func (m *Mapping) Set(source string, targets ...string) {
	if len(targets) == 0 {
		m.Delete(source)
		return
	}
	if m.targets == nil {
		m.targets = make(map[string][]string)
	}
	if _, ok := m.targets[source]; !ok {
		m.order = append(m.order, source)
	}
	m.targets[source] = uniq(targets)
}

// Add appends target to source. It reports false when the pair already exists.
func (m *Mapping) Add(source, target string) bool {
	for _, t := range m.targets[source] {
		if t == target {
			return false
		}
	}
	m.Set(source, append(m.Targets(source), target)...)
	return true
}

// Remove drops one target from source, deleting the source when it has no
// targets left. It reports whether anything was removed.
func (m *Mapping) Remove(source, target string) bool {
	cur := m.targets[source]
	for i, t := range cur {
		if t == target {
			next := append(append([]string(nil), cur[:i]...), cur[i+1:]...)
			m.Set(source, next...)
			return true
		}
	}
	return false
}

// Delete removes source and all its targets.
func (m *Mapping) Delete(source string) {
	if _, ok := m.targets[source]; !ok {
		return
	}
	delete(m.targets, source)
	for i, s := range m.order {
		if s == source {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Targets returns a copy of the targets of source.
func (m *Mapping) Targets(source string) []string {
	return append([]string(nil), m.targets[source]...)
}

// Has reports whether source is mapped.
func (m *Mapping) Has(source string) bool {
	_, ok := m.targets[source]
	return ok
}

// Sources returns the mapped source headers in insertion order.
func (m *Mapping) Sources() []string {
	return append([]string(nil), m.order...)
}

// AllTargets counts how many sources feed each target.
func (m *Mapping) AllTargets() map[string]int {
	out := make(map[string]int)
	for _, ts := range m.targets {
		for _, t := range ts {
			out[t]++
		}
	}
	return out
}

// SourcesOf returns the sources that feed target, in insertion order.
func (m *Mapping) SourcesOf(target string) []string {
	var out []string
	for _, s := range m.order {
		for _, t := range m.targets[s] {
			if t == target {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// Len returns the number of mapped sources.
func (m *Mapping) Len() int {
	return len(m.order)
}

// Clone returns an independent copy.
func (m *Mapping) Clone() *Mapping {
	c := New()
	for _, s := range m.order {
		c.Set(s, m.targets[s]...)
	}
	return c
}

// Entries returns every source with its targets in insertion order.
func (m *Mapping) Entries() []Entry {
	out := make([]Entry, 0, len(m.order))
	for _, s := range m.order {
		out = append(out, Entry{Source: s, Targets: m.Targets(s)})
	}
	return out
}

// Map returns the mapping as a plain map.
func (m *Mapping) Map() map[string][]string {
	out := make(map[string][]string, len(m.order))
	for _, s := range m.order {
		out[s] = m.Targets(s)
	}
	return out
}

func uniq(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
