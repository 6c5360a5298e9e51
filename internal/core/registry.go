package core

import (
	"fmt"
	"sort"
	"sync"
)

// Schema is a named, reusable list of column specs.
type Schema struct {
	Key     string
	Label   string
	Group   string
	Columns []ColumnSpec
}

// Engine compiles the schema.
func (s Schema) Engine(opts ...Option) (*Engine, error) {
	e, err := NewEngine(s.Columns, opts...)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", s.Key, err)
	}
	return e, nil
}

var (
	registry   = make(map[string]Schema)
	registryMu sync.RWMutex
)

// RegisterSchema adds a schema to the registry.
// Panics if a schema with the same key is already registered.
func RegisterSchema(s Schema) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[s.Key]; exists {
		panic(fmt.Sprintf("schema already registered: %s", s.Key))
	}
	if s.Label == "" {
		s.Label = s.Key
	}

	registry[s.Key] = s
}

// GetSchema returns a schema by key.
// Returns false if not found.
func GetSchema(key string) (Schema, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	s, ok := registry[key]
	return s, ok
}

// LookupSchema is GetSchema with an ErrSchemaNotFound error for missing keys.
func LookupSchema(key string) (Schema, error) {
	s, ok := GetSchema(key)
	if !ok {
		return Schema{}, fmt.Errorf("%w: %q", ErrSchemaNotFound, key)
	}
	return s, nil
}

// Schemas returns all registered schemas.
// Sorted by group then by key for consistent ordering.
func Schemas() []Schema {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Schema, 0, len(registry))
	for _, s := range registry {
		result = append(result, s)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Group != result[j].Group {
			return result[i].Group < result[j].Group
		}
		return result[i].Key < result[j].Key
	})

	return result
}

// SchemaCount returns the number of registered schemas.
func SchemaCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// ClearSchemas removes all registered schemas.
// Primarily useful for testing.
func ClearSchemas() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]Schema)
}
