package core

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/JonMunkholm/csvmap/internal/format"
)

// StepFactory builds the function for one Transform step. It is called once
// per column when an engine is created, so layouts and options are resolved
// up front.
type StepFactory func(t Transform) (TransformFunc, error)

var (
	transforms   = make(map[string]StepFactory)
	transformsMu sync.RWMutex
)

func init() {
	for name, fn := range map[string]func(string) string{
		"trim":       strings.TrimSpace,
		"uppercase":  format.Upper,
		"lowercase":  format.Lower,
		"titlecase":  format.Title,
		"capitalize": format.Capitalize,
		"camelcase":  format.Camel,
		"pascalcase": format.Pascal,
		"snakecase":  format.Snake,
		"kebabcase":  format.Kebab,
		"number":     format.NormalizeNumber,
		"boolean":    formatBoolean,
	} {
		RegisterTransform(name, fn)
	}
	RegisterTransformFactory("date", dateStep)
}

// RegisterTransform adds a named string-to-string step.
// Panics if a step with the same name is already registered.
func RegisterTransform(name string, fn func(string) string) {
	RegisterTransformFactory(name, func(Transform) (TransformFunc, error) {
		return func(value string, _ CellContext) (string, error) {
			return fn(value), nil
		}, nil
	})
}

// RegisterTransformFactory adds a named step whose function depends on the
// Transform's options.
// Panics if a step with the same name is already registered.
func RegisterTransformFactory(name string, factory StepFactory) {
	transformsMu.Lock()
	defer transformsMu.Unlock()

	key := strings.ToLower(name)
	if _, exists := transforms[key]; exists {
		panic(fmt.Sprintf("transform already registered: %s", name))
	}
	transforms[key] = factory
}

// TransformNames returns the registered step names, sorted.
func TransformNames() []string {
	transformsMu.RLock()
	defer transformsMu.RUnlock()

	names := make([]string, 0, len(transforms))
	for name := range transforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// compileTransform resolves a step to its function.
func compileTransform(t Transform) (TransformFunc, error) {
	if t.Func != nil {
		return t.Func, nil
	}

	transformsMu.RLock()
	factory, ok := transforms[strings.ToLower(t.Name)]
	transformsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransform, t.Name)
	}

	fn, err := factory(t)
	if err != nil {
		return nil, fmt.Errorf("transform %s: %w", t.Name, err)
	}
	return fn, nil
}

// formatBoolean leaves empty cells empty.
func formatBoolean(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return format.FormatBool(format.GuessBool(s))
}

func dateStep(t Transform) (TransformFunc, error) {
	out, err := format.LookupDate(t.Format)
	if err != nil {
		return nil, err
	}

	var in format.DateLayout
	if t.InputFormat != "" {
		if in, err = format.LookupDate(t.InputFormat); err != nil {
			return nil, err
		}
	}

	return func(value string, _ CellContext) (string, error) {
		return format.ReformatDate(value, out, in), nil
	}, nil
}

// step is a compiled pipeline stage.
type step struct {
	name string
	fn   TransformFunc
}

// stepFailure is a step that returned an error or panicked.
type stepFailure struct {
	step  string
	value string
	err   error
}

// cellOutcome is the result of running a pipeline over one cell. The value
// is always usable: a failed step leaves the value it received in place.
type cellOutcome struct {
	value    string
	failures []stepFailure
}

// runPipeline applies every step in order.
func runPipeline(steps []step, value string, cell CellContext) cellOutcome {
	out := cellOutcome{value: value}
	for _, s := range steps {
		next, err := safeStep(s.fn, out.value, cell)
		if err != nil {
			out.failures = append(out.failures, stepFailure{step: s.name, value: out.value, err: err})
			continue
		}
		out.value = next
	}
	return out
}

// safeStep reports a panicking step as an error.
func safeStep(fn TransformFunc, value string, cell CellContext) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = value, fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(value, cell)
}
