// Package tables registers the built-in schemas with the core registry.
// Import this package to ensure all schemas are registered.
package tables

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/csvmap/internal/core"
	"github.com/JonMunkholm/csvmap/internal/format"
)

// This file exists to provide a single import point.
// Each schema file uses init() to register its schemas.

// DateOutput is the layout dates are written in.
const DateOutput = "Y-m-d"

// text is a trimmed text column.
func text(name string) core.ColumnSpec {
	return core.ColumnSpec{Name: name, Transforms: []core.Transform{core.Step("trim")}}
}

// numeric normalizes locale-formatted numbers and rejects anything else.
func numeric(name string) core.ColumnSpec {
	return core.ColumnSpec{
		Name:       name,
		Transforms: []core.Transform{strictNumber},
		Rule:       &core.Rule{Type: core.RuleNumber},
	}
}

// integer is numeric restricted to whole numbers.
func integer(name string) core.ColumnSpec {
	spec := numeric(name)
	spec.Rule = &core.Rule{Type: core.RuleInteger}
	return spec
}

// date accepts the common spreadsheet layouts and writes DateOutput. Values
// no layout accepts become core's invalid date marker and fail the rule.
func date(name string) core.ColumnSpec {
	return core.ColumnSpec{
		Name:       name,
		Transforms: []core.Transform{{Name: "date", Format: DateOutput}},
		Rule:       &core.Rule{Type: core.RuleDate, Format: DateOutput},
	}
}

// boolean writes recognized yes/no spellings as true or false. Other values
// fail the step, keep their raw text and are then rejected by the rule.
func boolean(name string) core.ColumnSpec {
	return core.ColumnSpec{
		Name:       name,
		Transforms: []core.Transform{strictBool},
		Rule:       &core.Rule{Type: core.RuleBoolean},
	}
}

var strictBool = core.Transform{
	Name: "boolean",
	Func: func(v string, _ core.CellContext) (string, error) {
		if strings.TrimSpace(v) == "" {
			return "", nil
		}
		b, ok := format.ParseBool(v)
		if !ok {
			return v, fmt.Errorf("%w: %q", errNotBool, v)
		}
		return format.FormatBool(b), nil
	},
}

// strictNumber is the number transform, except that unparseable values fail
// the step instead of becoming empty.
var strictNumber = core.Transform{
	Name: "number",
	Func: func(v string, _ core.CellContext) (string, error) {
		if strings.TrimSpace(v) == "" {
			return "", nil
		}
		n, ok := format.ParseNumber(v)
		if !ok {
			return v, fmt.Errorf("%w: %q", errNotNumber, v)
		}
		return format.FormatNumeric(n), nil
	},
}

var (
	errNotBool   = errors.New("not a boolean")
	errNotNumber = errors.New("not a number")
)

// titled sets the display title scored by the auto-mapper.
func titled(spec core.ColumnSpec, title string) core.ColumnSpec {
	spec.Title = title
	return spec
}

// required marks spec as needing a source.
func required(spec core.ColumnSpec) core.ColumnSpec {
	spec.Required = true
	return spec
}
