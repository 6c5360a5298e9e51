package core

// validation.go checks transformed cell values against column rules.
//
// Rules never abort a transform. Every failure becomes a ValidationError
// and is aggregated into a ValidationResult:
//  1. Typed rules (number, date, enum, ...) carry a default message
//  2. Custom rules may return their own message
//  3. ColumnSpec.Message is the fallback when neither produced text

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/JonMunkholm/csvmap/internal/format"
	"github.com/JonMunkholm/csvmap/internal/tabular"
)

// genericMessage is used when no rule or spec supplies a message.
const genericMessage = "invalid value"

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidationError represents a single validation failure for a cell.
type ValidationError struct {
	RowIndex int         `json:"row"`     // Zero-based data row index
	Row      tabular.Row `json:"-"`       // View of the output row
	Field    string      `json:"field"`   // ColumnSpec.Name
	Message  string      `json:"message"` // Human-readable error message
	Value    string      `json:"value"`   // The invalid value
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("row %d, %s: %s", e.RowIndex, e.Field, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.RowIndex, e.Message)
}

// ValidationResult holds every validation failure of a transform plus
// aggregate counts.
type ValidationResult struct {
	Errors      []ValidationError `json:"errors"`
	TotalRows   int               `json:"totalRows"`
	ErrorRows   int               `json:"errorRows"`  // Rows with at least one error
	ErrorCount  int               `json:"errorCount"` // Total number of errors
	FieldErrors map[string]int    `json:"fieldErrors"`
}

// Valid reports whether no cell failed validation.
func (r ValidationResult) Valid() bool {
	return r.ErrorCount == 0
}

// ErrorsFor returns the failures for one field.
func (r ValidationResult) ErrorsFor(field string) []ValidationError {
	var out []ValidationError
	for _, e := range r.Errors {
		if e.Field == field {
			out = append(out, e)
		}
	}
	return out
}

// newValidationResult aggregates errs for a table of totalRows rows.
func newValidationResult(errs []ValidationError, totalRows int) ValidationResult {
	res := ValidationResult{
		Errors:      errs,
		TotalRows:   totalRows,
		ErrorCount:  len(errs),
		FieldErrors: make(map[string]int),
	}
	rows := make(map[int]bool)
	for _, e := range errs {
		rows[e.RowIndex] = true
		res.FieldErrors[e.Field]++
	}
	res.ErrorRows = len(rows)
	if res.Errors == nil {
		res.Errors = []ValidationError{}
	}
	return res
}

// typedCheck validates a value and returns the type-specific message on
// failure.
type typedCheck func(value string) (bool, string)

// compiledRule is a Rule with its pattern or layout resolved.
type compiledRule struct {
	typed   typedCheck
	custom  ValidateFunc
	message string
}

// check runs the rule. On failure the message is chosen in order: custom
// rule output, Rule.Message, the type's default, the spec's Message, then a
// generic text.
func (r *compiledRule) check(value string, cell CellContext) (bool, string) {
	var custom, typed string
	ok := true
	if r.typed != nil {
		ok, typed = r.typed(value)
	}
	if ok && r.custom != nil {
		ok, custom = safeValidate(r.custom, value, cell)
	}
	if ok {
		return true, ""
	}

	for _, msg := range []string{custom, r.message, typed, cell.Spec.Message} {
		if msg != "" {
			return false, msg
		}
	}
	return false, genericMessage
}

// safeValidate treats a panicking custom rule as a failed check.
func safeValidate(fn ValidateFunc, value string, cell CellContext) (ok bool, msg string) {
	defer func() {
		if r := recover(); r != nil {
			ok, msg = false, fmt.Sprintf("validator panicked: %v", r)
		}
	}()
	return fn(value, cell)
}

// compileRule resolves a Rule once per engine.
func compileRule(r *Rule) (*compiledRule, error) {
	cr := &compiledRule{custom: r.Func, message: r.Message}

	switch r.Type {
	case "", RuleCustom:
		if r.Func == nil {
			return nil, fmt.Errorf("%w: custom rule without a function", ErrInvalidRule)
		}
		return cr, nil
	case RulePattern:
		if r.Pattern == "" {
			return nil, fmt.Errorf("%w: pattern rule without a pattern", ErrInvalidRule)
		}
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
		}
		cr.typed = optional(func(v string) (bool, string) {
			return re.MatchString(v), "value does not match the expected pattern"
		})
	case RuleNumber, RuleInteger:
		if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
			return nil, fmt.Errorf("%w: min %g is greater than max %g", ErrInvalidRule, *r.Min, *r.Max)
		}
		cr.typed = optional(numberCheck(r.Type == RuleInteger, r.Min, r.Max))
	case RuleBoolean:
		cr.typed = optional(func(v string) (bool, string) {
			_, ok := format.ParseBool(v)
			return ok, "must be yes/no, true/false, or 1/0"
		})
	case RuleDate:
		check, err := dateCheck(r.Format)
		if err != nil {
			return nil, err
		}
		cr.typed = optional(check)
	case RuleEmail:
		cr.typed = optional(func(v string) (bool, string) {
			return emailRegex.MatchString(v), "invalid email address"
		})
	case RuleEnum:
		if len(r.Values) == 0 {
			return nil, fmt.Errorf("%w: enum rule without values", ErrInvalidRule)
		}
		values := append([]string(nil), r.Values...)
		cr.typed = optional(func(v string) (bool, string) {
			for _, ev := range values {
				if strings.EqualFold(ev, v) {
					return true, ""
				}
			}
			return false, fmt.Sprintf("value must be one of: %s", strings.Join(values, ", "))
		})
	case RuleRequired:
		cr.typed = func(v string) (bool, string) {
			return strings.TrimSpace(v) != "", "required field is empty"
		}
	default:
		return nil, fmt.Errorf("%w: unknown rule type %q", ErrInvalidRule, r.Type)
	}
	return cr, nil
}

// optional wraps a check so that empty values pass.
func optional(check typedCheck) typedCheck {
	return func(v string) (bool, string) {
		if strings.TrimSpace(v) == "" {
			return true, ""
		}
		return check(v)
	}
}

func numberCheck(integer bool, min, max *float64) typedCheck {
	return func(v string) (bool, string) {
		f, ok := format.ParseFloat(v)
		if !ok {
			return false, "invalid number format"
		}
		if integer && !format.IsInteger(v) {
			return false, "must be a whole number"
		}
		if min != nil && f < *min {
			return false, fmt.Sprintf("must be at least %g", *min)
		}
		if max != nil && f > *max {
			return false, fmt.Sprintf("must be at most %g", *max)
		}
		return true, ""
	}
}

func dateCheck(layout string) (typedCheck, error) {
	if layout == "" {
		return func(v string) (bool, string) {
			_, ok := format.ParseDateAny(v)
			return ok, "invalid date format (use YYYY-MM-DD or similar)"
		}, nil
	}

	dl, err := format.LookupDate(layout)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}
	msg := fmt.Sprintf("invalid date format (expected %s)", dl)
	return func(v string) (bool, string) {
		_, err := dl.Parse(v)
		return err == nil, msg
	}, nil
}
