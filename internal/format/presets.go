package format

import (
	"fmt"
	"strings"
	"time"
)

// presetLayout is a named Go time layout.
type presetLayout struct {
	name   string
	layout string
}

func (p presetLayout) Format(t time.Time) string { return t.Format(p.layout) }

func (p presetLayout) Parse(s string) (time.Time, error) {
	t, err := time.Parse(p.layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q against %s: %w", s, p.name, ErrDateMismatch)
	}
	return t, nil
}

func (p presetLayout) Match(s string) bool {
	_, err := p.Parse(s)
	return err == nil
}

func (p presetLayout) String() string { return p.name }

// DefaultDateOutput is the preset used when a date step names no format.
const DefaultDateOutput = "iso"

// presets are checked, case-insensitively, before a format string is
// compiled as a pattern.
var presets = map[string]string{
	"iso":         time.RFC3339,
	"iso8601":     time.RFC3339,
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"rfc1123":     time.RFC1123,
	"rfc1123z":    time.RFC1123Z,
	"rfc850":      time.RFC850,
	"rfc822":      time.RFC822,
	"rfc822z":     time.RFC822Z,
	"rfc2822":     "Mon, 02 Jan 2006 15:04:05 -0700",
	"ansic":       time.ANSIC,
	"http":        "Mon, 02 Jan 2006 15:04:05 GMT",
}

// Preset returns the named preset layout.
func Preset(name string) (DateLayout, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	layout, ok := presets[key]
	if !ok {
		return nil, false
	}
	return presetLayout{name: key, layout: layout}, true
}

// LookupDate resolves spec as a preset name first and compiles it as a
// pattern otherwise. An empty spec selects DefaultDateOutput.
func LookupDate(spec string) (DateLayout, error) {
	if spec == "" {
		spec = DefaultDateOutput
	}
	if p, ok := Preset(spec); ok {
		return p, nil
	}
	f, err := CompileDate(spec)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Layouts tried by ParseDateAny, split by year format for proper 2-digit
// year handling.
var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		"2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02 15:04",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"2006-01-02", "2006/01/02", "2006.01.02",
		"Jan 2, 2006", "January 2, 2006", "2 Jan 2006", "02-Jan-2006",
		"20060102",
	}
	anyPresetOrder = []string{"rfc3339nano", "rfc1123z", "rfc1123", "rfc850", "rfc822z", "rfc822", "ansic"}
)

// ParseDateAny parses s with no declared format. Presets are tried first,
// then common spreadsheet layouts with four-digit years, then two-digit year
// layouts with the TwoDigitYearPivot applied.
func ParseDateAny(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, name := range anyPresetOrder {
		if t, err := time.Parse(presets[name], s); err == nil {
			return t, true
		}
	}

	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t, true
		}
	}

	return time.Time{}, false
}

// ReformatDate parses s with in (or ParseDateAny when in is nil) and renders
// it with out. Unparseable values render as InvalidDate; empty input stays
// empty.
func ReformatDate(s string, out, in DateLayout) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}

	var t time.Time
	if in != nil {
		parsed, err := in.Parse(strings.TrimSpace(s))
		if err != nil {
			return InvalidDate
		}
		t = parsed
	} else {
		parsed, ok := ParseDateAny(s)
		if !ok {
			return InvalidDate
		}
		t = parsed
	}
	return out.Format(t)
}
