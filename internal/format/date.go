package format

// date.go compiles compact date patterns such as "Y-m-d H:i" into a
// formatter and a strict matcher.
//
// Pattern letters:
//
//	Y  four-digit year          y  two-digit year
//	m  month 01-12              n  month 1-12
//	d  day 01-31                j  day 1-31
//	H  hour 00-23               G  hour 0-23
//	h  hour 01-12               g  hour 1-12
//	i  minutes 00-59            s  seconds 00-59
//	v  milliseconds 000-999     U  Unix seconds
//	A  AM/PM                    a  am/pm
//	M  Jan-Dec                  F  January-December
//	D  Mon-Sun                  l  Monday-Sunday
//	O  offset +0200             P  offset +02:00
//
// Any other character is literal. A backslash makes the next character
// literal, so `\T` produces a "T".

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// InvalidDate is rendered in place of a value that does not parse as a date.
const InvalidDate = "Invalid Date"

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would result in dates more than this many years in the future
// are assumed to be in the previous century.
var TwoDigitYearPivot = 20

var (
	// ErrBadDatePattern is returned by CompileDate for an unusable pattern.
	ErrBadDatePattern = errors.New("invalid date pattern")

	// ErrDateMismatch is returned when a value does not match a date layout.
	ErrDateMismatch = errors.New("value does not match date format")
)

// DateLayout formats and parses dates. Compiled patterns and named presets
// both implement it.
type DateLayout interface {
	Format(t time.Time) string
	Parse(s string) (time.Time, error)
	Match(s string) bool
	String() string
}

var (
	shortMonths = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	longMonths  = []string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"}
	shortDays   = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	longDays    = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
)

// tokenPatterns holds the regexp fragment matched by each pattern letter.
var tokenPatterns = map[byte]string{
	'Y': `\d{4}`,
	'y': `\d{2}`,
	'm': `0[1-9]|1[0-2]`,
	'n': `1[0-2]|[1-9]`,
	'd': `0[1-9]|[12]\d|3[01]`,
	'j': `[12]\d|3[01]|[1-9]`,
	'H': `[01]\d|2[0-3]`,
	'G': `2[0-3]|1\d|\d`,
	'h': `0[1-9]|1[0-2]`,
	'g': `1[0-2]|[1-9]`,
	'i': `[0-5]\d`,
	's': `[0-5]\d`,
	'v': `\d{3}`,
	'U': `-?\d+`,
	'A': `AM|PM`,
	'a': `am|pm`,
	'M': `(?i:` + strings.Join(shortMonths, "|") + `)`,
	'F': `(?i:` + strings.Join(longMonths, "|") + `)`,
	'D': `(?i:` + strings.Join(shortDays, "|") + `)`,
	'l': `(?i:` + strings.Join(longDays, "|") + `)`,
	'O': `[+-]\d{4}`,
	'P': `[+-]\d{2}:\d{2}`,
}

type dateToken struct {
	letter  byte   // 0 for literal text
	literal string // literal text when letter is 0
}

// DateFormat is a compiled date pattern.
type DateFormat struct {
	pattern string
	tokens  []dateToken
	re      *regexp.Regexp
}

// CompileDate compiles a pattern into a DateFormat.
func CompileDate(pattern string) (*DateFormat, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%w: empty pattern", ErrBadDatePattern)
	}

	var tokens []dateToken
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			tokens = append(tokens, dateToken{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c == '\\' {
			if i+1 >= len(pattern) {
				return nil, fmt.Errorf("%w: trailing backslash in %q", ErrBadDatePattern, pattern)
			}
			i++
			lit.WriteByte(pattern[i])
			continue
		}
		if _, ok := tokenPatterns[c]; ok {
			flush()
			tokens = append(tokens, dateToken{letter: c})
			continue
		}
		lit.WriteByte(c)
	}
	flush()

	var re strings.Builder
	re.WriteString("^")
	for _, tok := range tokens {
		if tok.letter == 0 {
			re.WriteString(regexp.QuoteMeta(tok.literal))
			continue
		}
		re.WriteString("(" + tokenPatterns[tok.letter] + ")")
	}
	re.WriteString("$")

	compiled, err := regexp.Compile(re.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDatePattern, err)
	}
	return &DateFormat{pattern: pattern, tokens: tokens, re: compiled}, nil
}

// MustCompileDate is like CompileDate but panics on error.
func MustCompileDate(pattern string) *DateFormat {
	f, err := CompileDate(pattern)
	if err != nil {
		panic(err)
	}
	return f
}

// String returns the source pattern.
func (f *DateFormat) String() string {
	return f.pattern
}

// Regexp returns the anchored expression values are matched against.
func (f *DateFormat) Regexp() *regexp.Regexp {
	return f.re
}

// Match reports whether s has the shape of the pattern. It does not check
// calendar validity; use Parse for that.
func (f *DateFormat) Match(s string) bool {
	return f.re.MatchString(s)
}

// Format renders t using the pattern.
func (f *DateFormat) Format(t time.Time) string {
	var b strings.Builder
	for _, tok := range f.tokens {
		if tok.letter == 0 {
			b.WriteString(tok.literal)
			continue
		}
		b.WriteString(formatToken(tok.letter, t))
	}
	return b.String()
}

func formatToken(letter byte, t time.Time) string {
	hour12 := t.Hour() % 12
	if hour12 == 0 {
		hour12 = 12
	}
	switch letter {
	case 'Y':
		return fmt.Sprintf("%04d", t.Year())
	case 'y':
		return fmt.Sprintf("%02d", t.Year()%100)
	case 'm':
		return fmt.Sprintf("%02d", int(t.Month()))
	case 'n':
		return strconv.Itoa(int(t.Month()))
	case 'd':
		return fmt.Sprintf("%02d", t.Day())
	case 'j':
		return strconv.Itoa(t.Day())
	case 'H':
		return fmt.Sprintf("%02d", t.Hour())
	case 'G':
		return strconv.Itoa(t.Hour())
	case 'h':
		return fmt.Sprintf("%02d", hour12)
	case 'g':
		return strconv.Itoa(hour12)
	case 'i':
		return fmt.Sprintf("%02d", t.Minute())
	case 's':
		return fmt.Sprintf("%02d", t.Second())
	case 'v':
		return fmt.Sprintf("%03d", t.Nanosecond()/int(time.Millisecond))
	case 'U':
		return strconv.FormatInt(t.Unix(), 10)
	case 'A':
		if t.Hour() < 12 {
			return "AM"
		}
		return "PM"
	case 'a':
		if t.Hour() < 12 {
			return "am"
		}
		return "pm"
	case 'M':
		return shortMonths[t.Month()-1]
	case 'F':
		return longMonths[t.Month()-1]
	case 'D':
		return shortDays[t.Weekday()]
	case 'l':
		return longDays[t.Weekday()]
	case 'O':
		return t.Format("-0700")
	case 'P':
		return t.Format("-07:00")
	}
	return ""
}

// Parse reads s using the pattern. Missing components default to
// 1970-01-01 00:00:00. The result is in UTC unless an offset token names
// another zone, which is kept so the written calendar date survives.
// Calendar overflow such as February 30 is rejected.
func (f *DateFormat) Parse(s string) (time.Time, error) {
	m := f.re.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("%q against %q: %w", s, f.pattern, ErrDateMismatch)
	}

	year, month, day := 1970, 1, 1
	hour, minute, second, milli := 0, 0, 0, 0
	meridiem := ""
	loc := time.UTC
	var unix *int64

	group := 1
	for _, tok := range f.tokens {
		if tok.letter == 0 {
			continue
		}
		v := m[group]
		group++

		switch tok.letter {
		case 'Y':
			year, _ = strconv.Atoi(v)
		case 'y':
			yy, _ := strconv.Atoi(v)
			year = expandTwoDigitYear(yy)
		case 'm', 'n':
			month, _ = strconv.Atoi(v)
		case 'd', 'j':
			day, _ = strconv.Atoi(v)
		case 'H', 'G', 'h', 'g':
			hour, _ = strconv.Atoi(v)
		case 'i':
			minute, _ = strconv.Atoi(v)
		case 's':
			second, _ = strconv.Atoi(v)
		case 'v':
			milli, _ = strconv.Atoi(v)
		case 'U':
			u, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return time.Time{}, fmt.Errorf("%q: %w", s, ErrDateMismatch)
			}
			unix = &u
		case 'A', 'a':
			meridiem = strings.ToLower(v)
		case 'M':
			month = indexFold(shortMonths, v) + 1
		case 'F':
			month = indexFold(longMonths, v) + 1
		case 'O', 'P':
			loc = parseOffset(v)
		}
	}

	if unix != nil {
		return time.Unix(*unix, 0).UTC(), nil
	}

	switch meridiem {
	case "am":
		hour %= 12
	case "pm":
		hour = hour%12 + 12
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, milli*int(time.Millisecond), loc)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, fmt.Errorf("%q is not a calendar date: %w", s, ErrDateMismatch)
	}
	return t, nil
}

func expandTwoDigitYear(yy int) int {
	year := 2000 + yy
	if year > time.Now().Year()+TwoDigitYearPivot {
		year -= 100
	}
	return year
}

// parseOffset turns "+0200" or "+02:00" into a fixed zone.
func parseOffset(v string) *time.Location {
	sign := 1
	if v[0] == '-' {
		sign = -1
	}
	digits := strings.ReplaceAll(v[1:], ":", "")
	h, _ := strconv.Atoi(digits[:2])
	m, _ := strconv.Atoi(digits[2:])
	return time.FixedZone(v, sign*(h*3600+m*60))
}

func indexFold(list []string, v string) int {
	for i, s := range list {
		if strings.EqualFold(s, v) {
			return i
		}
	}
	return 0
}
