// Package format converts raw cell text into normalized values: exact
// decimals, booleans, re-cased strings and dates.
//
// Every function takes and returns plain strings so the engine can chain
// them as pipeline steps. Nothing here keeps state between calls.
package format

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Upper upper-cases s.
func Upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

// Lower lower-cases s.
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// Title upper-cases the first letter of every word and lower-cases the rest.
func Title(s string) string {
	return cases.Title(language.Und).String(s)
}

// Capitalize upper-cases the first letter of s and lower-cases the rest.
func Capitalize(s string) string {
	r := []rune(Lower(s))
	for i, c := range r {
		if unicode.IsLetter(c) {
			r[i] = unicode.ToUpper(c)
			break
		}
	}
	return string(r)
}

// Camel joins the words of s as camelCase.
func Camel(s string) string {
	words := Words(s)
	for i, w := range words {
		if i == 0 {
			words[i] = Lower(w)
			continue
		}
		words[i] = Capitalize(w)
	}
	return strings.Join(words, "")
}

// Pascal joins the words of s as PascalCase.
func Pascal(s string) string {
	words := Words(s)
	for i, w := range words {
		words[i] = Capitalize(w)
	}
	return strings.Join(words, "")
}

// Snake joins the lower-cased words of s with underscores.
func Snake(s string) string {
	return joinLower(Words(s), "_")
}

// Kebab joins the lower-cased words of s with hyphens.
func Kebab(s string) string {
	return joinLower(Words(s), "-")
}

func joinLower(words []string, sep string) string {
	for i, w := range words {
		words[i] = Lower(w)
	}
	return strings.Join(words, sep)
}

// Words splits s at non-alphanumeric runes and at case changes, keeping
// acronyms together: "HTTPServer id_2" yields [HTTP Server id 2].
func Words(s string) []string {
	var words []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = nil
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(cur) > 0 {
			prev := cur[len(cur)-1]
			switch {
			case unicode.IsLower(prev) && unicode.IsUpper(r):
				flush()
			case unicode.IsUpper(prev) && unicode.IsUpper(r) &&
				i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				flush()
			case unicode.IsDigit(prev) != unicode.IsDigit(r):
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// GuessBool reads common yes/no spellings case-insensitively: true, 1, yes
// and y are true; false, 0, no and n are false. Anything else is true when
// non-empty.
func GuessBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y":
		return true
	case "false", "0", "no", "n", "":
		return false
	default:
		return true
	}
}

// ParseBool accepts only recognized spellings: true/false, t/f, yes/no,
// y/n and 1/0. It reports false for anything else.
func ParseBool(s string) (value bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "1":
		return true, true
	case "false", "f", "no", "n", "0":
		return false, true
	default:
		return false, false
	}
}

// FormatBool renders a boolean as "true" or "false".
func FormatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
