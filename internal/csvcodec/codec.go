// Package csvcodec parses and serializes delimited text.
//
// Parse accepts raw bytes as they come off disk: a UTF-8 byte order mark is
// stripped, invalid UTF-8 is replaced with U+FFFD, and the separator is
// sniffed from the leading lines when the caller does not fix one.
// Serialize is the inverse and quotes only the fields that need it.
package csvcodec

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// DefaultSampleLines is how many leading lines the sniffer inspects.
const DefaultSampleLines = 10

// ErrEmptyInput is returned when there is nothing to parse.
var ErrEmptyInput = errors.New("input is empty")

// candidateSeparators are tried in order; earlier entries win ties.
var candidateSeparators = []rune{',', ';', '\t', '|'}

// Dialect describes how delimited text is structured.
type Dialect struct {
	Separator rune
	Quote     rune
	Escape    rune // equal to Quote means quotes are escaped by doubling
	Newline   string
}

// DefaultDialect is RFC 4180 with LF line endings.
func DefaultDialect() Dialect {
	return Dialect{Separator: ',', Quote: '"', Escape: '"', Newline: "\n"}
}

// withDefaults fills zero fields from DefaultDialect.
func (d Dialect) withDefaults() Dialect {
	def := DefaultDialect()
	if d.Separator == 0 {
		d.Separator = def.Separator
	}
	if d.Quote == 0 {
		d.Quote = def.Quote
	}
	if d.Escape == 0 {
		d.Escape = d.Quote
	}
	if d.Newline == "" {
		d.Newline = def.Newline
	}
	return d
}

// Options control Parse. Zero values mean "detect" or "default".
type Options struct {
	Header      bool // first record holds the header names
	Separator   rune // 0 sniffs from the leading lines
	Quote       rune
	Escape      rune
	SampleLines int
}

// Parsed is the result of Parse. Rows may be ragged; callers building a
// fixed-width table decide how to treat short or long rows.
type Parsed struct {
	Headers []string // nil unless Options.Header was set
	Rows    [][]string
	Dialect Dialect
}

// Parse decodes delimited text.
func Parse(data []byte, opts Options) (*Parsed, error) {
	data = bytes.TrimPrefix(sanitizeUTF8(data), []byte("\xEF\xBB\xBF"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyInput
	}

	d := Dialect{Separator: opts.Separator, Quote: opts.Quote, Escape: opts.Escape}
	if bytes.Contains(data, []byte("\r\n")) {
		d.Newline = "\r\n"
	}
	d = d.withDefaults()
	if opts.Separator == 0 {
		sample := opts.SampleLines
		if sample <= 0 {
			sample = DefaultSampleLines
		}
		d.Separator = Sniff(data, d.Quote, sample)
	}

	var records [][]string
	var err error
	if d.Quote == '"' && d.Escape == '"' {
		records, err = readStandard(data, d.Separator)
	} else {
		records, err = readCustom(data, d)
	}
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	records = dropEmptyRows(records)
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	p := &Parsed{Dialect: d}
	if opts.Header {
		p.Headers = make([]string, len(records[0]))
		for i, h := range records[0] {
			p.Headers[i] = CleanCell(h)
		}
		records = records[1:]
	}
	p.Rows = records
	return p, nil
}

func readStandard(data []byte, sep rune) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sep
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

// readCustom handles dialects encoding/csv cannot express: a quote other
// than '"' or an escape character distinct from the quote.
func readCustom(data []byte, d Dialect) ([][]string, error) {
	var (
		records [][]string
		record  []string
		field   strings.Builder
		quoted  bool
		started bool // current field has content or an opening quote
	)

	runes := []rune(string(data))
	endField := func() {
		record = append(record, field.String())
		field.Reset()
		started = false
	}
	endRecord := func() {
		endField()
		records = append(records, record)
		record = nil
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if quoted {
			switch {
			case r == d.Escape && d.Escape != d.Quote && i+1 < len(runes) &&
				(runes[i+1] == d.Quote || runes[i+1] == d.Escape):
				field.WriteRune(runes[i+1])
				i++
			case r == d.Quote && i+1 < len(runes) && runes[i+1] == d.Quote:
				field.WriteRune(r)
				i++
			case r == d.Quote:
				quoted = false
			default:
				field.WriteRune(r)
			}
			continue
		}

		switch {
		case r == d.Quote && !started:
			quoted = true
			started = true
		case r == d.Separator:
			endField()
		case r == '\r' && i+1 < len(runes) && runes[i+1] == '\n':
			// handled by the following '\n'
		case r == '\n':
			endRecord()
		default:
			field.WriteRune(r)
			started = true
		}
	}
	if quoted {
		return nil, fmt.Errorf("unterminated quoted field in record %d", len(records)+1)
	}
	if started || field.Len() > 0 || len(record) > 0 {
		endRecord()
	}
	return records, nil
}

// Sniff picks the candidate separator that splits the first sampleLines
// non-blank lines into the same number of fields (more than one). When no
// candidate is consistent, the one occurring most in the first line wins.
// Falls back to ','.
func Sniff(data []byte, quote rune, sampleLines int) rune {
	lines := sampleOf(data, sampleLines)
	if len(lines) == 0 {
		return ','
	}

	best, bestFields := rune(0), 1
	for _, sep := range candidateSeparators {
		fields := -1
		consistent := true
		for _, line := range lines {
			n := countFields(line, sep, quote)
			if fields == -1 {
				fields = n
			} else if n != fields {
				consistent = false
				break
			}
		}
		if consistent && fields > bestFields {
			best, bestFields = sep, fields
		}
	}
	if best != 0 {
		return best
	}

	best, bestFields = ',', 1
	for _, sep := range candidateSeparators {
		if n := countFields(lines[0], sep, quote); n > bestFields {
			best, bestFields = sep, n
		}
	}
	return best
}

func sampleOf(data []byte, limit int) []string {
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) >= limit {
			break
		}
	}
	return lines
}

// countFields counts separator-delimited fields, ignoring separators inside
// quotes.
func countFields(line string, sep, quote rune) int {
	n := 1
	inQuotes := false
	for _, r := range line {
		switch {
		case r == quote:
			inQuotes = !inQuotes
		case r == sep && !inQuotes:
			n++
		}
	}
	return n
}

// Serialize renders records with dialect d. Records are joined by the
// dialect's newline with no trailing terminator.
func Serialize(records [][]string, d Dialect) string {
	d = d.withDefaults()
	var b strings.Builder
	for i, rec := range records {
		if i > 0 {
			b.WriteString(d.Newline)
		}
		for j, field := range rec {
			if j > 0 {
				b.WriteRune(d.Separator)
			}
			writeField(&b, field, d)
		}
	}
	return b.String()
}

// Write serializes records to w.
func Write(w io.Writer, records [][]string, d Dialect) error {
	if _, err := io.WriteString(w, Serialize(records, d)); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func writeField(b *strings.Builder, field string, d Dialect) {
	if !needsQuotes(field, d) {
		b.WriteString(field)
		return
	}
	b.WriteRune(d.Quote)
	for _, r := range field {
		switch {
		case r == d.Quote && d.Escape == d.Quote:
			b.WriteRune(d.Quote)
		case r == d.Quote || r == d.Escape:
			b.WriteRune(d.Escape)
		}
		b.WriteRune(r)
	}
	b.WriteRune(d.Quote)
}

func needsQuotes(field string, d Dialect) bool {
	if field == "" {
		return false
	}
	for _, r := range field {
		if r == d.Separator || r == d.Quote || r == '\r' || r == '\n' {
			return true
		}
	}
	return false
}

// CleanCell removes common spreadsheet artifacts from a header or cell:
// surrounding whitespace, an Excel formula prefix (="...") and surrounding
// quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.Trim(s, `"'`)
}

func dropEmptyRows(records [][]string) [][]string {
	out := records[:0]
	for _, row := range records {
		if !isEmptyRow(row) {
			out = append(out, row)
		}
	}
	return out
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// sanitizeUTF8 replaces invalid byte sequences with U+FFFD.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('\uFFFD')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}
