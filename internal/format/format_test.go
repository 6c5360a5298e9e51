package format

import (
	"errors"
	"testing"
	"time"
)

// ----------------------------------------------------------------------------
// Number Tests
// ----------------------------------------------------------------------------

func TestNormalizeNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain integer", "42", "42"},
		{"plain decimal", "3.14", "3.14"},
		{"leading dot", ".5", "0.5"},
		{"trailing zeros trimmed", "2.500", "2.5"},
		{"explicit plus", "+7", "7"},
		{"explicit minus", "-7.25", "-7.25"},
		{"us grouping", "1,234.56", "1234.56"},
		{"us grouping no decimals", "1,234,567", "1234567"},
		{"european", "€1.234,56", "1234.56"},
		{"european grouping only", "1.234.567", "1234567"},
		{"decimal comma", "12,5", "12.5"},
		{"zero decimal comma", "0,125", "0.125"},
		{"space grouping", "1 234 567,89", "1234567.89"},
		{"apostrophe grouping", "1'234.5", "1234.5"},
		{"underscore grouping", "1_000_000", "1000000"},
		{"dollar", "$1,000.00", "1000"},
		{"us dollar", "US$ 12", "12"},
		{"suffix currency", "12,50 €", "12.5"},
		{"sign before currency", "-$5", "-5"},
		{"sign after currency", "$-5", "-5"},
		{"percent", "123%", "1.23"},
		{"small percent", "0.5%", "0.005"},
		{"accounting negative", "(123.45)", "-123.45"},
		{"accounting currency", "($1,000)", "-1000"},
		{"currency outside parens", "$(1.5)", "-1.5"},
		{"suffix currency outside parens", "(2,50) €", "-2.5"},
		{"parens and sign", "$(-1)", ""},
		{"exponent", "1.5e3", "1500"},
		{"negative exponent", "25E-3", "0.025"},
		{"negative zero", "-0", "0"},
		{"unparseable", "a", ""},
		{"empty", "", ""},
		{"only sign", "-", ""},
		{"two decimal points", "1.2,3.4", ""},
		{"double sign", "--5", ""},
		{"empty group", "1,,234", ""},
		{"huge exponent", "1e99999", ""},
		{"letters after number", "12abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeNumber(tt.input); got != tt.want {
				t.Errorf("NormalizeNumber(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseNumber_Exact(t *testing.T) {
	n, ok := ParseNumber("12.5%")
	if !ok {
		t.Fatal("ParseNumber() ok = false")
	}
	if n.Int.Int64() != 125 || n.Exp != -3 {
		t.Errorf("ParseNumber() = %se%d, want 125e-3", n.Int, n.Exp)
	}
}

func TestParseFloatAndInteger(t *testing.T) {
	if f, ok := ParseFloat("1,5"); !ok || f != 1.5 {
		t.Errorf("ParseFloat(1,5) = %v, %v", f, ok)
	}
	if _, ok := ParseFloat("x"); ok {
		t.Error("ParseFloat(x) ok = true")
	}
	if !IsInteger("1,000") {
		t.Error("IsInteger(1,000) = false")
	}
	if IsInteger("1.5") {
		t.Error("IsInteger(1.5) = true")
	}
	if !IsInteger("1.50e1") {
		t.Error("IsInteger(1.50e1) = false")
	}
}

// ----------------------------------------------------------------------------
// Boolean Tests
// ----------------------------------------------------------------------------

func TestGuessBool(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"Y", true},
		{"yes", true},
		{"TRUE", true},
		{"1", true},
		{"n", false},
		{"no", false},
		{"FALSE", false},
		{"0", false},
		{"", false},
		{"anything", true},
	}
	for _, tt := range tests {
		if got := GuessBool(tt.input); got != tt.want {
			t.Errorf("GuessBool(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		input  string
		want   bool
		wantOK bool
	}{
		{"t", true, true},
		{" Yes ", true, true},
		{"F", false, true},
		{"0", false, true},
		{"maybe", false, false},
		{"", false, false},
	}
	for _, tt := range tests {
		got, ok := ParseBool(tt.input)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseBool(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

// ----------------------------------------------------------------------------
// Case Tests
// ----------------------------------------------------------------------------

func TestCaseConversions(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"upper", Upper, "hello World", "HELLO WORLD"},
		{"lower", Lower, "HeLLo", "hello"},
		{"title", Title, "hello WORLD", "Hello World"},
		{"capitalize", Capitalize, "hELLO world", "Hello world"},
		{"camel", Camel, "first name", "firstName"},
		{"camel from snake", Camel, "customer_id", "customerId"},
		{"pascal", Pascal, "first-name", "FirstName"},
		{"snake", Snake, "FirstName", "first_name"},
		{"snake acronym", Snake, "HTTPServer", "http_server"},
		{"kebab", Kebab, "Order Total 2", "order-total-2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Errorf("%s(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// Date Pattern Tests
// ----------------------------------------------------------------------------

func TestCompileDate_Match(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    bool
	}{
		{"Y-m-d", "2024-01-15", true},
		{"Y-m-d", "20240115", false},
		{"Y-m-d", "2024-1-15", false},
		{"Y-m-d", "2024-13-01", false},
		{"Y-n-j", "2024-1-5", true},
		{"d/m/Y", "31/12/1999", true},
		{"d/m/Y", "32/12/1999", false},
		{"Y-m-d H:i:s", "2024-01-15 23:59:59", true},
		{"Y-m-d H:i:s", "2024-01-15 24:00:00", false},
		{"g:i A", "9:05 PM", true},
		{"g:i A", "13:05 PM", false},
		{"M j, Y", "jan 5, 2024", true},
		{`Y-m-d\TH:i`, "2024-01-15T10:30", true},
		{`Y-m-d\TH:i`, "2024-01-15 10:30", false},
		{"Y.m.d", "2024x01x15", false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.input, func(t *testing.T) {
			f, err := CompileDate(tt.pattern)
			if err != nil {
				t.Fatalf("CompileDate(%q) error = %v", tt.pattern, err)
			}
			if got := f.Match(tt.input); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v (regexp %s)", tt.input, got, tt.want, f.Regexp())
			}
		})
	}
}

func TestCompileDate_Errors(t *testing.T) {
	for _, p := range []string{"", `Y-m-d\`} {
		if _, err := CompileDate(p); !errors.Is(err, ErrBadDatePattern) {
			t.Errorf("CompileDate(%q) error = %v, want ErrBadDatePattern", p, err)
		}
	}
}

func TestDateFormat_Format(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 14, 7, 9, 250*int(time.Millisecond), time.UTC)
	tests := []struct {
		pattern string
		want    string
	}{
		{"Y-m-d", "2024-03-05"},
		{"n/j/y", "3/5/24"},
		{"D, d M Y", "Tue, 05 Mar 2024"},
		{"l F jS", "Tuesday March 5S"},
		{"h:i:s.v a", "02:07:09.250 pm"},
		{"G\\h", "14h"},
		{"U", "1709647629"},
		{"P", "+00:00"},
	}
	for _, tt := range tests {
		f := MustCompileDate(tt.pattern)
		if got := f.Format(ts); got != tt.want {
			t.Errorf("Format(%q) = %q, want %q", tt.pattern, got, tt.want)
		}
	}
}

func TestDateFormat_Parse(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"Y-m-d", "2024-02-29", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), false},
		{"Y-m-d", "2023-02-29", time.Time{}, true},
		{"d/m/Y H:i", "05/03/2024 14:07", time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC), false},
		{"g:i a", "12:30 am", time.Date(1970, 1, 1, 0, 30, 0, 0, time.UTC), false},
		{"g:i A", "12:30 PM", time.Date(1970, 1, 1, 12, 30, 0, 0, time.UTC), false},
		{"F j, Y", "March 5, 2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), false},
		{"Y-m-d H:i O", "2024-03-05 14:00 +0200", time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC), false},
		{"U", "0", time.Unix(0, 0).UTC(), false},
		{"Y-m-d", "nope", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.input, func(t *testing.T) {
			got, err := MustCompileDate(tt.pattern).Parse(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrDateMismatch) {
					t.Fatalf("Parse() error = %v, want ErrDateMismatch", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDateFormat_TwoDigitYear(t *testing.T) {
	f := MustCompileDate("y-m-d")
	got, err := f.Parse("99-01-01")
	if err != nil {
		t.Fatal(err)
	}
	if got.Year() != 1999 {
		t.Errorf("Year = %d, want 1999", got.Year())
	}
	got, _ = f.Parse("05-01-01")
	if got.Year() != 2005 {
		t.Errorf("Year = %d, want 2005", got.Year())
	}
}

// ----------------------------------------------------------------------------
// Preset and Reformat Tests
// ----------------------------------------------------------------------------

func TestLookupDate(t *testing.T) {
	iso, err := LookupDate("ISO")
	if err != nil {
		t.Fatal(err)
	}
	ts := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	if got := iso.Format(ts); got != "2024-01-15T10:30:00Z" {
		t.Errorf("iso Format = %q", got)
	}
	if iso.Match("2024-01-15") {
		t.Error("iso matched a bare date")
	}

	http, _ := LookupDate("http")
	if got := http.Format(ts); got != "Mon, 15 Jan 2024 10:30:00 GMT" {
		t.Errorf("http Format = %q", got)
	}

	def, _ := LookupDate("")
	if def.String() != DefaultDateOutput {
		t.Errorf("LookupDate(\"\") = %s, want %s", def, DefaultDateOutput)
	}

	custom, err := LookupDate("d.m.Y")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := custom.(*DateFormat); !ok {
		t.Errorf("LookupDate(d.m.Y) = %T, want *DateFormat", custom)
	}
}

func TestParseDateAny(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
		ok    bool
	}{
		{"2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"1/15/2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"2024-01-15T10:30:00Z", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), true},
		{"Jan 15, 2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"20240115", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"1/15/99", time.Date(1999, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"not a date", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseDateAny(tt.input)
		if ok != tt.ok || (ok && !got.Equal(tt.want)) {
			t.Errorf("ParseDateAny(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestReformatDate(t *testing.T) {
	out := MustCompileDate("d/m/Y")
	in := MustCompileDate("Y-m-d")

	if got := ReformatDate("2024-01-15", out, in); got != "15/01/2024" {
		t.Errorf("ReformatDate with input format = %q", got)
	}
	if got := ReformatDate("1/15/2024", out, nil); got != "15/01/2024" {
		t.Errorf("ReformatDate any = %q", got)
	}
	if got := ReformatDate("garbage", out, nil); got != InvalidDate {
		t.Errorf("ReformatDate(garbage) = %q, want %q", got, InvalidDate)
	}
	if got := ReformatDate("20240115", out, in); got != InvalidDate {
		t.Errorf("ReformatDate(compact) = %q, want %q", got, InvalidDate)
	}
	if got := ReformatDate("  ", out, nil); got != "" {
		t.Errorf("ReformatDate(blank) = %q, want empty", got)
	}
}

func TestReformatDate_KeepsOffsetDay(t *testing.T) {
	day := MustCompileDate("Y-m-d")
	tests := []struct {
		name  string
		input string
		in    DateLayout
	}{
		{"rfc3339 offset", "2024-01-15T23:30:00-05:00", nil},
		{"pattern offset", "2024-01-15 23:30 -0500", MustCompileDate("Y-m-d H:i O")},
		{"pattern east offset", "2024-01-15 00:30 +0900", MustCompileDate("Y-m-d H:i O")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReformatDate(tt.input, day, tt.in); got != "2024-01-15" {
				t.Errorf("ReformatDate(%q) = %q, want 2024-01-15", tt.input, got)
			}
		})
	}
}
