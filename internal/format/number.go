package format

// number.go normalizes human-entered numbers into plain decimal strings.
//
// The parser accepts the forms that show up in spreadsheet exports:
//   - Thousands grouping with ',', '.', space, apostrophe or underscore
//   - European decimal commas ("1.234,56")
//   - Currency symbols before or after the amount
//   - Accounting negatives "(123.45)" and trailing percent "12.5%"
//   - Exponent notation "1.2e3"
//
// Values are held as pgtype.Numeric (an arbitrary precision integer and a
// base-10 exponent), so percent scaling and exponents never lose digits.

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// MaxExponent bounds the exponent accepted in "1e..." input.
const MaxExponent = 4096

// currencySymbols are stripped from either end of a number. Multi-rune
// symbols come first so "US$" is not left as "US".
var currencySymbols = []string{
	"US$", "A$", "C$", "R$",
	"$", "€", "£", "¥", "₹", "₩", "₽", "¢", "₺", "₪", "₫", "฿", "₦", "₱",
}

// groupingReplacer removes characters that only ever group digits.
var groupingReplacer = strings.NewReplacer(
	" ", "",
	"\u00a0", "",
	"\u202f", "",
	"'", "",
	"\u2019", "",
	"_", "",
)

// ParseNumber parses s into an exact decimal. It reports false when s is
// empty or not a number.
func ParseNumber(s string) (pgtype.Numeric, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Numeric{}, false
	}

	// Accounting parentheses may sit inside the currency symbol: "$(5)".
	negative := false
	if inner, ok := unparen(s); ok {
		negative, s = true, inner
	} else if inner, ok := unparen(stripCurrency(s)); ok {
		negative, s = true, inner
	}

	percent := false
	if strings.HasSuffix(s, "%") {
		percent = true
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}

	// A sign may sit on either side of the currency symbol: "-$5" or "$-5".
	s, sign1 := takeSign(s)
	s = stripCurrency(s)
	s, sign2 := takeSign(s)
	if sign1 != 0 && sign2 != 0 {
		return pgtype.Numeric{}, false
	}
	if sign1 == '-' || sign2 == '-' {
		if negative {
			return pgtype.Numeric{}, false
		}
		negative = true
	}

	mantissa, exp, ok := splitExponent(s)
	if !ok {
		return pgtype.Numeric{}, false
	}

	intPart, frac, ok := splitDecimal(groupingReplacer.Replace(mantissa))
	if !ok || intPart+frac == "" || !allDigits(intPart) || !allDigits(frac) {
		return pgtype.Numeric{}, false
	}

	n, ok := new(big.Int).SetString(intPart+frac, 10)
	if !ok {
		return pgtype.Numeric{}, false
	}
	if negative {
		n.Neg(n)
	}

	exp -= len(frac)
	if percent {
		exp -= 2
	}
	return pgtype.Numeric{Int: n, Exp: int32(exp), Valid: true}, true
}

// NormalizeNumber returns s as a plain decimal string, or "" when s does not
// parse.
func NormalizeNumber(s string) string {
	n, ok := ParseNumber(s)
	if !ok {
		return ""
	}
	return FormatNumeric(n)
}

// ParseFloat parses s like ParseNumber and converts the result to float64.
func ParseFloat(s string) (float64, bool) {
	n, ok := ParseNumber(s)
	if !ok {
		return 0, false
	}
	f, err := n.Float64Value()
	if err != nil || !f.Valid {
		return 0, false
	}
	return f.Float64, true
}

// IsInteger reports whether s parses to a number with no fractional part.
func IsInteger(s string) bool {
	n, ok := ParseNumber(s)
	if !ok {
		return false
	}
	return !strings.Contains(FormatNumeric(n), ".")
}

// FormatNumeric renders n without exponent, grouping or trailing fractional
// zeros. Invalid values render as "".
func FormatNumeric(n pgtype.Numeric) string {
	if !n.Valid || n.Int == nil || n.NaN || n.InfinityModifier != pgtype.Finite {
		return ""
	}

	digits := new(big.Int).Abs(n.Int).String()
	exp := int(n.Exp)

	var out string
	switch {
	case digits == "0":
		out = "0"
	case exp >= 0:
		out = digits + strings.Repeat("0", exp)
	default:
		k := -exp
		if len(digits) <= k {
			digits = strings.Repeat("0", k-len(digits)+1) + digits
		}
		intPart := digits[:len(digits)-k]
		frac := strings.TrimRight(digits[len(digits)-k:], "0")
		out = intPart
		if frac != "" {
			out += "." + frac
		}
	}

	if out != "0" && n.Int.Sign() < 0 {
		out = "-" + out
	}
	return out
}

func takeSign(s string) (string, byte) {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		return strings.TrimSpace(s[1:]), s[0]
	}
	return s, 0
}

func unparen(s string) (string, bool) {
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		return strings.TrimSpace(s[1 : len(s)-1]), true
	}
	return s, false
}

func stripCurrency(s string) string {
	for _, sym := range currencySymbols {
		if strings.HasPrefix(s, sym) {
			return strings.TrimSpace(strings.TrimPrefix(s, sym))
		}
		if strings.HasSuffix(s, sym) {
			return strings.TrimSpace(strings.TrimSuffix(s, sym))
		}
	}
	return s
}

// splitExponent separates "1.5e-3" into "1.5" and -3.
func splitExponent(s string) (string, int, bool) {
	i := strings.LastIndexAny(s, "eE")
	if i < 0 {
		return s, 0, true
	}
	exp, err := strconv.Atoi(s[i+1:])
	if err != nil || exp > MaxExponent || exp < -MaxExponent {
		return "", 0, false
	}
	return s[:i], exp, true
}

// splitDecimal decides which of '.' and ',' is the decimal separator and
// returns the integer digits (grouping removed) and fractional digits.
//
// When both appear, the rightmost one is the decimal separator. A lone comma
// followed by exactly three digits is read as grouping ("1,234") unless the
// integer part is zero; otherwise it is a decimal comma ("1,5"). Several
// occurrences of the same separator are always grouping.
func splitDecimal(s string) (string, string, bool) {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	var decimal, group string
	switch {
	case lastDot >= 0 && lastComma >= 0:
		decimal, group = ".", ","
		if lastComma > lastDot {
			decimal, group = ",", "."
		}
		if strings.Count(s, decimal) > 1 {
			return "", "", false
		}
	case lastComma >= 0:
		group = ","
		if strings.Count(s, ",") == 1 {
			before, after := s[:lastComma], s[lastComma+1:]
			if len(after) != 3 || before == "" || before == "0" {
				decimal, group = ",", ""
			}
		}
	case lastDot >= 0:
		group = "."
		if strings.Count(s, ".") == 1 {
			decimal, group = ".", ""
		}
	}

	intPart, frac := s, ""
	if decimal != "" {
		i := strings.LastIndex(s, decimal)
		intPart, frac = s[:i], s[i+1:]
	}

	if group != "" {
		groups := strings.Split(intPart, group)
		for _, g := range groups {
			if g == "" {
				return "", "", false
			}
		}
		intPart = strings.Join(groups, "")
	}
	return intPart, frac, true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
