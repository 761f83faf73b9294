// Package currency converts free-form currency strings from payroll exports into decimal amounts.
package currency

import (
	"bytes"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a normalized currency value. The zero value is Missing.
type Amount struct {
	Value decimal.Decimal
	Valid bool
}

// Missing marks a value that could not be resolved to a number. It is distinct from zero.
var Missing = Amount{}

// Zero is a valid amount of 0.
var Zero = Amount{Value: decimal.Zero, Valid: true}

// nanLike lists the lowercase spellings that spreadsheet exports use for "no value".
var nanLike = map[string]struct{}{
	"nan":  {},
	"n/a":  {},
	"na":   {},
	"null": {},
	"none": {},
}

// New wraps a decimal as a valid amount.
func New(d decimal.Decimal) Amount {
	return Amount{Value: d, Valid: true}
}

// FromFloat wraps a float64 as a valid amount.
func FromFloat(f float64) Amount {
	return Amount{Value: decimal.NewFromFloat(f), Valid: true}
}

// Normalize converts a raw currency string into an Amount.
//
// Accepted forms include "$1,234.56", "(12.50)", "-12.50" and "45 extra"
// (only the first whitespace-delimited token is parsed). A value made only
// of currency punctuation and hyphens ("-", "$ -") is a zero placeholder.
// Anything else that does not parse as a decimal is Missing.
func Normalize(raw string) Amount {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Missing
	}
	if _, ok := nanLike[strings.ToLower(s)]; ok {
		return Missing
	}
	if isPlaceholder(s) {
		return Zero
	}

	// Some yearly files carry two values in one cell; the first one wins.
	if fields := strings.Fields(s); len(fields) > 1 {
		s = fields[0]
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")

	// Parentheses and a leading hyphen each mark a negative; together they are still one.
	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && len(s) > 2 {
		s = s[1 : len(s)-1]
		if !negative && strings.HasPrefix(s, "-") {
			s = s[1:]
		}
		negative = true
	}
	if s == "" || !isPlainDecimal(s) {
		return Missing
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Missing
	}
	if negative {
		d = d.Neg()
	}
	return Amount{Value: d, Valid: true}
}

// isPlaceholder reports whether s is a hyphen placeholder such as "-" or "$ - ".
func isPlaceholder(s string) bool {
	stripped := strings.Map(func(r rune) rune {
		switch r {
		case '$', ',', '(', ')', ' ', '\t':
			return -1
		}
		return r
	}, s)
	if stripped == "" {
		return false
	}
	return strings.Trim(stripped, "-") == ""
}

// isPlainDecimal accepts digits with at most one decimal point.
func isPlainDecimal(s string) bool {
	digits, dots := 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

// String returns the canonical form: a plain decimal, or "" when missing.
// Normalize(a.String()) always equals a.
func (a Amount) String() string {
	if !a.Valid {
		return ""
	}
	return a.Value.String()
}

// Float64 returns the amount as a float and whether it was valid.
func (a Amount) Float64() (float64, bool) {
	if !a.Valid {
		return 0, false
	}
	f, _ := a.Value.Float64()
	return f, true
}

// OrZero returns the decimal value, or zero when missing.
func (a Amount) OrZero() decimal.Decimal {
	if !a.Valid {
		return decimal.Zero
	}
	return a.Value
}

// IsNegative reports whether the amount is valid and below zero.
func (a Amount) IsNegative() bool {
	return a.Valid && a.Value.IsNegative()
}

// IsPositive reports whether the amount is valid and above zero.
func (a Amount) IsPositive() bool {
	return a.Valid && a.Value.IsPositive()
}

// Equal compares two amounts; two missing amounts are equal.
func (a Amount) Equal(b Amount) bool {
	if a.Valid != b.Valid {
		return false
	}
	if !a.Valid {
		return true
	}
	return a.Value.Equal(b.Value)
}

// Format renders the amount as dollars with thousands separators, e.g. "$1,234.56".
// Missing renders as "n/a".
func (a Amount) Format() string {
	if !a.Valid {
		return "n/a"
	}
	return FormatDollars(a.Value)
}

// FormatDollars renders a decimal as "$1,234.56" (negative as "-$12.50").
func FormatDollars(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var sb strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	return sign + "$" + sb.String() + "." + frac
}

// MarshalJSON encodes a missing amount as null and a valid one as a decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return a.Value.MarshalJSON()
}

// UnmarshalJSON accepts null, a JSON number or a currency string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = Missing
		return nil
	}
	*a = Normalize(string(bytes.Trim(data, `"`)))
	return nil
}
