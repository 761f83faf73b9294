// Package linkage joins earnings records to roster records on a normalized (last, first) name key.
package linkage

import (
	"regexp"
	"strings"

	"github.com/jonathan/payroll-analysis/internal/types"
	"golang.org/x/text/unicode/norm"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeKey puts one name part into comparison form: NFC, trimmed, single-spaced, uppercased.
// Diacritics are kept; "JOSÉ" and "JOSE" are different keys.
func NormalizeKey(s string) string {
	s = norm.NFC.String(s)
	s = whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
	return strings.ToUpper(s)
}

// SplitName splits an earnings name of the form "LAST, FIRST MIDDLE..." on the first comma and
// keeps only the first token of the remainder as the first name.
func SplitName(name string) (types.NameKey, error) {
	last, rest, ok := strings.Cut(name, ",")
	if !ok {
		return types.NameKey{}, &NameError{Name: name, Reason: "no comma"}
	}
	last = NormalizeKey(last)
	if last == "" {
		return types.NameKey{}, &NameError{Name: name, Reason: "empty last name"}
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return types.NameKey{}, &NameError{Name: name, Reason: "empty first name"}
	}
	return types.NameKey{Last: last, First: NormalizeKey(fields[0])}, nil
}

// RosterKey builds the join key of a roster record.
func RosterKey(r types.RosterRecord) types.NameKey {
	return types.NameKey{Last: NormalizeKey(r.LastName), First: NormalizeKey(r.FirstName)}
}
