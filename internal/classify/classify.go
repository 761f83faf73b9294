// Package classify buckets free-text department names and job titles into closed category sets
// using ordered keyword rules.
package classify

import "strings"

// Other is the default category for text no rule matches.
const Other = "Other"

// Predicate reports whether lowercased text belongs to a rule.
type Predicate func(lower string) bool

// Keywords matches when any keyword occurs as a case-insensitive substring.
func Keywords(keywords ...string) Predicate {
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			lowered = append(lowered, k)
		}
	}
	return func(lower string) bool {
		for _, k := range lowered {
			if strings.Contains(lower, k) {
				return true
			}
		}
		return false
	}
}

// Not inverts p.
func Not(p Predicate) Predicate {
	return func(lower string) bool { return !p(lower) }
}

// All matches when every predicate matches.
func All(ps ...Predicate) Predicate {
	return func(lower string) bool {
		for _, p := range ps {
			if !p(lower) {
				return false
			}
		}
		return true
	}
}

// Rule maps a predicate to a category.
type Rule struct {
	Category string
	Match    Predicate
}

// KeywordRule builds a rule matching any of keywords.
func KeywordRule(category string, keywords ...string) Rule {
	return Rule{Category: category, Match: Keywords(keywords...)}
}

// Table is an ordered rule list. The first matching rule wins; table order is the tie-break.
type Table struct {
	Name    string
	Rules   []Rule
	Default string
}

// NewTable builds a table. An empty default becomes Other.
func NewTable(name string, rules []Rule, def string) *Table {
	if def == "" {
		def = Other
	}
	return &Table{Name: name, Rules: rules, Default: def}
}

// Classify returns the category of the first rule matching text, or the default.
func (t *Table) Classify(text string) string {
	category, _ := t.ClassifyRank(text)
	return category
}

// ClassifyRank returns the matching category and its ordinal.
func (t *Table) ClassifyRank(text string) (string, int) {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower != "" {
		for i, r := range t.Rules {
			if r.Match != nil && r.Match(lower) {
				return r.Category, i
			}
		}
	}
	return t.Default, len(t.Rules)
}

// Rank returns the ordinal of category: its rule index (0 highest), with the default and any
// unknown category ranked last.
func (t *Table) Rank(category string) int {
	for i, r := range t.Rules {
		if r.Category == category {
			return i
		}
	}
	return len(t.Rules)
}

// Categories lists rule categories in table order followed by the default.
func (t *Table) Categories() []string {
	seen := make(map[string]struct{}, len(t.Rules)+1)
	out := make([]string, 0, len(t.Rules)+1)
	for _, r := range t.Rules {
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		out = append(out, r.Category)
	}
	if _, ok := seen[t.Default]; !ok {
		out = append(out, t.Default)
	}
	return out
}
