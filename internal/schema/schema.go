// Package schema maps the header rows of yearly payroll exports onto a fixed set of canonical fields.
package schema

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	separatorRe  = regexp.MustCompile(`_+`)
)

// CleanHeader trims, uppercases and replaces internal whitespace with a single "_".
// Separators around "/" are dropped so "QUINN / EDUCATION INCENTIVE" and
// "QUINN/EDUCATION INCENTIVE" clean to the same key.
func CleanHeader(header string) string {
	s := strings.TrimPrefix(header, "\ufeff")
	s = strings.ToUpper(strings.TrimSpace(s))
	s = whitespaceRe.ReplaceAllString(s, "_")
	s = separatorRe.ReplaceAllString(s, "_")
	s = strings.ReplaceAll(s, "_/", "/")
	s = strings.ReplaceAll(s, "/_", "/")
	return strings.Trim(s, "_")
}

// Column is one resolved header.
type Column struct {
	Index   int    `json:"index"`
	Raw     string `json:"raw"`
	Cleaned string `json:"cleaned"`
	Field   Field  `json:"field"`
	Aliased bool   `json:"aliased"`
}

// DuplicateWarning records two or more columns resolving to the same field.
// The last column wins; earlier ones are shadowed.
type DuplicateWarning struct {
	Field    Field    `json:"field"`
	Columns  []string `json:"columns"`
	Winner   string   `json:"winner"`
	Shadowed []int    `json:"shadowed"`
}

func (w DuplicateWarning) String() string {
	return fmt.Sprintf("columns %q all map to %s; using %q", w.Columns, w.Field, w.Winner)
}

// Mapping is the result of normalizing a header row.
type Mapping struct {
	Columns  []Column           `json:"columns"`
	Warnings []DuplicateWarning `json:"warnings,omitempty"`

	index map[Field]int
}

// Index returns the column position that supplies field, or -1.
func (m *Mapping) Index(field Field) int {
	if i, ok := m.index[field]; ok {
		return i
	}
	return -1
}

// Has reports whether field resolved to a column.
func (m *Mapping) Has(field Field) bool {
	_, ok := m.index[field]
	return ok
}

// ByRaw returns raw header -> canonical field for every column.
func (m *Mapping) ByRaw() map[string]Field {
	out := make(map[string]Field, len(m.Columns))
	for _, c := range m.Columns {
		out[c.Raw] = c.Field
	}
	return out
}

// Fields returns the set of canonical fields present.
func (m *Mapping) Fields() map[Field]struct{} {
	out := make(map[Field]struct{}, len(m.index))
	for f := range m.index {
		out[f] = struct{}{}
	}
	return out
}

// Require fails with a SchemaError listing every field that did not resolve.
func (m *Mapping) Require(fields ...Field) error {
	var missing []Field
	for _, f := range fields {
		if !m.Has(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	headers := make([]string, 0, len(m.Columns))
	for _, c := range m.Columns {
		headers = append(headers, c.Raw)
	}
	return &SchemaError{Missing: missing, Headers: headers}
}

// RequireAny succeeds when at least one of the field groups fully resolves.
func (m *Mapping) RequireAny(groups ...[]Field) error {
	var first error
	for _, g := range groups {
		err := m.Require(g...)
		if err == nil {
			return nil
		}
		if first == nil {
			first = err
		}
	}
	return first
}

// MaxIndex returns the highest column position among fields, or -1.
func (m *Mapping) MaxIndex(fields ...Field) int {
	max := -1
	for _, f := range fields {
		if i := m.Index(f); i > max {
			max = i
		}
	}
	return max
}

// AliasTable resolves cleaned headers to canonical fields, with optional per-year overrides.
type AliasTable struct {
	name      string
	base      map[string]Field
	overrides map[int]map[string]Field
}

// NewAliasTable copies aliases into a new table. Keys are cleaned before storing.
func NewAliasTable(name string, aliases map[string]Field) *AliasTable {
	t := &AliasTable{
		name:      name,
		base:      make(map[string]Field, len(aliases)),
		overrides: make(map[int]map[string]Field),
	}
	for k, v := range aliases {
		t.base[CleanHeader(k)] = v
	}
	return t
}

// Name identifies the table in logs.
func (t *AliasTable) Name() string {
	return t.name
}

// Add registers an alias used for every year.
func (t *AliasTable) Add(header string, field Field) {
	t.base[CleanHeader(header)] = field
}

// AddForYear registers an alias that applies only to one report year.
func (t *AliasTable) AddForYear(year int, header string, field Field) {
	m, ok := t.overrides[year]
	if !ok {
		m = make(map[string]Field)
		t.overrides[year] = m
	}
	m[CleanHeader(header)] = field
}

// Lookup resolves a cleaned header for year. Year overrides win over the base table.
func (t *AliasTable) Lookup(cleaned string, year int) (Field, bool) {
	if m, ok := t.overrides[year]; ok {
		if f, ok := m[cleaned]; ok {
			return f, true
		}
	}
	f, ok := t.base[cleaned]
	return f, ok
}

// Normalize maps a header row for the given year. Unknown headers pass through in cleaned form.
func (t *AliasTable) Normalize(headers []string, year int) *Mapping {
	m := &Mapping{
		Columns: make([]Column, 0, len(headers)),
		index:   make(map[Field]int, len(headers)),
	}
	seen := make(map[Field][]int)

	for i, raw := range headers {
		cleaned := CleanHeader(raw)
		field, aliased := t.Lookup(cleaned, year)
		if !aliased {
			field = Field(cleaned)
		}
		m.Columns = append(m.Columns, Column{
			Index:   i,
			Raw:     raw,
			Cleaned: cleaned,
			Field:   field,
			Aliased: aliased,
		})
		if field == "" {
			continue
		}
		seen[field] = append(seen[field], i)
		m.index[field] = i
	}

	// Report collisions in column order of the winning column.
	for _, c := range m.Columns {
		idxs := seen[c.Field]
		if len(idxs) < 2 || idxs[len(idxs)-1] != c.Index {
			continue
		}
		w := DuplicateWarning{
			Field:    c.Field,
			Winner:   c.Raw,
			Shadowed: idxs[:len(idxs)-1],
		}
		for _, i := range idxs {
			w.Columns = append(w.Columns, headers[i])
		}
		m.Warnings = append(m.Warnings, w)
	}

	return m
}

// NormalizeHeaders maps an earnings header row using the default alias table.
func NormalizeHeaders(headers []string) *Mapping {
	return EarningsAliases().Normalize(headers, 0)
}
