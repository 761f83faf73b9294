package ingestion

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/payroll-analysis/internal/currency"
	"github.com/jonathan/payroll-analysis/internal/linkage"
	"github.com/jonathan/payroll-analysis/internal/schema"
	"github.com/jonathan/payroll-analysis/internal/types"
)

// rosterDateLayouts are tried in order when parsing roster effective dates.
var rosterDateLayouts = []string{
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"2006-01-02",
}

// ParseRosterDate parses an MM/DD/YYYY roster date.
func ParseRosterDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range rosterDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// LoadRoster reads a personnel roster snapshot.
//
// Names are stored in comparison form. Rows without a last or first name are dropped as
// missing_name. When a reference date is set, MonthsSinceEffective is derived from it.
func LoadRoster(src Source, opts ...Option) (*types.RosterDataset, error) {
	o := newOptions(opts)
	log := o.logger.With("source", src.Name())

	raw, err := readSource(src, 0)
	if err != nil {
		return nil, err
	}
	text, encoding, err := Decode(raw)
	if err != nil {
		return nil, &SourceUnavailableError{Source: src.Name(), Message: "failed to decode as UTF-8 or ISO-8859-1", Cause: err}
	}
	tbl, err := readTable(text)
	if err != nil {
		return nil, &SourceUnavailableError{Source: src.Name(), Message: "failed to parse CSV", Cause: err}
	}

	mapping := o.tables.Roster.Normalize(tbl.Headers, 0)
	if err := mapping.Require(schema.RosterRequired...); err != nil {
		var schemaErr *schema.SchemaError
		if errors.As(err, &schemaErr) {
			schemaErr.Source = src.Name()
		}
		return nil, err
	}

	ds := &types.RosterDataset{
		Source:        src.Name(),
		Encoding:      encoding,
		ReferenceDate: o.referenceDate,
		Records:       make([]types.RosterRecord, 0, len(tbl.Rows)),
		RowsRead:      len(tbl.Rows) + len(tbl.Malformed),
		Drops:         types.DropCounts{},
	}
	for _, w := range mapping.Warnings {
		ds.Warnings = append(ds.Warnings, types.RowWarning{Message: w.String()})
	}
	for _, w := range tbl.Malformed {
		ds.Drops[types.DropMalformedRow]++
		ds.Warnings = append(ds.Warnings, w)
	}

	idx := func(f schema.Field) int { return mapping.Index(f) }
	for _, row := range tbl.Rows {
		last := linkage.NormalizeKey(row.value(idx(schema.FieldLastName)))
		first := linkage.NormalizeKey(row.value(idx(schema.FieldFirstName)))
		if last == "" || first == "" {
			ds.Drops[types.DropMissingName]++
			continue
		}

		rec := types.RosterRecord{
			LastName:    last,
			FirstName:   first,
			Sex:         types.ParseSex(row.value(idx(schema.FieldSex))),
			EthnicGroup: types.ParseEthnicGroup(row.value(idx(schema.FieldEthnicGroup))),
			JobTitle:    row.value(idx(schema.FieldJobTitle)),
			HourlyRate:  currency.Normalize(row.value(idx(schema.FieldHourlyRate))),
			MonthlyRate: currency.Normalize(row.value(idx(schema.FieldMonthlyRate))),
			AnnualRate:  currency.Normalize(row.value(idx(schema.FieldAnnualRate))),
			Row:         row.Line,
		}

		if rawDate := row.value(idx(schema.FieldEffectiveDate)); rawDate != "" {
			eff, err := ParseRosterDate(rawDate)
			if err != nil {
				ds.Warnings = append(ds.Warnings, types.RowWarning{Row: row.Line, Message: err.Error()})
			} else {
				rec.EffectiveDate = &eff
				if !o.referenceDate.IsZero() {
					months := types.MonthsBetween(eff, o.referenceDate)
					rec.MonthsSinceEffective = &months
				}
			}
		}

		ds.Records = append(ds.Records, rec)
	}

	log.Info("loaded roster",
		"encoding", encoding,
		"rows_read", ds.RowsRead,
		"records", len(ds.Records),
		"dropped", ds.Drops.Total(),
	)
	return ds, nil
}
