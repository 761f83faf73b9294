package ingestion

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/payroll-analysis/internal/schema"
	"github.com/jonathan/payroll-analysis/internal/types"
)

var overtimeDateLayouts = []string{
	"1/2/2006",
	"01/02/2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 3:04:05 PM",
	time.RFC3339,
}

// ParseOvertimeDate accepts the date forms seen across overtime log years.
func ParseOvertimeDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range overtimeDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// clockHours converts the older exports' hour columns, which store values of 24 and above
// in hundredths, to hours.
func clockHours(v float64) float64 {
	if v >= 24 {
		return v / 100
	}
	return v
}

func parseHours(raw string) (float64, bool) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// LoadOvertimeLog reads one year of overtime log entries.
//
// Logs carry either an OTHOURS column or the older Hours Worked / Hours Paid pair, in which
// case hours are paid minus worked. Rows without usable hours are dropped as missing_hours.
func LoadOvertimeLog(src Source, year int, opts ...Option) (*types.OvertimeDataset, error) {
	o := newOptions(opts)
	log := o.logger.With("source", src.Name(), "year", year)

	raw, err := readSource(src, year)
	if err != nil {
		return nil, err
	}
	text, encoding, err := Decode(raw)
	if err != nil {
		return nil, &SourceUnavailableError{Source: src.Name(), Year: year, Message: "failed to decode as UTF-8 or ISO-8859-1", Cause: err}
	}
	tbl, err := readTable(text)
	if err != nil {
		return nil, &SourceUnavailableError{Source: src.Name(), Year: year, Message: "failed to parse CSV", Cause: err}
	}

	mapping := o.tables.Overtime.Normalize(tbl.Headers, year)
	direct := []schema.Field{schema.FieldEmployeeID, schema.FieldOTHours}
	clock := []schema.Field{schema.FieldEmployeeID, schema.FieldHoursWorked, schema.FieldHoursPaid}
	if err := mapping.RequireAny(direct, clock); err != nil {
		var schemaErr *schema.SchemaError
		if errors.As(err, &schemaErr) {
			schemaErr.Source = src.Name()
		}
		return nil, err
	}
	useClock := !mapping.Has(schema.FieldOTHours)
	required := direct
	if useClock {
		required = clock
	}
	requiredMax := mapping.MaxIndex(required...)

	ds := &types.OvertimeDataset{
		Year:     year,
		Source:   src.Name(),
		Encoding: encoding,
		Entries:  make([]types.OvertimeEntry, 0, len(tbl.Rows)),
		RowsRead: len(tbl.Rows) + len(tbl.Malformed),
		Drops:    types.DropCounts{},
	}
	for _, w := range mapping.Warnings {
		ds.Warnings = append(ds.Warnings, types.RowWarning{Message: w.String()})
	}
	for _, w := range tbl.Malformed {
		ds.Drops[types.DropMalformedRow]++
		ds.Warnings = append(ds.Warnings, w)
	}

	var (
		idCol     = mapping.Index(schema.FieldEmployeeID)
		rankCol   = mapping.Index(schema.FieldRank)
		assignCol = mapping.Index(schema.FieldAssignment)
		dateCol   = mapping.Index(schema.FieldOTDate)
		hoursCol  = mapping.Index(schema.FieldOTHours)
		workedCol = mapping.Index(schema.FieldHoursWorked)
		paidCol   = mapping.Index(schema.FieldHoursPaid)
	)

	for _, row := range tbl.Rows {
		if len(row.Fields) <= requiredMax {
			ds.Drops[types.DropMissingColumn]++
			continue
		}

		var hours float64
		if useClock {
			worked, okW := parseHours(row.value(workedCol))
			paid, okP := parseHours(row.value(paidCol))
			if !okW || !okP {
				ds.Drops[types.DropMissingHours]++
				continue
			}
			hours = clockHours(paid) - clockHours(worked)
		} else {
			h, ok := parseHours(row.value(hoursCol))
			if !ok {
				ds.Drops[types.DropMissingHours]++
				continue
			}
			hours = h
		}

		entry := types.OvertimeEntry{
			EmployeeID: row.value(idCol),
			Rank:       row.value(rankCol),
			Assignment: row.value(assignCol),
			Hours:      hours,
			Row:        row.Line,
		}
		if rawDate := row.value(dateCol); rawDate != "" {
			if d, err := ParseOvertimeDate(rawDate); err == nil {
				entry.Date = &d
			} else {
				ds.Warnings = append(ds.Warnings, types.RowWarning{Row: row.Line, Message: err.Error()})
			}
		}
		ds.Entries = append(ds.Entries, entry)
	}

	log.Info("loaded overtime log",
		"encoding", encoding,
		"rows_read", ds.RowsRead,
		"entries", len(ds.Entries),
		"dropped", ds.Drops.Total(),
		"clock_format", useClock,
	)
	return ds, nil
}
