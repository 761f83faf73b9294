package ingestion

import (
	"errors"
	"fmt"

	"github.com/jonathan/payroll-analysis/internal/currency"
	"github.com/jonathan/payroll-analysis/internal/schema"
	"github.com/jonathan/payroll-analysis/internal/types"
	"github.com/shopspring/decimal"
)

// LoadYear reads one yearly earnings report into a canonical dataset.
//
// It fails with *SourceUnavailableError when the source cannot be opened or decoded, and with
// *schema.SchemaError when DEPARTMENT_NAME or TOTAL_GROSS cannot be resolved; in both cases no
// records are returned. Rows whose total is missing or negative are dropped and counted. Other
// pay components default to 0. Duplicate (name, department, year) rows are counted and kept.
func LoadYear(src Source, year int, opts ...Option) (*types.YearlyDataset, error) {
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
	if encoding == EncodingLatin1 {
		log.Info("UTF-8 decode failed, using ISO-8859-1")
	}
	meta := NewMetadata(src.Name(), year, encoding, raw)
	log.Debug("read source", "bytes", meta.Bytes, "sha256", meta.Hash)

	tbl, err := readTable(text)
	if err != nil {
		return nil, &SourceUnavailableError{Source: src.Name(), Year: year, Message: "failed to parse CSV", Cause: err}
	}

	mapping := o.tables.Earnings.Normalize(tbl.Headers, year)
	if err := mapping.Require(schema.EarningsRequired...); err != nil {
		var schemaErr *schema.SchemaError
		if errors.As(err, &schemaErr) {
			schemaErr.Source = src.Name()
		}
		log.Error("required columns not found", "error", err)
		return nil, err
	}

	ds := &types.YearlyDataset{
		Year:     year,
		Source:   src.Name(),
		Encoding: encoding,
		SHA256:   meta.Hash,
		Records:  make([]types.EarningsRecord, 0, len(tbl.Rows)),
		Drops:    types.DropCounts{},
	}
	for _, w := range mapping.Warnings {
		log.Warn("duplicate columns for canonical field", "field", w.Field, "columns", w.Columns, "winner", w.Winner)
		ds.Warnings = append(ds.Warnings, types.RowWarning{Message: w.String()})
	}
	for _, w := range tbl.Malformed {
		ds.Drops[types.DropMalformedRow]++
		ds.Warnings = append(ds.Warnings, w)
	}
	ds.RowsRead = len(tbl.Rows) + len(tbl.Malformed)

	cols := earningsColumns(mapping)
	requiredMax := mapping.MaxIndex(schema.EarningsRequired...)
	seen := make(map[types.PersonKey]struct{}, len(tbl.Rows))

	for _, row := range tbl.Rows {
		if len(row.Fields) <= requiredMax {
			ds.Drops[types.DropMissingColumn]++
			ds.Warnings = append(ds.Warnings, types.RowWarning{
				Row:     row.Line,
				Message: fmt.Sprintf("row has %d columns, required field needs %d", len(row.Fields), requiredMax+1),
			})
			continue
		}

		total := currency.Normalize(row.value(cols.total))
		if !total.Valid {
			ds.Drops[types.DropMissingTotal]++
			continue
		}
		if total.IsNegative() {
			ds.Drops[types.DropNegativeTotal]++
			ds.Warnings = append(ds.Warnings, types.RowWarning{
				Row:     row.Line,
				Message: fmt.Sprintf("negative total gross %s", total.String()),
			})
			continue
		}

		rec := types.EarningsRecord{
			Name:           row.value(cols.name),
			Department:     row.value(cols.department),
			Title:          row.value(cols.title),
			Postal:         row.value(cols.postal),
			TotalGross:     total,
			Regular:        optionalAmount(row, cols.regular),
			Retro:          optionalAmount(row, cols.retro),
			Other:          optionalAmount(row, cols.other),
			Overtime:       optionalAmount(row, cols.overtime),
			Injured:        optionalAmount(row, cols.injured),
			Detail:         optionalAmount(row, cols.detail),
			QuinnEducation: optionalAmount(row, cols.quinn),
			Year:           year,
			Row:            row.Line,
		}

		key := rec.PersonKey()
		if _, dup := seen[key]; dup {
			ds.Duplicates++
		} else {
			seen[key] = struct{}{}
		}
		ds.Records = append(ds.Records, rec)
	}

	log.Info("loaded earnings",
		"encoding", encoding,
		"rows_read", ds.RowsRead,
		"records", len(ds.Records),
		"dropped", ds.Dropped(),
		"duplicates", ds.Duplicates,
	)
	return ds, nil
}

type earningsCols struct {
	name, department, title, postal                                int
	total, regular, retro, other, overtime, injured, detail, quinn int
}

func earningsColumns(m *schema.Mapping) earningsCols {
	return earningsCols{
		name:       m.Index(schema.FieldName),
		department: m.Index(schema.FieldDepartmentName),
		title:      m.Index(schema.FieldTitle),
		postal:     m.Index(schema.FieldPostal),
		total:      m.Index(schema.FieldTotalGross),
		regular:    m.Index(schema.FieldRegular),
		retro:      m.Index(schema.FieldRetro),
		other:      m.Index(schema.FieldOther),
		overtime:   m.Index(schema.FieldOvertime),
		injured:    m.Index(schema.FieldInjured),
		detail:     m.Index(schema.FieldDetail),
		quinn:      m.Index(schema.FieldQuinnEducation),
	}
}

// optionalAmount parses an optional pay component; absent or unparseable values are 0.
func optionalAmount(row rawRow, i int) decimal.Decimal {
	return currency.Normalize(row.value(i)).OrZero()
}
