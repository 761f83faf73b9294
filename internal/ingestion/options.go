package ingestion

import (
	"log/slog"
	"time"

	"github.com/jonathan/payroll-analysis/internal/schema"
)

type options struct {
	tables        schema.Tables
	logger        *slog.Logger
	referenceDate time.Time
}

// Option configures a loader.
type Option func(*options)

func newOptions(opts []Option) *options {
	o := &options{
		tables: schema.DefaultTables(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithAliasTables replaces the built-in alias tables, e.g. with ones loaded by schema.LoadAliasFile.
// Nil tables keep their defaults.
func WithAliasTables(tables schema.Tables) Option {
	return func(o *options) {
		if tables.Earnings != nil {
			o.tables.Earnings = tables.Earnings
		}
		if tables.Roster != nil {
			o.tables.Roster = tables.Roster
		}
		if tables.Overtime != nil {
			o.tables.Overtime = tables.Overtime
		}
	}
}

// WithLogger sets the logger used for load summaries and warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithReferenceDate sets the date roster tenure is measured against.
func WithReferenceDate(date time.Time) Option {
	return func(o *options) {
		o.referenceDate = date
	}
}
