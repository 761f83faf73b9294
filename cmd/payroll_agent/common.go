package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/payroll-analysis/internal/classify"
	"github.com/jonathan/payroll-analysis/internal/config"
	"github.com/jonathan/payroll-analysis/internal/ingestion"
	"github.com/jonathan/payroll-analysis/internal/pipeline"
	"github.com/jonathan/payroll-analysis/internal/types"
)

// parseYears reads "2014-2016", "2014,2016" or a mix of both.
func parseYears(s string) ([]int, error) {
	var years []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		from, to, isRange := strings.Cut(part, "-")
		start, err := strconv.Atoi(strings.TrimSpace(from))
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", part)
		}
		end := start
		if isRange {
			if end, err = strconv.Atoi(strings.TrimSpace(to)); err != nil {
				return nil, fmt.Errorf("invalid year range %q", part)
			}
		}
		if end < start {
			return nil, fmt.Errorf("invalid year range %q: %d is after %d", part, start, end)
		}
		for y := start; y <= end; y++ {
			years = append(years, y)
		}
	}
	return years, nil
}

// resolveYears uses the --years flag when given and the configured range otherwise.
func resolveYears(flag string) ([]int, error) {
	if flag != "" {
		years, err := parseYears(flag)
		if err != nil {
			return nil, err
		}
		if len(years) > 0 {
			return years, nil
		}
	}
	if years := cfg.YearList(); len(years) > 0 {
		return years, nil
	}
	return nil, fmt.Errorf("no years given: use --years or set years.from and years.to in the config")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

// referenceDate parses the --reference-date flag, falling back to the configured date.
func referenceDate(flag string) (time.Time, error) {
	if flag != "" {
		t, err := time.Parse(config.DateLayout, flag)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid reference date %q: %w", flag, err)
		}
		return t, nil
	}
	t, _, err := cfg.ReferenceDate()
	return t, err
}

// loadTables builds the alias and keyword tables with the configured overrides.
func loadTables() (pipeline.Tables, error) {
	return pipeline.LoadTables(cfg.Overrides.AliasFile, cfg.Overrides.KeywordFile)
}

func loadOptions(tables pipeline.Tables) []ingestion.Option {
	return []ingestion.Option{
		ingestion.WithAliasTables(tables.Aliases),
		ingestion.WithLogger(logger),
	}
}

// earningsSource locates the earnings files.
type earningsSource struct {
	dir     string
	pattern string
}

func newEarningsSource(dir, pattern string) earningsSource {
	return earningsSource{
		dir:     firstNonEmpty(dir, cfg.Data.Dir),
		pattern: firstNonEmpty(pattern, cfg.Data.EarningsPattern),
	}
}

// loadEarnings loads every year concurrently and classifies the loaded records. It fails only
// when no year could be loaded.
func loadEarnings(ctx context.Context, years []int, src earningsSource, tables pipeline.Tables) ([]*types.YearlyDataset, *types.LoadReport, error) {
	results := pipeline.LoadYears(ctx, years, cfg.Workers, pipeline.EarningsLoader(src.dir, src.pattern, loadOptions(tables)...))
	report := pipeline.EarningsLoadReport("", results)
	for _, r := range results {
		if r.Err != nil {
			logger.Warn("year failed to load", "year", r.Year, "error", r.Err)
		}
	}
	datasets := pipeline.Loaded(results)
	if len(datasets) == 0 {
		return nil, report, fmt.Errorf("no earnings year could be loaded from %s (%d failed)", src.dir, report.Failed)
	}
	tables.Classify(datasets)
	return datasets, report, nil
}

// loadOvertime loads the overtime logs of years. It fails only when none could be loaded.
func loadOvertime(ctx context.Context, years []int, dir, pattern string, tables pipeline.Tables) ([]*types.OvertimeDataset, *types.LoadReport, error) {
	dir = firstNonEmpty(dir, cfg.Data.OvertimeDir)
	pattern = firstNonEmpty(pattern, cfg.Data.OvertimePattern)
	results := pipeline.LoadYears(ctx, years, cfg.Workers, pipeline.OvertimeLoader(dir, pattern, loadOptions(tables)...))
	report := pipeline.OvertimeLoadReport("", results)
	for _, r := range results {
		if r.Err != nil {
			logger.Warn("overtime log failed to load", "year", r.Year, "error", r.Err)
		}
	}
	datasets := pipeline.Loaded(results)
	if len(datasets) == 0 {
		return nil, report, fmt.Errorf("no overtime log could be loaded from %s (%d failed)", dir, report.Failed)
	}
	return datasets, report, nil
}

// loadRoster loads and ranks the roster.
func loadRoster(path, refDate string, tables pipeline.Tables) (*types.RosterDataset, error) {
	path = firstNonEmpty(path, cfg.Data.RosterFile)
	date, err := referenceDate(refDate)
	if err != nil {
		return nil, err
	}
	opts := loadOptions(tables)
	if !date.IsZero() {
		opts = append(opts, ingestion.WithReferenceDate(date))
	}
	ds, err := ingestion.LoadRoster(ingestion.FileSource{Path: path}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	ds.Records = classify.RankRoster(ds.Records, tables.Titles)
	return ds, nil
}

// splitOutput turns an output file path into the directory and name an export.Writer takes.
func splitOutput(path string) (dir, name string) {
	return filepath.Dir(path), filepath.Base(path)
}
