package pipeline

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/payroll-analysis/internal/ingestion"
	"github.com/jonathan/payroll-analysis/internal/types"
)

// YearLoader loads the dataset of one year.
type YearLoader[T any] func(ctx context.Context, year int) (T, error)

// YearResult is the outcome of one year. Dataset is the zero value when Err is set.
type YearResult[T any] struct {
	Year    int
	Dataset T
	Err     error
}

// LoadYears runs load for every distinct year with at most workers loads in flight.
// A failing year never cancels the others; years not started before ctx is done get ctx.Err().
// Results are sorted by year.
func LoadYears[T any](ctx context.Context, years []int, workers int, load YearLoader[T]) []YearResult[T] {
	years = uniqueSorted(years)
	results := make([]YearResult[T], len(years))
	if workers <= 0 {
		workers = 1
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, year := range years {
		g.Go(func() error {
			results[i].Year = year
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			ds, err := load(ctx, year)
			if err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Dataset = ds
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func uniqueSorted(years []int) []int {
	seen := make(map[int]bool, len(years))
	out := make([]int, 0, len(years))
	for _, y := range years {
		if seen[y] {
			continue
		}
		seen[y] = true
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

// EarningsLoader loads dir/pattern for each year, with "{year}" in pattern replaced.
func EarningsLoader(dir, pattern string, opts ...ingestion.Option) YearLoader[*types.YearlyDataset] {
	return func(_ context.Context, year int) (*types.YearlyDataset, error) {
		src := ingestion.FileSource{Path: ingestion.YearPath(dir, pattern, year)}
		return ingestion.LoadYear(src, year, opts...)
	}
}

// OvertimeLoader loads yearly overtime logs from dir/pattern.
func OvertimeLoader(dir, pattern string, opts ...ingestion.Option) YearLoader[*types.OvertimeDataset] {
	return func(_ context.Context, year int) (*types.OvertimeDataset, error) {
		src := ingestion.FileSource{Path: ingestion.YearPath(dir, pattern, year)}
		return ingestion.LoadOvertimeLog(src, year, opts...)
	}
}

// Loaded returns the datasets of the years that loaded, in year order.
func Loaded[T any](results []YearResult[T]) []T {
	out := make([]T, 0, len(results))
	for _, r := range results {
		if r.Err == nil {
			out = append(out, r.Dataset)
		}
	}
	return out
}

// EarningsLoadReport summarizes earnings results, failures included.
func EarningsLoadReport(runID string, results []YearResult[*types.YearlyDataset]) *types.LoadReport {
	report := &types.LoadReport{RunID: runID, GeneratedAt: time.Now().UTC(), Years: []types.YearLoadReport{}}
	for _, r := range results {
		report.Add(types.NewYearLoadReport(r.Year, r.Dataset, r.Err))
	}
	return report
}

// OvertimeLoadReport summarizes overtime log results in the same layout as earnings.
func OvertimeLoadReport(runID string, results []YearResult[*types.OvertimeDataset]) *types.LoadReport {
	report := &types.LoadReport{RunID: runID, GeneratedAt: time.Now().UTC(), Years: []types.YearLoadReport{}}
	for _, r := range results {
		y := types.NewYearLoadReport(r.Year, nil, r.Err)
		if ds := r.Dataset; ds != nil {
			y.Source = ds.Source
			y.Encoding = ds.Encoding
			y.RowsRead = ds.RowsRead
			y.Loaded = len(ds.Entries)
			y.Dropped = ds.Drops.Total()
			for _, reason := range ds.Drops.Reasons() {
				y.Drops[string(reason)] = ds.Drops[reason]
			}
			for _, w := range ds.Warnings {
				y.Warnings = append(y.Warnings, w.String())
			}
		}
		report.Add(y)
	}
	return report
}
