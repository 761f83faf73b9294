package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/payroll-analysis/internal/ingestion"
	"github.com/jonathan/payroll-analysis/internal/types"
)

func TestLoadYears_FailureDoesNotCancelOthers(t *testing.T) {
	boom := errors.New("unreadable")
	load := func(_ context.Context, year int) (*types.YearlyDataset, error) {
		if year == 2013 {
			return nil, boom
		}
		return &types.YearlyDataset{Year: year}, nil
	}

	results := LoadYears(context.Background(), []int{2014, 2012, 2013, 2012}, 2, load)

	require.Len(t, results, 3)
	assert.Equal(t, 2012, results[0].Year)
	assert.Equal(t, 2013, results[1].Year)
	assert.Equal(t, 2014, results[2].Year)
	assert.ErrorIs(t, results[1].Err, boom)
	assert.Nil(t, results[1].Dataset)
	require.NotNil(t, results[2].Dataset)
	assert.Equal(t, 2014, results[2].Dataset.Year)

	loaded := Loaded(results)
	require.Len(t, loaded, 2)
	assert.Equal(t, 2012, loaded[0].Year)
}

func TestLoadYears_RespectsWorkerLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	load := func(_ context.Context, year int) (int, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return year, nil
	}

	results := LoadYears(context.Background(), []int{2011, 2012, 2013, 2014, 2015, 2016}, 2, load)

	require.Len(t, results, 6)
	assert.LessOrEqual(t, peak.Load(), int32(2))
	for _, r := range results {
		assert.NoError(t, r.Err)
		assert.Equal(t, r.Year, r.Dataset)
	}
}

func TestLoadYears_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	results := LoadYears(ctx, []int{2015, 2016}, 0, func(_ context.Context, year int) (int, error) {
		called = true
		return year, nil
	})

	assert.False(t, called)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}

func TestEarningsLoader_MissingFile(t *testing.T) {
	load := EarningsLoader(t.TempDir(), "employee-earnings-report-{year}.csv")

	_, err := load(context.Background(), 2019)

	var srcErr *ingestion.SourceUnavailableError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, 2019, srcErr.Year)
	assert.Equal(t, "employee-earnings-report-2019.csv", filepath.Base(srcErr.Source))
}

func TestEarningsLoadReport(t *testing.T) {
	results := []YearResult[*types.YearlyDataset]{
		{Year: 2014, Dataset: &types.YearlyDataset{
			Year:     2014,
			Source:   "2014.csv",
			Encoding: ingestion.EncodingUTF8,
			Records:  make([]types.EarningsRecord, 2),
			RowsRead: 3,
			Drops:    types.DropCounts{types.DropMissingTotal: 1},
		}},
		{Year: 2015, Err: errors.New("source unavailable")},
	}

	report := EarningsLoadReport("run-1", results)

	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Years, 2)
	assert.Equal(t, 2, report.Years[0].Loaded)
	assert.Equal(t, 1, report.Years[0].Drops["missing_total"])
	assert.Equal(t, "source unavailable", report.Years[1].Error)
	assert.NotNil(t, report.Years[1].Drops)
}

func TestOvertimeLoadReport(t *testing.T) {
	results := []YearResult[*types.OvertimeDataset]{
		{Year: 2014, Dataset: &types.OvertimeDataset{
			Year:     2014,
			Source:   "2014.csv",
			Encoding: ingestion.EncodingLatin1,
			Entries:  make([]types.OvertimeEntry, 4),
			RowsRead: 5,
			Drops:    types.DropCounts{types.DropMissingHours: 1},
			Warnings: []types.RowWarning{{Row: 3, Message: "unparseable date"}},
		}},
	}

	report := OvertimeLoadReport("", results)

	require.Len(t, report.Years, 1)
	y := report.Years[0]
	assert.Equal(t, 4, y.Loaded)
	assert.Equal(t, 1, y.Dropped)
	assert.Equal(t, map[string]int{"missing_hours": 1}, y.Drops)
	assert.Equal(t, []string{"row 3: unparseable date"}, y.Warnings)
	assert.Zero(t, report.Failed)
}
