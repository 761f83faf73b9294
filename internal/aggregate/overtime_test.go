package aggregate

import (
	"errors"
	"testing"

	"github.com/jonathan/payroll-analysis/internal/trend"
	"github.com/jonathan/payroll-analysis/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func otDataset(year int, entries ...types.OvertimeEntry) *types.OvertimeDataset {
	return &types.OvertimeDataset{Year: year, Entries: entries}
}

func entry(id, rank, assign string, hours float64) types.OvertimeEntry {
	return types.OvertimeEntry{EmployeeID: id, Rank: rank, Assignment: assign, Hours: hours}
}

func TestOvertimeTotalsByYear(t *testing.T) {
	points := OvertimeTotalsByYear([]*types.OvertimeDataset{
		otDataset(2013, entry("1", "Ptl", "A", 2), entry("2", "Ptl", "A", 3)),
		otDataset(2012, entry("1", "Ptl", "A", 4)),
		nil,
	})

	assert.Equal(t, []trend.Point{{Year: 2012, Value: 4}, {Year: 2013, Value: 5}}, points)
}

func TestOvertimeByEmployee(t *testing.T) {
	got := OvertimeByEmployee(otDataset(2020,
		entry("7", "Ptl", "A", 2),
		entry("3", "Sgt", "B", 1),
		entry("7", "Ptl", "A", 4),
	))

	require.Len(t, got, 2)
	assert.Equal(t, "7", got[0].EmployeeID)
	assert.InDelta(t, 6.0, got[0].Hours, 1e-9)
	assert.Equal(t, 2, got[0].Entries)
}

func TestOvertimeYearStats(t *testing.T) {
	stats := OvertimeYearStats([]*types.OvertimeDataset{
		otDataset(2020, entry("1", "", "", 2), entry("1", "", "", 4), entry("2", "", "", 6)),
		otDataset(2019),
	})

	require.Len(t, stats, 1)
	s := stats[0]
	assert.Equal(t, 3, s.Entries)
	assert.Equal(t, 2, s.Employees)
	assert.InDelta(t, 4.0, s.Mean, 1e-9)
	assert.InDelta(t, 2.0, s.StdDev, 1e-9)
	assert.InDelta(t, 6.0, s.MeanPerEmployee, 1e-9)
}

func TestOvertimeYearStats_SingleEntry(t *testing.T) {
	stats := OvertimeYearStats([]*types.OvertimeDataset{otDataset(2021, entry("1", "", "", 5))})

	require.Len(t, stats, 1)
	assert.InDelta(t, 5.0, stats[0].Mean, 1e-9)
	assert.Zero(t, stats[0].StdDev)
	assert.Nil(t, YearLikelihood(stats, 5))
}

func TestYearLikelihood_Symmetric(t *testing.T) {
	probs := YearLikelihood([]YearStats{
		{Year: 2014, Mean: 4, StdDev: 1.5},
		{Year: 2015, Mean: 8, StdDev: 1.5},
	}, 6)

	require.Len(t, probs, 2)
	assert.InDelta(t, 0.5, probs[0].Probability, 1e-9)
	assert.InDelta(t, 0.5, probs[1].Probability, 1e-9)
}

func TestYearLikelihood(t *testing.T) {
	stats := []YearStats{
		{Year: 2019, Mean: 10, StdDev: 2},
		{Year: 2020, Mean: 100, StdDev: 2},
		{Year: 2021, Mean: 50, StdDev: 0},
	}

	probs := YearLikelihood(stats, 11)

	require.Len(t, probs, 2)
	assert.Equal(t, 2019, probs[0].Year)
	assert.InDelta(t, 1.0, probs[0].Probability, 1e-9)
	assert.InDelta(t, 0.0, probs[1].Probability, 1e-9)
	assert.Nil(t, YearLikelihood(nil, 5))
}

func TestRankAssignmentHours(t *testing.T) {
	rows := RankAssignmentHours([]*types.OvertimeDataset{
		otDataset(2021, entry("1", "Ptl", "A-1", 3)),
		otDataset(2020, entry("1", "Ptl", "A-1", 2), entry("2", "Sgt", "B-2", 1), entry("3", "Ptl", "A-1", 5)),
	})

	assert.Equal(t, []RankAssignment{
		{Year: 2020, Rank: "Ptl", Assignment: "A-1", Hours: 7},
		{Year: 2020, Rank: "Sgt", Assignment: "B-2", Hours: 1},
		{Year: 2021, Rank: "Ptl", Assignment: "A-1", Hours: 3},
	}, rows)
}

func TestPredictRankAssignment(t *testing.T) {
	rows := []RankAssignment{
		{Year: 2020, Rank: "Sgt", Assignment: "B", Hours: 10},
		{Year: 2020, Rank: "Ptl", Assignment: "A", Hours: 100},
		{Year: 2021, Rank: "Ptl", Assignment: "A", Hours: 110},
		{Year: 2022, Rank: "Ptl", Assignment: "A", Hours: 120},
		{Year: 2022, Rank: "Det", Assignment: "C", Hours: 40},
	}

	preds, err := PredictRankAssignment(rows, trend.Linear{}, 2023)
	require.NoError(t, err)

	require.Len(t, preds, 2)
	assert.Equal(t, "Det", preds[0].Rank)
	assert.Equal(t, MethodLastValue, preds[0].Method)
	assert.InDelta(t, 40.0, preds[0].Hours, 1e-9)
	assert.Equal(t, "Ptl", preds[1].Rank)
	assert.Equal(t, MethodEstimator, preds[1].Method)
	assert.InDelta(t, 130.0, preds[1].Hours, 1e-6)
	assert.Equal(t, 2023, preds[1].Year)
}

type failingEstimator struct{}

func (failingEstimator) Forecast([]trend.Point, []int) ([]trend.Point, error) {
	return nil, errors.New("boom")
}

func TestPredictRankAssignment_EstimatorError(t *testing.T) {
	_, err := PredictRankAssignment([]RankAssignment{{Year: 2020, Rank: "A", Hours: 1}}, failingEstimator{}, 2021)
	assert.Error(t, err)

	preds, err := PredictRankAssignment(nil, trend.Linear{}, 2021)
	assert.NoError(t, err)
	assert.Empty(t, preds)
}
