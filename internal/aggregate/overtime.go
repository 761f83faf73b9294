package aggregate

import (
	"errors"
	"sort"

	"github.com/jonathan/payroll-analysis/internal/trend"
	"github.com/jonathan/payroll-analysis/internal/types"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// OvertimeTotalsByYear sums logged overtime hours per year, ordered by year.
func OvertimeTotalsByYear(datasets []*types.OvertimeDataset) []trend.Point {
	out := make([]trend.Point, 0, len(datasets))
	for _, ds := range datasets {
		if ds == nil {
			continue
		}
		total := 0.0
		for _, e := range ds.Entries {
			total += e.Hours
		}
		out = append(out, trend.Point{Year: ds.Year, Value: total})
	}
	return trend.Sorted(out)
}

// EmployeeHours is one employee's overtime for a year.
type EmployeeHours struct {
	EmployeeID string  `json:"employee_id"`
	Hours      float64 `json:"hours"`
	Entries    int     `json:"entries"`
}

// OvertimeByEmployee sums hours per employee in order of first appearance.
func OvertimeByEmployee(ds *types.OvertimeDataset) []EmployeeHours {
	idx := make(map[string]int)
	var out []EmployeeHours
	for _, e := range ds.Entries {
		i, ok := idx[e.EmployeeID]
		if !ok {
			i = len(out)
			idx[e.EmployeeID] = i
			out = append(out, EmployeeHours{EmployeeID: e.EmployeeID})
		}
		out[i].Hours += e.Hours
		out[i].Entries++
	}
	return out
}

// YearStats describes one year of overtime entries.
type YearStats struct {
	Year            int     `json:"year"`
	Entries         int     `json:"entries"`
	Employees       int     `json:"employees"`
	Mean            float64 `json:"mean"`
	StdDev          float64 `json:"std_dev"`
	MeanPerEmployee float64 `json:"mean_per_employee"`
}

// OvertimeYearStats computes the mean and sample standard deviation of entry hours and the
// mean total per employee, per year. Years without entries are omitted.
func OvertimeYearStats(datasets []*types.OvertimeDataset) []YearStats {
	var out []YearStats
	for _, ds := range datasets {
		if ds == nil || len(ds.Entries) == 0 {
			continue
		}
		s := YearStats{Year: ds.Year, Entries: len(ds.Entries)}
		hours := make([]float64, len(ds.Entries))
		sum := 0.0
		for i, e := range ds.Entries {
			hours[i] = e.Hours
			sum += e.Hours
		}
		if s.Entries > 1 {
			s.Mean, s.StdDev = stat.MeanStdDev(hours, nil)
		} else {
			s.Mean = sum
		}
		employees := OvertimeByEmployee(ds)
		s.Employees = len(employees)
		s.MeanPerEmployee = sum / float64(s.Employees)
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// YearProbability is the normalized likelihood that an overtime value came from a year.
type YearProbability struct {
	Year        int     `json:"year"`
	Probability float64 `json:"probability"`
}

// YearLikelihood evaluates a normal density per year at hours and normalizes across years.
// Years with zero spread are skipped. The result is empty when every density is zero.
func YearLikelihood(stats []YearStats, hours float64) []YearProbability {
	var out []YearProbability
	total := 0.0
	for _, s := range stats {
		if s.StdDev <= 0 {
			continue
		}
		pdf := distuv.Normal{Mu: s.Mean, Sigma: s.StdDev}.Prob(hours)
		out = append(out, YearProbability{Year: s.Year, Probability: pdf})
		total += pdf
	}
	if total == 0 {
		return nil
	}
	for i := range out {
		out[i].Probability /= total
	}
	return out
}

// RankAssignment is total overtime for one (year, rank, assignment).
type RankAssignment struct {
	Year       int     `json:"year"`
	Rank       string  `json:"rank"`
	Assignment string  `json:"assignment"`
	Hours      float64 `json:"hours"`
}

type rankAssignmentKey struct {
	year       int
	rank       string
	assignment string
}

// RankAssignmentHours sums hours per (year, rank, assignment), ordered by year and then by
// first appearance.
func RankAssignmentHours(datasets []*types.OvertimeDataset) []RankAssignment {
	sorted := make([]*types.OvertimeDataset, 0, len(datasets))
	for _, ds := range datasets {
		if ds != nil {
			sorted = append(sorted, ds)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })

	idx := make(map[rankAssignmentKey]int)
	var out []RankAssignment
	for _, ds := range sorted {
		for _, e := range ds.Entries {
			k := rankAssignmentKey{year: ds.Year, rank: e.Rank, assignment: e.Assignment}
			i, ok := idx[k]
			if !ok {
				i = len(out)
				idx[k] = i
				out = append(out, RankAssignment{Year: ds.Year, Rank: e.Rank, Assignment: e.Assignment})
			}
			out[i].Hours += e.Hours
		}
	}
	return out
}

// Prediction methods.
const (
	MethodEstimator = "estimator"
	MethodLastValue = "last_value"
)

// Prediction is a forecast for one (rank, assignment).
type Prediction struct {
	Year       int     `json:"year"`
	Rank       string  `json:"rank"`
	Assignment string  `json:"assignment"`
	Hours      float64 `json:"hours"`
	Method     string  `json:"method"`
}

// PredictRankAssignment forecasts target-year hours for every (rank, assignment) present in the
// latest year of rows. Each combination's yearly series goes to est; combinations with too little
// history carry their latest value forward. Output is sorted by rank then assignment.
func PredictRankAssignment(rows []RankAssignment, est trend.Estimator, target int) ([]Prediction, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	latest := rows[0].Year
	for _, r := range rows {
		if r.Year > latest {
			latest = r.Year
		}
	}

	type combo struct{ rank, assignment string }
	series := make(map[combo][]trend.Point)
	var current []combo
	for _, r := range rows {
		c := combo{r.Rank, r.Assignment}
		series[c] = append(series[c], trend.Point{Year: r.Year, Value: r.Hours})
		if r.Year == latest {
			current = append(current, c)
		}
	}

	out := make([]Prediction, 0, len(current))
	for _, c := range current {
		s := trend.Sorted(series[c])
		p := Prediction{Year: target, Rank: c.rank, Assignment: c.assignment, Method: MethodEstimator}
		pts, err := est.Forecast(s, []int{target})
		switch {
		case err == nil && len(pts) == 1:
			p.Hours = pts[0].Value
		case err == nil || errors.Is(err, trend.ErrInsufficientData):
			p.Hours = s[len(s)-1].Value
			p.Method = MethodLastValue
		default:
			return nil, err
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return out[i].Assignment < out[j].Assignment
	})
	return out, nil
}
