// Package trend holds the estimator contract for yearly series and a least-squares implementation.
package trend

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ErrInsufficientData is returned when a series has too few distinct years to fit.
var ErrInsufficientData = errors.New("insufficient data for trend estimate")

// Point is one (year, value) observation.
type Point struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// Estimator predicts values for future years from an ordered yearly series.
type Estimator interface {
	Forecast(series []Point, years []int) ([]Point, error)
}

// Linear fits value = Slope*year + Intercept by ordinary least squares.
type Linear struct{}

// Fit is a fitted line.
type Fit struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	R2        float64 `json:"r2"`
}

// At evaluates the line at year.
func (f Fit) At(year int) float64 {
	return f.Slope*float64(year) + f.Intercept
}

// Fit computes the least-squares line through series. At least two distinct years are required.
func (Linear) Fit(series []Point) (Fit, error) {
	if len(series) < 2 {
		return Fit{}, ErrInsufficientData
	}
	xs := make([]float64, len(series))
	ys := make([]float64, len(series))
	for i, p := range series {
		xs[i] = float64(p.Year)
		ys[i] = p.Value
	}
	if !distinct(xs) {
		return Fit{}, ErrInsufficientData
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	fit := Fit{Slope: slope, Intercept: intercept, R2: 1}
	if distinct(ys) {
		fit.R2 = stat.RSquared(xs, ys, nil, intercept, slope)
	}
	return fit, nil
}

// distinct reports whether vs holds at least two different values.
func distinct(vs []float64) bool {
	for _, v := range vs[1:] {
		if v != vs[0] {
			return true
		}
	}
	return false
}

// Forecast fits series and evaluates the line at each requested year, in the order given.
func (l Linear) Forecast(series []Point, years []int) ([]Point, error) {
	fit, err := l.Fit(series)
	if err != nil {
		return nil, err
	}
	out := make([]Point, 0, len(years))
	for _, y := range years {
		v := fit.At(y)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrInsufficientData
		}
		out = append(out, Point{Year: y, Value: v})
	}
	return out, nil
}

// NextYears returns the count years following the latest year in series.
func NextYears(series []Point, count int) []int {
	if len(series) == 0 || count <= 0 {
		return nil
	}
	last := series[0].Year
	for _, p := range series[1:] {
		if p.Year > last {
			last = p.Year
		}
	}
	out := make([]int, count)
	for i := range out {
		out[i] = last + i + 1
	}
	return out
}

// Sorted returns a copy of series ordered by year.
func Sorted(series []Point) []Point {
	out := append([]Point(nil), series...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
