package aggregate

import (
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/payroll-analysis/internal/currency"
	"github.com/jonathan/payroll-analysis/internal/trend"
	"github.com/jonathan/payroll-analysis/internal/types"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// Filter selects records. A nil Filter selects everything.
type Filter func(types.EarningsRecord) bool

// InjuryDepartment is the department the injury/overtime participation summary covers.
const InjuryDepartment = "Boston Police Department"

// DepartmentIs matches the raw department name, ignoring case and surrounding whitespace.
func DepartmentIs(name string) Filter {
	want := strings.ToLower(strings.TrimSpace(name))
	return func(r types.EarningsRecord) bool {
		return strings.ToLower(strings.TrimSpace(r.Department)) == want
	}
}

// DepartmentCategoryIs matches the classified department bucket.
func DepartmentCategoryIs(category string) Filter {
	return func(r types.EarningsRecord) bool {
		return r.DepartmentCategory == category
	}
}

// Select returns the records f accepts, in input order.
func Select(records []types.EarningsRecord, f Filter) []types.EarningsRecord {
	if f == nil {
		return append([]types.EarningsRecord(nil), records...)
	}
	out := make([]types.EarningsRecord, 0, len(records))
	for _, r := range records {
		if f(r) {
			out = append(out, r)
		}
	}
	return out
}

// InjuryOvertimeRow is one year of the injury/overtime participation summary.
type InjuryOvertimeRow struct {
	Year            int             `json:"year"`
	Employees       int             `json:"employees"`
	TotalInjuryPay  decimal.Decimal `json:"total_injury_pay"`
	InjuryPercent   currency.Amount `json:"injury_percent"`
	OvertimePercent currency.Amount `json:"overtime_percent"`
}

// InjuryOvertimeSummary computes, per year, total injury pay and the share of selected employees
// with injury pay above zero and with overtime above zero. The denominator is the number of
// loaded records; a year with no selected records gets Missing percentages. Rows are ordered by year.
func InjuryOvertimeSummary(datasets []*types.YearlyDataset, f Filter) []InjuryOvertimeRow {
	out := make([]InjuryOvertimeRow, 0, len(datasets))
	for _, ds := range datasets {
		if ds == nil {
			continue
		}
		selected := Select(ds.Records, f)
		row := InjuryOvertimeRow{
			Year:            ds.Year,
			Employees:       len(selected),
			TotalInjuryPay:  decimal.Zero,
			InjuryPercent:   currency.Missing,
			OvertimePercent: currency.Missing,
		}
		injured, overtime := 0, 0
		for _, r := range selected {
			row.TotalInjuryPay = row.TotalInjuryPay.Add(r.Injured)
			if r.Injured.IsPositive() {
				injured++
			}
			if r.Overtime.IsPositive() {
				overtime++
			}
		}
		if len(selected) > 0 {
			row.InjuryPercent = percentOf(injured, len(selected))
			row.OvertimePercent = percentOf(overtime, len(selected))
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

func percentOf(part, whole int) currency.Amount {
	if whole == 0 {
		return currency.Missing
	}
	return currency.New(decimal.NewFromInt(int64(part)).Div(decimal.NewFromInt(int64(whole))).Mul(hundred))
}

// ComponentShare is a pay component's amount and its share of total gross.
type ComponentShare struct {
	Component types.Component `json:"component"`
	Amount    decimal.Decimal `json:"amount"`
	Share     currency.Amount `json:"share"`
}

// PayComponentsSummary totals each pay component across records.
type PayComponentsSummary struct {
	Records    int              `json:"records"`
	Skipped    int              `json:"skipped"`
	TotalGross decimal.Decimal  `json:"total_gross"`
	Components []ComponentShare `json:"components"`
}

// PayComponents sums every pay component and expresses each as a share of summed total gross.
// Records with a missing total are skipped and counted.
func PayComponents(records []types.EarningsRecord) PayComponentsSummary {
	s := PayComponentsSummary{TotalGross: decimal.Zero}
	sums := make(map[types.Component]decimal.Decimal, len(types.Components))
	for _, r := range records {
		if !r.TotalGross.Valid {
			s.Skipped++
			continue
		}
		s.Records++
		s.TotalGross = s.TotalGross.Add(r.TotalGross.Value)
		for _, c := range types.Components {
			sums[c] = sums[c].Add(r.Component(c))
		}
	}
	for _, c := range types.Components {
		s.Components = append(s.Components, ComponentShare{
			Component: c,
			Amount:    sums[c],
			Share:     ratioPercent(sums[c], s.TotalGross),
		})
	}
	return s
}

func ratioPercent(num, den decimal.Decimal) currency.Amount {
	if den.IsZero() {
		return currency.Missing
	}
	return currency.New(num.Div(den).Mul(hundred))
}

// TopEarners returns the n records with the highest total gross, highest first.
// Ties keep input order; records with a missing total are excluded.
func TopEarners(records []types.EarningsRecord, n int) []types.EarningsRecord {
	valid := make([]types.EarningsRecord, 0, len(records))
	for _, r := range records {
		if r.TotalGross.Valid {
			valid = append(valid, r)
		}
	}
	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].TotalGross.Value.GreaterThan(valid[j].TotalGross.Value)
	})
	if n >= 0 && n < len(valid) {
		valid = valid[:n]
	}
	return valid
}

// Breakdown splits one record's total gross into its components.
type Breakdown struct {
	Name              string           `json:"name"`
	TotalGross        currency.Amount  `json:"total_gross"`
	Components        []ComponentShare `json:"components"`
	ComponentSum      decimal.Decimal  `json:"component_sum"`
	Difference        decimal.Decimal  `json:"difference"`
	DifferencePercent currency.Amount  `json:"difference_percent"`
}

// ComponentBreakdown lists the positive pay components of r with their share of total gross,
// plus the gap between the component sum and the reported total.
func ComponentBreakdown(r types.EarningsRecord) Breakdown {
	b := Breakdown{
		Name:              r.Name,
		TotalGross:        r.TotalGross,
		ComponentSum:      r.ComponentSum(),
		DifferencePercent: currency.Missing,
	}
	total := r.TotalGross.OrZero()
	for _, c := range types.Components {
		amount := r.Component(c)
		if !amount.IsPositive() {
			continue
		}
		share := currency.Missing
		if r.TotalGross.Valid {
			share = ratioPercent(amount, total)
		}
		b.Components = append(b.Components, ComponentShare{Component: c, Amount: amount, Share: share})
	}
	if r.TotalGross.Valid {
		b.Difference = total.Sub(b.ComponentSum)
		b.DifferencePercent = ratioPercent(b.Difference, total)
	}
	return b
}

// DepartmentRatio is a department's overtime share averaged across years.
type DepartmentRatio struct {
	Department string          `json:"department"`
	MeanRatio  currency.Amount `json:"mean_ratio"`
	Years      int             `json:"years"`
}

// DepartmentOvertimeRanking computes, per year, the mean per-employee overtime/total-gross
// percentage of every department, averages those yearly means per department and sorts the
// result descending. Employees with a zero or missing total are skipped.
func DepartmentOvertimeRanking(datasets []*types.YearlyDataset) []DepartmentRatio {
	req := Request{
		GroupBy:     []Dimension{DimDepartment},
		Measure:     MeasureOvertime,
		Denominator: MeasureTotalGross,
		Op:          OpMeanRatio,
		Policy:      PolicySkipMissing,
	}

	type acc struct {
		sum   decimal.Decimal
		years int
	}
	var order []string
	byDept := make(map[string]*acc)
	for _, ds := range datasets {
		if ds == nil {
			continue
		}
		res, err := Aggregate(ds.Records, req)
		if err != nil {
			continue
		}
		for _, g := range res.Groups {
			if !g.Value.Valid {
				continue
			}
			dept := g.Key[0]
			a, ok := byDept[dept]
			if !ok {
				a = &acc{sum: decimal.Zero}
				byDept[dept] = a
				order = append(order, dept)
			}
			a.sum = a.sum.Add(g.Value.Value)
			a.years++
		}
	}

	out := make([]DepartmentRatio, 0, len(order))
	for _, dept := range order {
		a := byDept[dept]
		out = append(out, DepartmentRatio{
			Department: dept,
			MeanRatio:  currency.New(a.sum.Div(decimal.NewFromInt(int64(a.years)))),
			Years:      a.years,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].MeanRatio.Value.Equal(out[j].MeanRatio.Value) {
			return out[i].MeanRatio.Value.GreaterThan(out[j].MeanRatio.Value)
		}
		return out[i].Department < out[j].Department
	})
	return out
}

// DedupeResult is the outcome of DedupeByPerson.
type DedupeResult struct {
	Records []types.EarningsRecord `json:"-"`
	Removed int                    `json:"removed"`
}

// DedupeByPerson keeps the first record per (name, department, year) in input order.
func DedupeByPerson(records []types.EarningsRecord) DedupeResult {
	seen := make(map[types.PersonKey]struct{}, len(records))
	res := DedupeResult{Records: make([]types.EarningsRecord, 0, len(records))}
	for _, r := range records {
		k := r.PersonKey()
		if _, ok := seen[k]; ok {
			res.Removed++
			continue
		}
		seen[k] = struct{}{}
		res.Records = append(res.Records, r)
	}
	return res
}

// YearSeries extracts an ordered (year, value) series from a result grouped by year plus
// optional other dimensions. match holds the required values of the non-year dimensions in
// GroupBy order. Missing values are left out.
func YearSeries(res *Result, match ...string) []trend.Point {
	yearAt := -1
	for i, d := range res.Request.GroupBy {
		if d == DimYear {
			yearAt = i
			break
		}
	}
	if yearAt < 0 {
		return nil
	}

	var out []trend.Point
	for _, g := range res.Groups {
		if !g.Value.Valid {
			continue
		}
		rest := make([]string, 0, len(g.Key)-1)
		rest = append(rest, g.Key[:yearAt]...)
		rest = append(rest, g.Key[yearAt+1:]...)
		if !keyMatches(rest, match) {
			continue
		}
		year, err := strconv.Atoi(g.Key[yearAt])
		if err != nil {
			continue
		}
		v, _ := g.Value.Float64()
		out = append(out, trend.Point{Year: year, Value: v})
	}
	return trend.Sorted(out)
}

func keyMatches(key, match []string) bool {
	if len(match) > len(key) {
		return false
	}
	for i, m := range match {
		if key[i] != m {
			return false
		}
	}
	return true
}

// Distribution summarizes one measure across records.
type Distribution struct {
	Count  int             `json:"count"`
	Sum    decimal.Decimal `json:"sum"`
	Mean   currency.Amount `json:"mean"`
	Median currency.Amount `json:"median"`
	Min    currency.Amount `json:"min"`
	Max    currency.Amount `json:"max"`
	StdDev currency.Amount `json:"std_dev"`
}

// Describe computes count, mean, median, min, max and sample standard deviation of a measure.
// Missing values are skipped. Statistics that need more values than available are Missing.
func Describe(records []types.EarningsRecord, m Measure) Distribution {
	values := make([]decimal.Decimal, 0, len(records))
	for _, r := range records {
		if v := MeasureValue(r, m); v.Valid {
			values = append(values, v.Value)
		}
	}
	d := Distribution{
		Count:  len(values),
		Sum:    decimal.Zero,
		Mean:   currency.Missing,
		Median: currency.Missing,
		Min:    currency.Missing,
		Max:    currency.Missing,
		StdDev: currency.Missing,
	}
	if len(values) == 0 {
		return d
	}

	sorted := append([]decimal.Decimal(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })
	for _, v := range values {
		d.Sum = d.Sum.Add(v)
	}
	n := decimal.NewFromInt(int64(len(values)))
	mean := d.Sum.Div(n)
	d.Mean = currency.New(mean)
	d.Min = currency.New(sorted[0])
	d.Max = currency.New(sorted[len(sorted)-1])
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		d.Median = currency.New(sorted[mid])
	} else {
		d.Median = currency.New(sorted[mid-1].Add(sorted[mid]).Div(decimal.NewFromInt(2)))
	}

	if len(values) > 1 {
		fs := make([]float64, len(values))
		for i, v := range values {
			fs[i] = v.InexactFloat64()
		}
		_, sd := stat.MeanStdDev(fs, nil)
		d.StdDev = currency.New(decimal.NewFromFloat(sd))
	}
	return d
}
