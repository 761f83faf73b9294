package observability

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/payroll-analysis/internal/aggregate"
	"github.com/jonathan/payroll-analysis/internal/currency"
	"github.com/jonathan/payroll-analysis/internal/linkage"
	"github.com/jonathan/payroll-analysis/internal/trend"
	"github.com/jonathan/payroll-analysis/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPrintLoadReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	report := &types.LoadReport{}
	report.Add(types.YearLoadReport{
		Year:       2014,
		RowsRead:   10,
		Loaded:     8,
		Dropped:    2,
		Duplicates: 1,
		Drops:      map[string]int{"missing_total": 1, "negative_total": 1},
	})
	report.Add(types.YearLoadReport{Year: 2015, Error: "source unavailable"})

	p.PrintLoadReport(report)
	output := buf.String()

	assert.Contains(t, output, "EARNINGS LOAD REPORT")
	assert.Contains(t, output, "2014  read 10  loaded 8  dropped 2  dup 1")
	assert.Contains(t, output, "missing_total: 1")
	assert.Contains(t, output, "2015  FAILED: source unavailable")
	assert.Contains(t, output, "1 of 2 years failed")
	assert.Less(t, strings.Index(output, "missing_total"), strings.Index(output, "negative_total"))
}

func TestPrintLoadReport_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintLoadReport(nil)
	p.PrintLoadReport(&types.LoadReport{})

	assert.Empty(t, buf.String())
}

func TestPrintWarnings_Truncates(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	var warnings []types.RowWarning
	for i := 1; i <= 8; i++ {
		warnings = append(warnings, types.RowWarning{Row: i, Message: "duplicate record"})
	}
	p.PrintWarnings("WARNINGS 2014", warnings)
	output := buf.String()

	assert.Contains(t, output, "row 5: duplicate record")
	assert.NotContains(t, output, "row 6:")
	assert.Contains(t, output, "... and 3 more warnings")
}

func TestPrintRoster(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRoster(&types.RosterDataset{
		Source:        "roster.csv",
		Encoding:      "utf-8",
		ReferenceDate: time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC),
		Records:       make([]types.RosterRecord, 3),
		RowsRead:      4,
		Drops:         types.DropCounts{types.DropMissingName: 1},
	})
	output := buf.String()

	assert.Contains(t, output, "ROSTER")
	assert.Contains(t, output, "2016-01-01")
	assert.Contains(t, output, "4 read, 3 loaded, 1 dropped")
	assert.Contains(t, output, "missing_name: 1")
}

func TestPrintOvertime(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintOvertime(&types.OvertimeDataset{
		Year:    2015,
		Source:  "2015.csv",
		Entries: []types.OvertimeEntry{{Hours: 4}, {Hours: 2.5}},
	})
	output := buf.String()

	assert.Contains(t, output, "OVERTIME LOG 2015")
	assert.Contains(t, output, "Entries:  2 (0 dropped)")
	assert.Contains(t, output, "Hours:    6.5")
}

func TestPrintLinkReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintLinkReport(&linkage.Report{
		Total:       4,
		Matched:     3,
		Unmatched:   1,
		Unparseable: 0,
		Collisions: []linkage.Collision{
			{Key: types.NameKey{Last: "SMITH", First: "JOHN"}, Candidates: 2, Lookups: 1},
		},
		Index: linkage.IndexStats{TotalRecords: 5, UniqueKeys: 4, CollidingKeys: 1},
	})
	output := buf.String()

	assert.Contains(t, output, "ROSTER LINKAGE")
	assert.Contains(t, output, "Matched:           3 (75.0%)")
	assert.Contains(t, output, "SMITH, JOHN  2 candidates, 1 lookups")
	assert.Contains(t, output, "4 unique, 1 colliding")
}

func TestPrintTopEarners(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintTopEarners([]types.EarningsRecord{
		{Name: "Doe,Jane", Department: "Boston Police Department", TotalGross: currency.Normalize("$250,000.00"), Overtime: decimal.NewFromInt(90000)},
	})
	output := buf.String()

	assert.Contains(t, output, "TOP EARNERS")
	assert.Contains(t, output, "Doe,Jane")
	assert.Contains(t, output, "$250,000.00")
	assert.Contains(t, output, "OT $90,000.00")
}

func TestPrintAggregate(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	res := &aggregate.Result{
		Request: aggregate.Request{Op: aggregate.OpSum, Measure: aggregate.MeasureTotalGross},
	}
	for i := 0; i < 7; i++ {
		res.Groups = append(res.Groups, aggregate.Group{
			Key:     []string{fmt.Sprint(2010 + i)},
			Value:   currency.Normalize("100"),
			Records: 2,
			Used:    1,
		})
	}

	p.PrintAggregate(res)
	output := buf.String()

	assert.Contains(t, output, "AGGREGATE")
	assert.Contains(t, output, "2010")
	assert.Contains(t, output, "100 (1/2)")
	assert.NotContains(t, output, "2015")
	assert.Contains(t, output, "... and 2 more groups")
}

func TestPrintAggregate_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAggregate(&aggregate.Result{})

	assert.Contains(t, buf.String(), "(no records)")
}

func TestPrintInjurySummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintInjurySummary([]aggregate.InjuryOvertimeRow{
		{Year: 2014, TotalInjuryPay: decimal.NewFromInt(1500), InjuryPercent: currency.Normalize("25"), OvertimePercent: currency.Normalize("50")},
		{Year: 2015, TotalInjuryPay: decimal.Zero},
	})
	output := buf.String()

	assert.Contains(t, output, "INJURY AND OVERTIME")
	assert.Contains(t, output, "$1,500.00")
	assert.Contains(t, output, "25.00%")
	assert.Contains(t, output, "n/a")
}

func TestPrintPredictions(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintPredictions([]aggregate.Prediction{
		{Year: 2017, Rank: "Ptl", Assignment: "District 4", Hours: 130, Method: aggregate.MethodEstimator},
		{Year: 2017, Rank: "Det", Assignment: "Homicide", Hours: 40, Method: aggregate.MethodLastValue},
	})
	output := buf.String()

	assert.Contains(t, output, "Predicted overtime hours for 2017")
	assert.Contains(t, output, "Ptl / District 4")
	assert.Contains(t, output, "130.0")
	assert.Contains(t, output, "40.0 *")
}

func TestPrintForecast(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintForecast("TOTAL GROSS",
		[]trend.Point{{Year: 2015, Value: 10}},
		[]trend.Point{{Year: 2016, Value: 12.5}},
	)
	output := buf.String()

	assert.Contains(t, output, "TOTAL GROSS")
	assert.Contains(t, output, "12.50  (forecast)")
}

func TestPrintDistribution(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDistribution("TOTAL GROSS", aggregate.Distribution{Count: 1, Mean: currency.Normalize("10")})
	output := buf.String()

	assert.Contains(t, output, "Count:   1")
	assert.Contains(t, output, "Mean:    $10.00")
	assert.Contains(t, output, "Std dev: n/a")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("x", 100))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 5)
	assert.Contains(t, lines[3], "...")
	for _, line := range lines {
		assert.Equal(t, boxWidth, len([]rune(line)))
	}
}
