// Package export writes canonical records and summaries as CSV, XLSX and JSON files.
package export

import (
	"strconv"

	"github.com/jonathan/payroll-analysis/internal/aggregate"
	"github.com/jonathan/payroll-analysis/internal/currency"
	"github.com/jonathan/payroll-analysis/internal/trend"
	"github.com/jonathan/payroll-analysis/internal/types"
)

// EarningsRow is the canonical clean-CSV layout of an earnings record.
type EarningsRow struct {
	Name               string `csv:"NAME"`
	Department         string `csv:"DEPARTMENT_NAME"`
	DepartmentCategory string `csv:"DEPARTMENT_CATEGORY"`
	Title              string `csv:"TITLE"`
	TitleCategory      string `csv:"TITLE_CATEGORY"`
	Regular            string `csv:"REGULAR"`
	Retro              string `csv:"RETRO"`
	Other              string `csv:"OTHER"`
	Overtime           string `csv:"OVERTIME"`
	Injured            string `csv:"INJURED"`
	Detail             string `csv:"DETAIL"`
	QuinnEducation     string `csv:"QUINN_EDUCATION"`
	TotalGross         string `csv:"TOTAL_GROSS"`
	Postal             string `csv:"POSTAL"`
	Year               int    `csv:"YEAR"`
}

// EarningsRows converts records to the canonical layout, keeping input order.
func EarningsRows(records []types.EarningsRecord) []EarningsRow {
	out := make([]EarningsRow, 0, len(records))
	for _, r := range records {
		out = append(out, EarningsRow{
			Name:               r.Name,
			Department:         r.Department,
			DepartmentCategory: r.DepartmentCategory,
			Title:              r.Title,
			TitleCategory:      r.TitleCategory,
			Regular:            r.Regular.String(),
			Retro:              r.Retro.String(),
			Other:              r.Other.String(),
			Overtime:           r.Overtime.String(),
			Injured:            r.Injured.String(),
			Detail:             r.Detail.String(),
			QuinnEducation:     r.QuinnEducation.String(),
			TotalGross:         r.TotalGross.String(),
			Postal:             r.Postal,
			Year:               r.Year,
		})
	}
	return out
}

// InjuryRow is one line of the injury/overtime participation summary.
type InjuryRow struct {
	Year           int    `csv:"Year"`
	TotalInjuryPay string `csv:"Total Injury Pay"`
	InjuryPercent  string `csv:"Injury %"`
	OvertimePct    string `csv:"Overtime %"`
}

// InjuryRows formats summary rows with two-decimal amounts and percentages.
func InjuryRows(rows []aggregate.InjuryOvertimeRow) []InjuryRow {
	out := make([]InjuryRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, InjuryRow{
			Year:           r.Year,
			TotalInjuryPay: r.TotalInjuryPay.StringFixed(2),
			InjuryPercent:  fixed(r.InjuryPercent, 2),
			OvertimePct:    fixed(r.OvertimePercent, 2),
		})
	}
	return out
}

// PredictionRow is one line of the rank/assignment overtime forecast.
type PredictionRow struct {
	Year       int    `csv:"Year"`
	Rank       string `csv:"Rank"`
	Assignment string `csv:"Assignment"`
	Hours      string `csv:"Predicted OT Hours"`
}

// PredictionRows formats forecast hours with two decimals.
func PredictionRows(preds []aggregate.Prediction) []PredictionRow {
	out := make([]PredictionRow, 0, len(preds))
	for _, p := range preds {
		out = append(out, PredictionRow{
			Year:       p.Year,
			Rank:       p.Rank,
			Assignment: p.Assignment,
			Hours:      strconv.FormatFloat(p.Hours, 'f', 2, 64),
		})
	}
	return out
}

// TopEarnerRow is one line of a top-earners listing.
type TopEarnerRow struct {
	Position   int    `csv:"Rank"`
	Name       string `csv:"Name"`
	Department string `csv:"Department"`
	Title      string `csv:"Title"`
	TotalGross string `csv:"Total Gross"`
	Overtime   string `csv:"Overtime"`
	Year       int    `csv:"Year"`
}

// TopEarnerRows numbers records from 1 in the given order.
func TopEarnerRows(records []types.EarningsRecord) []TopEarnerRow {
	out := make([]TopEarnerRow, 0, len(records))
	for i, r := range records {
		out = append(out, TopEarnerRow{
			Position:   i + 1,
			Name:       r.Name,
			Department: r.Department,
			Title:      r.Title,
			TotalGross: r.TotalGross.Value.StringFixed(2),
			Overtime:   r.Overtime.StringFixed(2),
			Year:       r.Year,
		})
	}
	return out
}

// DepartmentRow is one line of the department overtime ranking.
type DepartmentRow struct {
	Department string `csv:"Department"`
	MeanRatio  string `csv:"Mean Overtime %"`
	Years      int    `csv:"Years"`
}

// DepartmentRows formats the ranking with two-decimal percentages.
func DepartmentRows(ranking []aggregate.DepartmentRatio) []DepartmentRow {
	out := make([]DepartmentRow, 0, len(ranking))
	for _, d := range ranking {
		out = append(out, DepartmentRow{
			Department: d.Department,
			MeanRatio:  fixed(d.MeanRatio, 2),
			Years:      d.Years,
		})
	}
	return out
}

// LinkedRow is the flat layout of a linked earnings/roster record.
type LinkedRow struct {
	Name                 string `csv:"NAME"`
	Department           string `csv:"DEPARTMENT_NAME"`
	Year                 int    `csv:"YEAR"`
	TotalGross           string `csv:"TOTAL_GROSS"`
	Overtime             string `csv:"OVERTIME"`
	Outcome              string `csv:"OUTCOME"`
	Candidates           int    `csv:"CANDIDATES"`
	Sex                  string `csv:"SEX"`
	EthnicGroup          string `csv:"ETHNIC_GROUP"`
	JobTitle             string `csv:"JOB_TITLE"`
	JobTitleRank         string `csv:"JOB_TITLE_RANK"`
	AnnualRate           string `csv:"ANNUAL_RATE"`
	MonthsSinceEffective string `csv:"MONTHS_SINCE_EFFECTIVE"`
}

// LinkedRows flattens linked records. Roster columns are empty for unmatched records.
func LinkedRows(linked []types.LinkedRecord) []LinkedRow {
	out := make([]LinkedRow, 0, len(linked))
	for _, l := range linked {
		row := LinkedRow{
			Name:       l.Earnings.Name,
			Department: l.Earnings.Department,
			Year:       l.Earnings.Year,
			TotalGross: l.Earnings.TotalGross.String(),
			Overtime:   l.Earnings.Overtime.String(),
			Outcome:    string(l.Outcome),
			Candidates: l.Candidates,
		}
		if r := l.Roster; r != nil {
			row.Sex = string(r.Sex)
			row.EthnicGroup = string(r.EthnicGroup)
			row.JobTitle = r.JobTitle
			row.JobTitleRank = strconv.Itoa(r.JobTitleRank)
			row.AnnualRate = r.AnnualRate.String()
			if r.MonthsSinceEffective != nil {
				row.MonthsSinceEffective = strconv.Itoa(*r.MonthsSinceEffective)
			}
		}
		out = append(out, row)
	}
	return out
}

// YearValueRow is a (year, value) pair of a series or forecast.
type YearValueRow struct {
	Year  int    `csv:"Year"`
	Value string `csv:"Value"`
	Kind  string `csv:"Kind"`
}

// SeriesRows lists observed points followed by forecast points.
func SeriesRows(observed, forecast []trend.Point) []YearValueRow {
	out := make([]YearValueRow, 0, len(observed)+len(forecast))
	for _, p := range observed {
		out = append(out, YearValueRow{Year: p.Year, Value: strconv.FormatFloat(p.Value, 'f', 2, 64), Kind: "observed"})
	}
	for _, p := range forecast {
		out = append(out, YearValueRow{Year: p.Year, Value: strconv.FormatFloat(p.Value, 'f', 2, 64), Kind: "forecast"})
	}
	return out
}

func fixed(a currency.Amount, places int32) string {
	if !a.Valid {
		return ""
	}
	return a.Value.StringFixed(places)
}
