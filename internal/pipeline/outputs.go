package pipeline

import (
	"fmt"

	"github.com/jonathan/payroll-analysis/internal/aggregate"
	"github.com/jonathan/payroll-analysis/internal/export"
	"github.com/jonathan/payroll-analysis/internal/types"
)

// Output file names, relative to the output directory.
const (
	FileLoadReport         = "load_report.json"
	FileOvertimeLoadReport = "overtime_load_report.json"
	FileLinkReport         = "link_report.json"
	FileSummary            = "summary.json"
	FileTotalByYear        = "total_gross_by_year.csv"
	FileTotalByDepartment  = "total_gross_by_department.csv"
	FileOvertimeShare      = "overtime_share_by_department.csv"
	FileInjury             = "injury_overtime.csv"
	FileTopEarners         = "top_earners.csv"
	FileDepartmentOvertime = "department_overtime.csv"
	FileForecast           = "total_gross_forecast.csv"
	FilePredictions        = "overtime_predictions.csv"
	FileLinked             = "linked_earnings.csv"
)

// EarningsFile is the clean canonical CSV of one year.
func EarningsFile(year int) string {
	return fmt.Sprintf("earnings/earnings-%d.csv", year)
}

// summaryTable is one summary written both as CSV and as a workbook sheet.
type summaryTable struct {
	file  string
	sheet string
	rows  any
}

type exportInputs struct {
	datasets      []*types.YearlyDataset
	result        *RunResult
	byDepartment  *aggregate.Result
	overtimeShare *aggregate.Result
	linked        []types.LinkedRecord
}

// writeOutputs writes every file of a run. Nothing optional is written for steps that did not run.
func writeOutputs(w *export.Writer, workbook string, in exportInputs) error {
	res := in.result

	for _, ds := range in.datasets {
		if _, err := w.WriteCSV(EarningsFile(ds.Year), export.EarningsRows(ds.Records)); err != nil {
			return err
		}
	}

	if _, err := w.WriteJSON(FileLoadReport, res.Earnings); err != nil {
		return err
	}
	if res.Overtime != nil {
		if _, err := w.WriteJSON(FileOvertimeLoadReport, res.Overtime); err != nil {
			return err
		}
	}
	if res.Link != nil {
		if _, err := w.WriteJSON(FileLinkReport, res.Link); err != nil {
			return err
		}
		if _, err := w.WriteCSV(FileLinked, export.LinkedRows(in.linked)); err != nil {
			return err
		}
	}

	aggregates := []struct {
		name string
		res  *aggregate.Result
	}{
		{FileTotalByYear, res.ByYear},
		{FileTotalByDepartment, in.byDepartment},
		{FileOvertimeShare, in.overtimeShare},
	}
	for _, a := range aggregates {
		if _, err := w.WriteAggregate(a.name, a.res); err != nil {
			return err
		}
	}

	s := res.Summaries
	tables := []summaryTable{
		{FileInjury, "Injury and Overtime", export.InjuryRows(s.Injury)},
		{FileTopEarners, "Top Earners", export.TopEarnerRows(s.TopEarners)},
		{FileDepartmentOvertime, "Department Overtime", export.DepartmentRows(s.Departments)},
	}
	if f := res.Forecast; f != nil {
		tables = append(tables, summaryTable{FileForecast, "Total Gross Forecast", export.SeriesRows(f.Observed, f.Projected)})
		if len(f.Predictions) > 0 {
			tables = append(tables, summaryTable{FilePredictions, "Overtime Predictions", export.PredictionRows(f.Predictions)})
		}
	}

	var sheets []export.Sheet
	for _, t := range tables {
		if _, err := w.WriteCSV(t.file, t.rows); err != nil {
			return err
		}
		sheet, err := export.SheetFrom(t.sheet, t.rows)
		if err != nil {
			return &export.ExportError{Path: t.file, Message: "failed to build sheet", Cause: err}
		}
		sheets = append(sheets, sheet)
	}

	if _, err := w.WriteJSON(FileSummary, struct {
		Summaries *Summaries `json:"summaries"`
		Forecast  *Forecast  `json:"forecast,omitempty"`
	}{s, res.Forecast}); err != nil {
		return err
	}

	if workbook != "" {
		if _, err := w.WriteWorkbook(workbook, sheets); err != nil {
			return err
		}
	}
	return nil
}
