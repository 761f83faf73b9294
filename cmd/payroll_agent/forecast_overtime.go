package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/payroll-analysis/internal/aggregate"
	"github.com/jonathan/payroll-analysis/internal/export"
	"github.com/jonathan/payroll-analysis/internal/observability"
	"github.com/jonathan/payroll-analysis/internal/trend"
)

var forecastOvertimeCmd = &cobra.Command{
	Use:   "forecast-overtime",
	Short: "Forecast overtime hours per rank and assignment",
	Long: `Loads the overtime logs, sums hours per (year, rank, assignment) and fits a linear trend to
each combination present in the latest year. Combinations with a single year of history carry
their latest value forward (marked with *). Also projects total overtime hours.`,
	RunE: runForecastOvertime,
}

var (
	forecastOvertimeYears       string
	forecastOvertimeDir         string
	forecastOvertimePattern     string
	forecastOvertimeTarget      int
	forecastOvertimeAhead       int
	forecastOvertimeOutput      string
	forecastOvertimeTotalsOutput string
)

func init() {
	forecastOvertimeCmd.Flags().StringVarP(&forecastOvertimeYears, "years", "y", "", "Years to load, e.g. 2014-2016 (defaults to the configured range)")
	forecastOvertimeCmd.Flags().StringVarP(&forecastOvertimeDir, "dir", "d", "", "Directory holding the overtime logs")
	forecastOvertimeCmd.Flags().StringVar(&forecastOvertimePattern, "pattern", "", "File name pattern with a {year} placeholder")
	forecastOvertimeCmd.Flags().IntVar(&forecastOvertimeTarget, "target", 0, "Year to predict (defaults to the year after the latest loaded)")
	forecastOvertimeCmd.Flags().IntVar(&forecastOvertimeAhead, "ahead", 1, "Number of years to project total hours")
	forecastOvertimeCmd.Flags().StringVarP(&forecastOvertimeOutput, "out", "o", "", "Path to write the predictions CSV")
	forecastOvertimeCmd.Flags().StringVar(&forecastOvertimeTotalsOutput, "totals-out", "", "Path to write observed and projected totals CSV")

	rootCmd.AddCommand(forecastOvertimeCmd)
}

func runForecastOvertime(cmd *cobra.Command, _ []string) error {
	years, err := resolveYears(forecastOvertimeYears)
	if err != nil {
		return err
	}
	tables, err := loadTables()
	if err != nil {
		return err
	}
	datasets, _, err := loadOvertime(cmd.Context(), years, forecastOvertimeDir, forecastOvertimePattern, tables)
	if err != nil {
		return err
	}

	est := trend.Linear{}
	totals := aggregate.OvertimeTotalsByYear(datasets)
	projected, err := est.Forecast(totals, trend.NextYears(totals, max(forecastOvertimeAhead, 1)))
	if err != nil && !errors.Is(err, trend.ErrInsufficientData) {
		return fmt.Errorf("failed to project total hours: %w", err)
	}

	rows := aggregate.RankAssignmentHours(datasets)
	target := forecastOvertimeTarget
	if target == 0 {
		for _, r := range rows {
			target = max(target, r.Year+1)
		}
	}
	preds, err := aggregate.PredictRankAssignment(rows, est, target)
	if err != nil {
		return fmt.Errorf("failed to predict overtime: %w", err)
	}

	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(out)
	printer.PrintForecast("OVERTIME HOURS", totals, projected)
	printer.PrintPredictions(preds)

	if forecastOvertimeOutput != "" {
		dir, name := splitOutput(forecastOvertimeOutput)
		if _, err := export.NewWriter(dir, logger).WriteCSV(name, export.PredictionRows(preds)); err != nil {
			return fmt.Errorf("failed to write predictions: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Predictions written to %s\n", forecastOvertimeOutput)
	}
	if forecastOvertimeTotalsOutput != "" {
		dir, name := splitOutput(forecastOvertimeTotalsOutput)
		if _, err := export.NewWriter(dir, logger).WriteCSV(name, export.SeriesRows(totals, projected)); err != nil {
			return fmt.Errorf("failed to write totals: %w", err)
		}
	}

	_, _ = fmt.Fprintf(out, "Predicted %d rank/assignment combinations for %d\n", len(preds), target)
	return nil
}
