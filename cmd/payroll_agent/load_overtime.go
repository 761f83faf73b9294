package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/payroll-analysis/internal/aggregate"
	"github.com/jonathan/payroll-analysis/internal/export"
	"github.com/jonathan/payroll-analysis/internal/observability"
)

var loadOvertimeCmd = &cobra.Command{
	Use:   "load-overtime",
	Short: "Load yearly overtime logs",
	Long: `Loads one overtime log per year and prints entry counts, hours and per-year statistics.

With --hours, also prints how likely an overtime entry of that many hours is to come from each
loaded year.`,
	RunE: runLoadOvertime,
}

var (
	loadOvertimeYears   string
	loadOvertimeDir     string
	loadOvertimePattern string
	loadOvertimeHours   float64
	loadOvertimeOutput  string
)

func init() {
	loadOvertimeCmd.Flags().StringVarP(&loadOvertimeYears, "years", "y", "", "Years to load, e.g. 2014-2016 (defaults to the configured range)")
	loadOvertimeCmd.Flags().StringVarP(&loadOvertimeDir, "dir", "d", "", "Directory holding the overtime logs")
	loadOvertimeCmd.Flags().StringVar(&loadOvertimePattern, "pattern", "", "File name pattern with a {year} placeholder")
	loadOvertimeCmd.Flags().Float64Var(&loadOvertimeHours, "hours", 0, "Overtime hours to compute per-year likelihoods for")
	loadOvertimeCmd.Flags().StringVarP(&loadOvertimeOutput, "out", "o", "", "Path to write the load report JSON")

	rootCmd.AddCommand(loadOvertimeCmd)
}

func runLoadOvertime(cmd *cobra.Command, _ []string) error {
	years, err := resolveYears(loadOvertimeYears)
	if err != nil {
		return err
	}
	tables, err := loadTables()
	if err != nil {
		return err
	}
	datasets, report, err := loadOvertime(cmd.Context(), years, loadOvertimeDir, loadOvertimePattern, tables)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(out)
	for _, ds := range datasets {
		printer.PrintOvertime(ds)
	}

	stats := aggregate.OvertimeYearStats(datasets)
	for _, s := range stats {
		_, _ = fmt.Fprintf(out, "%d  entries %d  employees %d  mean %.2f  sd %.2f  per employee %.2f\n",
			s.Year, s.Entries, s.Employees, s.Mean, s.StdDev, s.MeanPerEmployee)
	}

	if loadOvertimeHours > 0 {
		probs := aggregate.YearLikelihood(stats, loadOvertimeHours)
		if len(probs) == 0 {
			_, _ = fmt.Fprintf(out, "No year has enough spread to score %.1f hours\n", loadOvertimeHours)
		}
		for _, p := range probs {
			_, _ = fmt.Fprintf(out, "P(%d | %.1f h) = %.3f\n", p.Year, loadOvertimeHours, p.Probability)
		}
	}

	if loadOvertimeOutput != "" {
		dir, name := splitOutput(loadOvertimeOutput)
		if _, err := export.NewWriter(dir, logger).WriteJSON(name, report); err != nil {
			return fmt.Errorf("failed to write load report: %w", err)
		}
	}

	_, _ = fmt.Fprintf(out, "Loaded %d of %d overtime logs\n", len(datasets), len(report.Years))
	return nil
}
