package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/payroll-analysis/internal/aggregate"
	"github.com/jonathan/payroll-analysis/internal/export"
	"github.com/jonathan/payroll-analysis/internal/observability"
)

var summarizeInjuryCmd = &cobra.Command{
	Use:   "summarize-injury",
	Short: "Summarize injury pay and overtime participation per year",
	Long: `For each loaded year, totals injury pay and computes the share of selected employees with
injury pay and with overtime. Employees are selected by exact department name (Boston Police
Department by default) or, with --category, by department category.`,
	RunE: runSummarizeInjury,
}

var (
	summarizeInjuryYears      string
	summarizeInjuryDataDir    string
	summarizeInjuryPattern    string
	summarizeInjuryCategory   string
	summarizeInjuryDepartment string
	summarizeInjuryOutput     string
)

func init() {
	summarizeInjuryCmd.Flags().StringVarP(&summarizeInjuryYears, "years", "y", "", "Years to load, e.g. 2014-2016 (defaults to the configured range)")
	summarizeInjuryCmd.Flags().StringVarP(&summarizeInjuryDataDir, "data-dir", "d", "", "Directory holding the earnings files")
	summarizeInjuryCmd.Flags().StringVar(&summarizeInjuryPattern, "pattern", "", "File name pattern with a {year} placeholder")
	summarizeInjuryCmd.Flags().StringVar(&summarizeInjuryCategory, "category", "", "Department category to select, e.g. Police (overrides --department)")
	summarizeInjuryCmd.Flags().StringVar(&summarizeInjuryDepartment, "department", aggregate.InjuryDepartment, "Exact department name to select")
	summarizeInjuryCmd.Flags().StringVarP(&summarizeInjuryOutput, "out", "o", "", "Path to write the summary CSV")

	rootCmd.AddCommand(summarizeInjuryCmd)
}

func runSummarizeInjury(cmd *cobra.Command, _ []string) error {
	years, err := resolveYears(summarizeInjuryYears)
	if err != nil {
		return err
	}
	tables, err := loadTables()
	if err != nil {
		return err
	}
	datasets, _, err := loadEarnings(cmd.Context(), years, newEarningsSource(summarizeInjuryDataDir, summarizeInjuryPattern), tables)
	if err != nil {
		return err
	}

	filter := aggregate.DepartmentIs(summarizeInjuryDepartment)
	if summarizeInjuryCategory != "" {
		filter = aggregate.DepartmentCategoryIs(summarizeInjuryCategory)
	}
	rows := aggregate.InjuryOvertimeSummary(datasets, filter)

	out := cmd.OutOrStdout()
	observability.NewPrinter(out).PrintInjurySummary(rows)

	if summarizeInjuryOutput != "" {
		dir, name := splitOutput(summarizeInjuryOutput)
		if _, err := export.NewWriter(dir, logger).WriteCSV(name, export.InjuryRows(rows)); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Summary written to %s\n", summarizeInjuryOutput)
	}
	return nil
}
