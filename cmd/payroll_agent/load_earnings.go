package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/payroll-analysis/internal/export"
	"github.com/jonathan/payroll-analysis/internal/observability"
	"github.com/jonathan/payroll-analysis/internal/pipeline"
	"github.com/jonathan/payroll-analysis/internal/schemas"
	reportschemas "github.com/jonathan/payroll-analysis/schemas"
)

var loadEarningsCmd = &cobra.Command{
	Use:   "load-earnings",
	Short: "Load and normalize yearly earnings reports",
	Long: `Loads one earnings CSV per year, maps its headers onto the canonical schema and normalizes
currency columns. Prints a per-year load report; a year that fails to load is reported and the
others still load.

Use --out to write the load report as JSON and --records-dir to write the normalized records of
each year as CSV.`,
	RunE: runLoadEarnings,
}

var (
	loadEarningsYears      string
	loadEarningsDataDir    string
	loadEarningsPattern    string
	loadEarningsOutput     string
	loadEarningsRecordsDir string
)

func init() {
	loadEarningsCmd.Flags().StringVarP(&loadEarningsYears, "years", "y", "", "Years to load, e.g. 2014-2016 or 2014,2016 (defaults to the configured range)")
	loadEarningsCmd.Flags().StringVarP(&loadEarningsDataDir, "data-dir", "d", "", "Directory holding the earnings files")
	loadEarningsCmd.Flags().StringVar(&loadEarningsPattern, "pattern", "", "File name pattern with a {year} placeholder")
	loadEarningsCmd.Flags().StringVarP(&loadEarningsOutput, "out", "o", "", "Path to write the load report JSON")
	loadEarningsCmd.Flags().StringVar(&loadEarningsRecordsDir, "records-dir", "", "Directory to write normalized earnings CSVs")

	rootCmd.AddCommand(loadEarningsCmd)
}

func runLoadEarnings(cmd *cobra.Command, _ []string) error {
	years, err := resolveYears(loadEarningsYears)
	if err != nil {
		return err
	}
	tables, err := loadTables()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	datasets, report, loadErr := loadEarnings(cmd.Context(), years, newEarningsSource(loadEarningsDataDir, loadEarningsPattern), tables)
	printer := observability.NewPrinter(out)
	printer.PrintLoadReport(report)
	if rootVerbose {
		for _, ds := range datasets {
			printer.PrintWarnings(fmt.Sprintf("WARNINGS %d", ds.Year), ds.Warnings)
		}
	}
	if loadErr != nil {
		return loadErr
	}

	if err := schemas.Validate(reportschemas.LoadReport, report); err != nil {
		return fmt.Errorf("load report failed validation: %w", err)
	}

	if loadEarningsOutput != "" {
		dir, name := splitOutput(loadEarningsOutput)
		if _, err := export.NewWriter(dir, logger).WriteJSON(name, report); err != nil {
			return fmt.Errorf("failed to write load report: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Load report written to %s\n", loadEarningsOutput)
	}

	if loadEarningsRecordsDir != "" {
		w := export.NewWriter(loadEarningsRecordsDir, logger)
		for _, ds := range datasets {
			if _, err := w.WriteCSV(pipeline.EarningsFile(ds.Year), export.EarningsRows(ds.Records)); err != nil {
				return fmt.Errorf("failed to write %d records: %w", ds.Year, err)
			}
		}
		_, _ = fmt.Fprintf(out, "Records written to %s\n", loadEarningsRecordsDir)
	}

	_, _ = fmt.Fprintf(out, "Loaded %d of %d years\n", len(datasets), len(report.Years))
	return nil
}
