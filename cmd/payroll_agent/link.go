package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/payroll-analysis/internal/export"
	"github.com/jonathan/payroll-analysis/internal/linkage"
	"github.com/jonathan/payroll-analysis/internal/observability"
	"github.com/jonathan/payroll-analysis/internal/pipeline"
	"github.com/jonathan/payroll-analysis/internal/schemas"
	reportschemas "github.com/jonathan/payroll-analysis/schemas"
)

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link earnings records to the personnel roster",
	Long: `Joins every loaded earnings record to the roster on the normalized (last, first) name.
Unmatched records are kept without roster data. Prints match counts and key collisions.`,
	RunE: runLink,
}

var (
	linkYears         string
	linkDataDir       string
	linkPattern       string
	linkRoster        string
	linkReferenceDate string
	linkOutput        string
	linkReportOutput  string
)

func init() {
	linkCmd.Flags().StringVarP(&linkYears, "years", "y", "", "Years to load, e.g. 2014-2016 (defaults to the configured range)")
	linkCmd.Flags().StringVarP(&linkDataDir, "data-dir", "d", "", "Directory holding the earnings files")
	linkCmd.Flags().StringVar(&linkPattern, "pattern", "", "File name pattern with a {year} placeholder")
	linkCmd.Flags().StringVarP(&linkRoster, "roster", "r", "", "Path to the roster CSV (defaults to data.roster_file)")
	linkCmd.Flags().StringVar(&linkReferenceDate, "reference-date", "", "Date tenure is measured to (YYYY-MM-DD)")
	linkCmd.Flags().StringVarP(&linkOutput, "out", "o", "", "Path to write the linked records CSV")
	linkCmd.Flags().StringVar(&linkReportOutput, "report", "", "Path to write the link report JSON")

	rootCmd.AddCommand(linkCmd)
}

func runLink(cmd *cobra.Command, _ []string) error {
	years, err := resolveYears(linkYears)
	if err != nil {
		return err
	}
	tables, err := loadTables()
	if err != nil {
		return err
	}
	datasets, _, err := loadEarnings(cmd.Context(), years, newEarningsSource(linkDataDir, linkPattern), tables)
	if err != nil {
		return err
	}
	roster, err := loadRoster(linkRoster, linkReferenceDate, tables)
	if err != nil {
		return err
	}

	linked, report := linkage.Link(pipeline.Records(datasets), roster.Records, linkage.WithLogger(logger))
	if err := schemas.Validate(reportschemas.LinkReport, report); err != nil {
		return fmt.Errorf("link report failed validation: %w", err)
	}

	out := cmd.OutOrStdout()
	observability.NewPrinter(out).PrintLinkReport(report)

	if linkOutput != "" {
		dir, name := splitOutput(linkOutput)
		if _, err := export.NewWriter(dir, logger).WriteCSV(name, export.LinkedRows(linked)); err != nil {
			return fmt.Errorf("failed to write linked records: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Linked records written to %s\n", linkOutput)
	}
	if linkReportOutput != "" {
		dir, name := splitOutput(linkReportOutput)
		if _, err := export.NewWriter(dir, logger).WriteJSON(name, report); err != nil {
			return fmt.Errorf("failed to write link report: %w", err)
		}
	}

	_, _ = fmt.Fprintf(out, "Matched %d of %d records (%.1f%%)\n", report.Matched, report.Total, report.MatchRate())
	return nil
}
