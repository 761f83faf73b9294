package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/payroll-analysis/internal/aggregate"
	"github.com/jonathan/payroll-analysis/internal/export"
	"github.com/jonathan/payroll-analysis/internal/observability"
	"github.com/jonathan/payroll-analysis/internal/pipeline"
)

var topEarnersCmd = &cobra.Command{
	Use:   "top-earners",
	Short: "List the highest total gross earners",
	Long: `Lists the records with the highest total gross across the loaded years. Records with a
missing total are left out. With --dedupe, only the first record per (name, department, year)
is considered.`,
	RunE: runTopEarners,
}

var (
	topEarnersYears      string
	topEarnersDataDir    string
	topEarnersPattern    string
	topEarnersN          int
	topEarnersCategory   string
	topEarnersDedupe     bool
	topEarnersComponents bool
	topEarnersOutput     string
)

func init() {
	topEarnersCmd.Flags().StringVarP(&topEarnersYears, "years", "y", "", "Years to load, e.g. 2014-2016 (defaults to the configured range)")
	topEarnersCmd.Flags().StringVarP(&topEarnersDataDir, "data-dir", "d", "", "Directory holding the earnings files")
	topEarnersCmd.Flags().StringVar(&topEarnersPattern, "pattern", "", "File name pattern with a {year} placeholder")
	topEarnersCmd.Flags().IntVarP(&topEarnersN, "n", "n", 0, "Number of earners to list (defaults to output.top_n)")
	topEarnersCmd.Flags().StringVar(&topEarnersCategory, "category", "", "Only consider this department category")
	topEarnersCmd.Flags().BoolVar(&topEarnersDedupe, "dedupe", false, "Keep one record per name, department and year")
	topEarnersCmd.Flags().BoolVar(&topEarnersComponents, "components", false, "Print each earner's pay component breakdown")
	topEarnersCmd.Flags().StringVarP(&topEarnersOutput, "out", "o", "", "Path to write the listing CSV")

	rootCmd.AddCommand(topEarnersCmd)
}

func runTopEarners(cmd *cobra.Command, _ []string) error {
	years, err := resolveYears(topEarnersYears)
	if err != nil {
		return err
	}
	tables, err := loadTables()
	if err != nil {
		return err
	}
	datasets, _, err := loadEarnings(cmd.Context(), years, newEarningsSource(topEarnersDataDir, topEarnersPattern), tables)
	if err != nil {
		return err
	}

	records := pipeline.Records(datasets)
	if topEarnersCategory != "" {
		records = aggregate.Select(records, aggregate.DepartmentCategoryIs(topEarnersCategory))
	}
	if topEarnersDedupe {
		deduped := aggregate.DedupeByPerson(records)
		logger.Info("removed duplicate records", "removed", deduped.Removed)
		records = deduped.Records
	}
	top := aggregate.TopEarners(records, firstPositive(topEarnersN, cfg.Output.TopN))

	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(out)
	printer.PrintTopEarners(top)
	if topEarnersComponents {
		for _, r := range top {
			b := aggregate.ComponentBreakdown(r)
			_, _ = fmt.Fprintf(out, "%s (%d) %s\n", r.Name, r.Year, b.TotalGross.Format())
			for _, c := range b.Components {
				share := "n/a"
				if c.Share.Valid {
					share = c.Share.Value.StringFixed(1) + "%"
				}
				_, _ = fmt.Fprintf(out, "  %-16s %14s  %s\n", c.Component, c.Amount.StringFixed(2), share)
			}
		}
	}
	if rootVerbose {
		printer.PrintDistribution("TOTAL GROSS", aggregate.Describe(records, aggregate.MeasureTotalGross))
	}

	if topEarnersOutput != "" {
		dir, name := splitOutput(topEarnersOutput)
		if _, err := export.NewWriter(dir, logger).WriteCSV(name, export.TopEarnerRows(top)); err != nil {
			return fmt.Errorf("failed to write top earners: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Top earners written to %s\n", topEarnersOutput)
	}
	return nil
}
