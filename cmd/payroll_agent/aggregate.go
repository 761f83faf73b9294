package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/payroll-analysis/internal/aggregate"
	"github.com/jonathan/payroll-analysis/internal/export"
	"github.com/jonathan/payroll-analysis/internal/observability"
	"github.com/jonathan/payroll-analysis/internal/pipeline"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Group earnings records and compute a measure",
	Long: `Groups the loaded earnings records by one or more dimensions and computes sum, mean, count,
percentage_of_total or mean_ratio of a measure. Writes CSV to --out, or to stdout.

Dimensions: year, department, department_category, title, title_category, name, postal.
Measures: total_gross, regular, overtime, detail, other, injured, retro, quinn_education.`,
	Example: `  payroll_agent aggregate --years 2014-2016 --group-by year,department_category --measure total_gross --op sum
  payroll_agent aggregate --group-by department --measure overtime --denominator total_gross --op percentage_of_total`,
	RunE: runAggregate,
}

var (
	aggregateYears       string
	aggregateDataDir     string
	aggregatePattern     string
	aggregateGroupBy     string
	aggregateMeasure     string
	aggregateDenominator string
	aggregateOp          string
	aggregatePolicy      string
	aggregateOutput      string
)

func init() {
	aggregateCmd.Flags().StringVarP(&aggregateYears, "years", "y", "", "Years to load, e.g. 2014-2016 (defaults to the configured range)")
	aggregateCmd.Flags().StringVarP(&aggregateDataDir, "data-dir", "d", "", "Directory holding the earnings files")
	aggregateCmd.Flags().StringVar(&aggregatePattern, "pattern", "", "File name pattern with a {year} placeholder")
	aggregateCmd.Flags().StringVarP(&aggregateGroupBy, "group-by", "g", "year", "Comma-separated dimensions to group by (empty for one overall group)")
	aggregateCmd.Flags().StringVarP(&aggregateMeasure, "measure", "m", string(aggregate.MeasureTotalGross), "Measure to aggregate")
	aggregateCmd.Flags().StringVar(&aggregateDenominator, "denominator", "", "Denominator measure for percentage_of_total and mean_ratio")
	aggregateCmd.Flags().StringVar(&aggregateOp, "op", string(aggregate.OpSum), "Operation: sum, mean, count, percentage_of_total or mean_ratio")
	aggregateCmd.Flags().StringVar(&aggregatePolicy, "policy", "", "Missing value policy: skip_missing or missing_as_zero (defaults to config)")
	aggregateCmd.Flags().StringVarP(&aggregateOutput, "out", "o", "", "Path to write the CSV (defaults to stdout)")

	rootCmd.AddCommand(aggregateCmd)
}

func runAggregate(cmd *cobra.Command, _ []string) error {
	groupBy, err := aggregate.ParseDimensions(aggregateGroupBy)
	if err != nil {
		return err
	}
	req := aggregate.Request{
		GroupBy:     groupBy,
		Measure:     aggregate.Measure(aggregateMeasure),
		Denominator: aggregate.Measure(aggregateDenominator),
		Op:          aggregate.Op(aggregateOp),
		Policy:      aggregate.Policy(firstNonEmpty(aggregatePolicy, cfg.MissingPolicy)),
	}
	if req.Op == aggregate.OpCount && !cmd.Flags().Changed("measure") {
		req.Measure = ""
	}
	if err := req.Validate(); err != nil {
		return err
	}

	years, err := resolveYears(aggregateYears)
	if err != nil {
		return err
	}
	tables, err := loadTables()
	if err != nil {
		return err
	}
	datasets, _, err := loadEarnings(cmd.Context(), years, newEarningsSource(aggregateDataDir, aggregatePattern), tables)
	if err != nil {
		return err
	}

	res, err := aggregate.Aggregate(pipeline.Records(datasets), req)
	if err != nil {
		return err
	}

	if aggregateOutput == "" {
		if rootVerbose {
			observability.NewPrinter(cmd.ErrOrStderr()).PrintAggregate(res)
		}
		return export.WriteAggregateCSV(cmd.OutOrStdout(), res)
	}

	if err := os.MkdirAll(filepath.Dir(aggregateOutput), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(aggregateOutput)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", aggregateOutput, err)
	}
	defer func() { _ = f.Close() }()
	if err := export.WriteAggregateCSV(f, res); err != nil {
		return fmt.Errorf("failed to write %s: %w", aggregateOutput, err)
	}

	out := cmd.OutOrStdout()
	if rootVerbose {
		observability.NewPrinter(out).PrintAggregate(res)
	}
	_, _ = fmt.Fprintf(out, "Wrote %d groups to %s\n", len(res.Groups), aggregateOutput)
	return nil
}
