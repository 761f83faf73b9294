package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/payroll-analysis/internal/aggregate"
	"github.com/jonathan/payroll-analysis/internal/config"
	"github.com/jonathan/payroll-analysis/internal/pipeline"
	"github.com/jonathan/payroll-analysis/internal/storage"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full payroll pipeline end-to-end",
	Long: `Orchestrates the whole batch: load earnings -> load roster -> load overtime -> classify -> link ->
aggregate -> summaries -> forecast -> export -> publish.

Roster, overtime and publish steps are optional: they are left out when their inputs are not
configured and a failure there only marks the run partial. A year that fails to load is
reported and the run continues with the other years.

Configuration can be loaded from a YAML file using --config. Command-line flags override config
file and environment values.`,
	RunE: runPipelineCmd,
}

var (
	runYears           string
	runDataDir         string
	runPattern         string
	runRoster          string
	runNoRoster        bool
	runOvertimeDir     string
	runNoOvertime      bool
	runReferenceDate   string
	runOutputDir       string
	runWorkbook        string
	runTopN            int
	runForecastYears   int
	runDatabaseURL     string
	runSkipPublication bool
)

func init() {
	runCommand.Flags().StringVarP(&runYears, "years", "y", "", "Years to process, e.g. 2011-2016 (defaults to the configured range)")
	runCommand.Flags().StringVarP(&runDataDir, "data-dir", "d", "", "Directory holding the earnings files")
	runCommand.Flags().StringVar(&runPattern, "pattern", "", "Earnings file name pattern with a {year} placeholder")
	runCommand.Flags().StringVarP(&runRoster, "roster", "r", "", "Path to the roster CSV (defaults to data.roster_file)")
	runCommand.Flags().BoolVar(&runNoRoster, "no-roster", false, "Skip roster loading and linkage")
	runCommand.Flags().StringVar(&runOvertimeDir, "overtime-dir", "", "Directory holding the overtime logs (defaults to data.overtime_dir)")
	runCommand.Flags().BoolVar(&runNoOvertime, "no-overtime", false, "Skip overtime logs")
	runCommand.Flags().StringVar(&runReferenceDate, "reference-date", "", "Date roster tenure is measured to (YYYY-MM-DD)")
	runCommand.Flags().StringVarP(&runOutputDir, "output-dir", "o", "", "Directory to write outputs to (defaults to output.dir)")
	runCommand.Flags().StringVar(&runWorkbook, "workbook", "", "Workbook file name inside the output directory (defaults to output.workbook)")
	runCommand.Flags().IntVar(&runTopN, "top-n", 0, "Number of top earners to list (defaults to output.top_n)")
	runCommand.Flags().IntVar(&runForecastYears, "forecast-years", 1, "Number of years to project total gross")

	// Database URL for run and artifact persistence
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	runCommand.Flags().BoolVar(&runSkipPublication, "no-publish", false, "Do not upload outputs even when storage is configured")

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	opts, err := runOptions()
	if err != nil {
		return err
	}
	opts.Out = cmd.OutOrStdout()

	result, err := pipeline.RunPipeline(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}
	logger.Info("run finished", "run_id", result.RunID, "status", result.Status, "files", len(result.Files))
	return nil
}

// runOptions merges flags over the loaded configuration.
func runOptions() (pipeline.RunOptions, error) {
	years, err := resolveYears(runYears)
	if err != nil {
		return pipeline.RunOptions{}, err
	}
	refDate, err := referenceDate(runReferenceDate)
	if err != nil {
		return pipeline.RunOptions{}, err
	}

	dataDir := firstNonEmpty(runDataDir, cfg.Data.Dir)
	opts := pipeline.RunOptions{
		Years:           years,
		DataDir:         dataDir,
		EarningsPattern: firstNonEmpty(runPattern, cfg.Data.EarningsPattern),
		RosterPath:      firstNonEmpty(runRoster, cfg.Data.RosterFile),
		OvertimeDir:     firstNonEmpty(runOvertimeDir, cfg.Data.OvertimeDir),
		OvertimePattern: cfg.Data.OvertimePattern,
		ReferenceDate:   refDate,
		AliasFile:       cfg.Overrides.AliasFile,
		KeywordFile:     cfg.Overrides.KeywordFile,
		OutputDir:       firstNonEmpty(runOutputDir, cfg.Output.Dir),
		Workbook:        firstNonEmpty(runWorkbook, cfg.Output.Workbook),
		TopN:            firstPositive(runTopN, cfg.Output.TopN),
		ForecastYears:   runForecastYears,
		Workers:         cfg.Workers,
		Policy:          aggregate.Policy(cfg.MissingPolicy),
		DatabaseURL:     firstNonEmpty(runDatabaseURL, cfg.DatabaseURL),
		Storage:         cfg.Storage,
		Verbose:         rootVerbose,
		Logger:          logger,
	}

	defaults := config.Defaults()
	// A roster or overtime path taken from defaults is relative to the data directory the
	// user chose on the command line.
	if runDataDir != "" && runRoster == "" && cfg.Data.RosterFile == defaults.Data.RosterFile {
		opts.RosterPath = filepath.Join(dataDir, "roster.csv")
	}
	if runDataDir != "" && runOvertimeDir == "" && cfg.Data.OvertimeDir == defaults.Data.OvertimeDir {
		opts.OvertimeDir = filepath.Join(dataDir, "overtime")
	}

	if runNoRoster {
		opts.RosterPath = ""
	}
	if runNoOvertime {
		opts.OvertimeDir = ""
	}
	if runSkipPublication {
		opts.Storage = storage.Config{}
	}
	return opts, nil
}
