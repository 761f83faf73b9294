package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/payroll-analysis/internal/export"
	"github.com/jonathan/payroll-analysis/internal/observability"
	"github.com/jonathan/payroll-analysis/internal/types"
)

var loadRosterCmd = &cobra.Command{
	Use:   "load-roster",
	Short: "Load the personnel roster",
	Long: `Loads the personnel roster CSV, normalizes names, pay rates and effective dates, ranks job
titles and computes tenure in months as of the reference date (today when unset).`,
	RunE: runLoadRoster,
}

var (
	loadRosterPath          string
	loadRosterReferenceDate string
	loadRosterOutput        string
)

func init() {
	loadRosterCmd.Flags().StringVarP(&loadRosterPath, "roster", "r", "", "Path to the roster CSV (defaults to data.roster_file)")
	loadRosterCmd.Flags().StringVar(&loadRosterReferenceDate, "reference-date", "", "Date tenure is measured to (YYYY-MM-DD)")
	loadRosterCmd.Flags().StringVarP(&loadRosterOutput, "out", "o", "", "Path to write the roster records as JSON")

	rootCmd.AddCommand(loadRosterCmd)
}

// rosterOutput is the JSON document written by load-roster.
type rosterOutput struct {
	Roster  *types.RosterDataset `json:"roster"`
	Records []types.RosterRecord `json:"records"`
}

func runLoadRoster(cmd *cobra.Command, _ []string) error {
	tables, err := loadTables()
	if err != nil {
		return err
	}
	ds, err := loadRoster(loadRosterPath, loadRosterReferenceDate, tables)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(out)
	printer.PrintRoster(ds)
	if rootVerbose {
		printer.PrintWarnings("ROSTER WARNINGS", ds.Warnings)
	}

	if loadRosterOutput != "" {
		dir, name := splitOutput(loadRosterOutput)
		if _, err := export.NewWriter(dir, logger).WriteJSON(name, rosterOutput{Roster: ds, Records: ds.Records}); err != nil {
			return fmt.Errorf("failed to write roster: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Roster written to %s\n", loadRosterOutput)
	}

	_, _ = fmt.Fprintf(out, "Loaded %d roster records\n", len(ds.Records))
	return nil
}
