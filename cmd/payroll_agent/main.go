// Package main provides the entry point for the payroll_agent CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "payroll_agent",
	Short: "Normalize, link and summarize yearly payroll exports",
	Long: `payroll_agent loads yearly employee earnings CSV exports, maps their drifting headers onto one
schema, classifies departments and titles, links earnings to the personnel roster and produces
aggregates, summaries and forecasts.

Settings come from an optional YAML file (--config) and PAYROLL_* environment variables.
Command-line flags override both.`,
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
