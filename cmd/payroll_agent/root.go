package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jonathan/payroll-analysis/internal/config"
	"github.com/jonathan/payroll-analysis/internal/observability"
)

var (
	rootConfigPath string
	rootLogLevel   string
	rootLogFormat  string
	rootVerbose    bool

	// cfg and logger are set before any subcommand runs.
	cfg    *config.Config
	logger *slog.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&rootLogFormat, "log-format", "", "Log format: text or json (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Print detailed progress information")

	rootCmd.PersistentPreRunE = setup
}

// setup loads the configuration and installs the default logger.
func setup(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load(rootConfigPath)
	if err != nil {
		return err
	}
	cfg = loaded

	level := firstNonEmpty(rootLogLevel, cfg.Logging.Level)
	format := firstNonEmpty(rootLogFormat, cfg.Logging.Format)
	logger = observability.InitLogger(level, format)
	logger.Debug("configuration loaded", "config", rootConfigPath, "years", cfg.YearList())
	return nil
}
