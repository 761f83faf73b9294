// Package config provides configuration loading and validation for the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/payroll-analysis/internal/storage"
)

// EnvPrefix is the prefix of every environment override, e.g. PAYROLL_DATA_DIR.
const EnvPrefix = "PAYROLL"

// DateLayout is the layout of dates in the config file.
const DateLayout = "2006-01-02"

// Config represents the CLI configuration loaded from a YAML file and the environment.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	Data          DataConfig      `yaml:"data" envconfig:"DATA"`
	Years         YearRange       `yaml:"years" envconfig:"YEARS"`
	Roster        RosterConfig    `yaml:"roster" envconfig:"ROSTER"`
	Overrides     OverridesConfig `yaml:"overrides" envconfig:"OVERRIDES"`
	Output        OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Workers       int             `yaml:"workers" envconfig:"WORKERS" validate:"gte=0,lte=64"`
	MissingPolicy string          `yaml:"missing_policy" envconfig:"MISSING_POLICY" validate:"omitempty,oneof=skip_missing missing_as_zero"`
	Logging       LogConfig       `yaml:"logging" envconfig:"LOGGING"`
	DatabaseURL   string          `yaml:"database_url" envconfig:"DATABASE_URL" validate:"omitempty,startswith=postgres"`
	Storage       storage.Config  `yaml:"storage" envconfig:"STORAGE"`
}

// DataConfig locates the input files. Patterns contain a {year} placeholder.
type DataConfig struct {
	Dir             string `yaml:"dir" envconfig:"DIR"`
	EarningsPattern string `yaml:"earnings_pattern" envconfig:"EARNINGS_PATTERN" validate:"omitempty,contains={year}"`
	RosterFile      string `yaml:"roster_file" envconfig:"ROSTER_FILE"`
	OvertimeDir     string `yaml:"overtime_dir" envconfig:"OVERTIME_DIR"`
	OvertimePattern string `yaml:"overtime_pattern" envconfig:"OVERTIME_PATTERN" validate:"omitempty,contains={year}"`
}

// YearRange is an inclusive range of report years.
type YearRange struct {
	From int `yaml:"from" envconfig:"FROM" validate:"omitempty,gte=1900,lte=2999"`
	To   int `yaml:"to" envconfig:"TO" validate:"omitempty,gte=1900,lte=2999"`
}

// RosterConfig holds roster loading settings.
type RosterConfig struct {
	// ReferenceDate is the "as of" date months-since-effective is measured to.
	ReferenceDate string `yaml:"reference_date" envconfig:"REFERENCE_DATE" validate:"omitempty,datetime=2006-01-02"`
}

// OverridesConfig points at optional YAML files replacing the built-in tables.
type OverridesConfig struct {
	AliasFile   string `yaml:"alias_file" envconfig:"ALIAS_FILE"`
	KeywordFile string `yaml:"keyword_file" envconfig:"KEYWORD_FILE"`
}

// OutputConfig controls where and how results are written.
type OutputConfig struct {
	Dir      string `yaml:"dir" envconfig:"DIR"`
	Workbook string `yaml:"workbook" envconfig:"WORKBOOK" validate:"omitempty,endswith=.xlsx"`
	TopN     int    `yaml:"top_n" envconfig:"TOP_N" validate:"gte=0"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"omitempty,oneof=text json"`
}

// Defaults returns the values used when neither the file nor the environment sets a field.
func Defaults() Config {
	return Config{
		Data: DataConfig{
			Dir:             "data",
			EarningsPattern: "employee-earnings-report-{year}.csv",
			RosterFile:      filepath.Join("data", "roster.csv"),
			OvertimeDir:     filepath.Join("data", "overtime"),
			OvertimePattern: "{year}.csv",
		},
		Output: OutputConfig{
			Dir:      "out",
			Workbook: "summary.xlsx",
			TopN:     10,
		},
		Workers:       4,
		MissingPolicy: "skip_missing",
		Logging: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from a YAML file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	return &cfg, nil
}

// Load reads path (optional), overlays PAYROLL_* environment variables, fills defaults and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field formats with struct tags and then cross-field rules.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("'%s' failed '%s'", fieldName(fe.Namespace()), fe.Tag()))
			}
			return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.Years.From != 0 && c.Years.To != 0 && c.Years.From > c.Years.To {
		return fmt.Errorf("config error: 'years.from' (%d) is after 'years.to' (%d)", c.Years.From, c.Years.To)
	}

	for _, f := range []string{c.Overrides.AliasFile, c.Overrides.KeywordFile} {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); os.IsNotExist(err) {
			return fmt.Errorf("config error: override file not found: %s", f)
		}
	}

	return nil
}

// fieldName strips the root type from a validator namespace.
func fieldName(ns string) string {
	_, rest, ok := strings.Cut(ns, ".")
	if !ok {
		return ns
	}
	return rest
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	setString(&result.Data.Dir, defaults.Data.Dir)
	setString(&result.Data.EarningsPattern, defaults.Data.EarningsPattern)
	setString(&result.Data.RosterFile, defaults.Data.RosterFile)
	setString(&result.Data.OvertimeDir, defaults.Data.OvertimeDir)
	setString(&result.Data.OvertimePattern, defaults.Data.OvertimePattern)
	setString(&result.Roster.ReferenceDate, defaults.Roster.ReferenceDate)
	setString(&result.Overrides.AliasFile, defaults.Overrides.AliasFile)
	setString(&result.Overrides.KeywordFile, defaults.Overrides.KeywordFile)
	setString(&result.Output.Dir, defaults.Output.Dir)
	setString(&result.Output.Workbook, defaults.Output.Workbook)
	setString(&result.MissingPolicy, defaults.MissingPolicy)
	setString(&result.Logging.Level, defaults.Logging.Level)
	setString(&result.Logging.Format, defaults.Logging.Format)
	setString(&result.DatabaseURL, defaults.DatabaseURL)

	// Int fields: use default if zero
	if result.Years.From == 0 {
		result.Years.From = defaults.Years.From
	}
	if result.Years.To == 0 {
		result.Years.To = defaults.Years.To
	}
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}
	if result.Output.TopN == 0 {
		result.Output.TopN = defaults.Output.TopN
	}

	// Storage is configured as a unit
	if !result.Storage.Enabled() {
		result.Storage = defaults.Storage
	}

	return result
}

func setString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

// YearList expands the configured range. It is empty when either bound is unset.
func (c *Config) YearList() []int {
	if c.Years.From == 0 || c.Years.To == 0 {
		return nil
	}
	out := make([]int, 0, c.Years.To-c.Years.From+1)
	for y := c.Years.From; y <= c.Years.To; y++ {
		out = append(out, y)
	}
	return out
}

// ReferenceDate parses the roster reference date. ok is false when it is unset.
func (c *Config) ReferenceDate() (t time.Time, ok bool, err error) {
	if c.Roster.ReferenceDate == "" {
		return time.Time{}, false, nil
	}
	t, err = time.Parse(DateLayout, c.Roster.ReferenceDate)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("config error: invalid 'roster.reference_date': %w", err)
	}
	return t, true, nil
}
