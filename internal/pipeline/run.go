// Package pipeline provides the high-level orchestration of a multi-year payroll batch run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/payroll-analysis/internal/aggregate"
	"github.com/jonathan/payroll-analysis/internal/classify"
	dbpkg "github.com/jonathan/payroll-analysis/internal/db"
	"github.com/jonathan/payroll-analysis/internal/export"
	"github.com/jonathan/payroll-analysis/internal/ingestion"
	"github.com/jonathan/payroll-analysis/internal/linkage"
	"github.com/jonathan/payroll-analysis/internal/observability"
	"github.com/jonathan/payroll-analysis/internal/pipeline/steps"
	"github.com/jonathan/payroll-analysis/internal/schemas"
	"github.com/jonathan/payroll-analysis/internal/storage"
	"github.com/jonathan/payroll-analysis/internal/trend"
	"github.com/jonathan/payroll-analysis/internal/types"
	reportschemas "github.com/jonathan/payroll-analysis/schemas"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	Years           []int
	DataDir         string
	EarningsPattern string
	// RosterPath and OvertimeDir are optional; their steps are left out when empty.
	RosterPath      string
	OvertimeDir     string
	OvertimePattern string
	ReferenceDate   time.Time
	AliasFile       string
	KeywordFile     string
	OutputDir       string
	Workbook        string
	TopN            int
	ForecastYears   int
	Workers         int
	Policy          aggregate.Policy
	DatabaseURL     string
	Storage         storage.Config
	Verbose         bool
	Out             io.Writer
	Logger          *slog.Logger
	OnProgress      ProgressCallback
}

// Summaries holds the derived tables of a run.
type Summaries struct {
	Injury      []aggregate.InjuryOvertimeRow  `json:"injury_overtime"`
	TopEarners  []types.EarningsRecord         `json:"top_earners"`
	Departments []aggregate.DepartmentRatio    `json:"department_overtime"`
	Components  aggregate.PayComponentsSummary `json:"pay_components"`
	TotalGross  aggregate.Distribution         `json:"total_gross"`
}

// Forecast holds the yearly projections of a run.
type Forecast struct {
	Observed       []trend.Point          `json:"observed"`
	Projected      []trend.Point          `json:"projected"`
	OvertimeTotals []trend.Point          `json:"overtime_totals,omitempty"`
	Predictions    []aggregate.Prediction `json:"predictions,omitempty"`
}

// RunResult is everything a run produced.
type RunResult struct {
	RunID     string
	Status    string
	Earnings  *types.LoadReport
	Overtime  *types.LoadReport
	Link      *linkage.Report
	ByYear    *aggregate.Result
	Summaries *Summaries
	Forecast  *Forecast
	Files     []string
	Objects   []storage.Object
}

// run carries the state shared by the steps of one RunPipeline call.
type run struct {
	opts     *RunOptions
	out      io.Writer
	logger   *slog.Logger
	printer  *observability.Printer
	database *dbpkg.DB
	runID    uuid.UUID

	plan      []string
	index     int
	completed map[string]bool
	failed    map[string]bool
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, runID, step, category, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:     step,
			Category: category,
			Message:  message,
			RunID:    runID,
			Content:  content,
		})
	}
}

func (r *run) planned(name string) bool {
	for _, p := range r.plan {
		if p == name {
			return true
		}
	}
	return false
}

// step runs fn as the named step. Steps outside the plan are no-ops; a step whose
// dependency failed softly is skipped. fn returns the artifact stored for the step.
func (r *run) step(ctx context.Context, name, message string, fn func() (any, error)) error {
	if !r.planned(name) {
		return nil
	}
	r.index++
	def := steps.StepRegistry[name]

	if err := steps.ValidateDependencies(r.completed, name); err != nil {
		var depErr *steps.DependencyError
		if errors.As(err, &depErr) && r.anyFailed(depErr.MissingDependencies) {
			_, _ = fmt.Fprintf(r.out, "Step %d/%d: Skipping %s (%v)\n", r.index, len(r.plan), name, err)
			r.failed[name] = true
			return nil
		}
		return fmt.Errorf("step %s: %w", name, err)
	}

	_, _ = fmt.Fprintf(r.out, "Step %d/%d: %s...\n", r.index, len(r.plan), message)
	if r.database != nil {
		if err := r.database.StartRunStep(ctx, r.runID, name, def.Category); err != nil {
			r.logger.Warn("failed to record step start", "step", name, "error", err)
		}
	}

	content, err := fn()

	if r.database != nil {
		status := dbpkg.StepStatusCompleted
		var errMsg *string
		if err != nil {
			status = dbpkg.StepStatusFailed
			msg := err.Error()
			errMsg = &msg
		}
		if ferr := r.database.FinishRunStep(ctx, r.runID, name, status, errMsg); ferr != nil {
			r.logger.Warn("failed to record step result", "step", name, "error", ferr)
		}
		if err == nil && content != nil {
			if serr := r.database.SaveArtifact(ctx, r.runID, name, def.Category, content); serr != nil {
				r.logger.Warn("failed to save artifact", "step", name, "error", serr)
			}
		}
	}
	if err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}

	r.completed[name] = true
	emitProgress(r.opts, r.runID.String(), name, def.Category, message, content)
	return nil
}

// optional runs a step whose failure is reported but does not stop the run.
func (r *run) optional(ctx context.Context, name, message string, fn func() (any, error)) {
	if err := r.step(ctx, name, message, fn); err != nil {
		_, _ = fmt.Fprintf(r.out, "Warning: %v\n", err)
		r.logger.Warn("optional step failed", "step", name, "error", err)
		r.failed[name] = true
	}
}

func (r *run) anyFailed(names []string) bool {
	for _, n := range names {
		if r.failed[n] {
			return true
		}
	}
	return false
}

// RunPipeline loads every year, classifies, links, aggregates, forecasts and exports.
//
// A year that fails to load is reported and left out; the run fails only when no earnings
// year loads. Roster, overtime and publish steps are skipped when not configured, and their
// failures do not stop the run.
func RunPipeline(ctx context.Context, opts RunOptions) (*RunResult, error) {
	if len(opts.Years) == 0 {
		return nil, fmt.Errorf("no years to load")
	}
	if opts.OutputDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}

	r := &run{
		opts:      &opts,
		out:       opts.Out,
		logger:    opts.Logger,
		runID:     uuid.New(),
		completed: make(map[string]bool),
		failed:    make(map[string]bool),
	}
	if r.out == nil {
		r.out = os.Stdout
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	r.printer = observability.NewPrinter(r.out)

	var exclude []string
	if opts.RosterPath == "" {
		exclude = append(exclude, dbpkg.StepLoadRoster)
	}
	if opts.OvertimeDir == "" {
		exclude = append(exclude, dbpkg.StepLoadOvertime)
	}
	if !opts.Storage.Enabled() {
		exclude = append(exclude, dbpkg.StepPublish)
	}
	r.plan = steps.Plan(exclude...)

	// Initialize database connection if configured
	if opts.DatabaseURL != "" {
		database, err := dbpkg.Connect(ctx, opts.DatabaseURL)
		if err != nil {
			_, _ = fmt.Fprintf(r.out, "Warning: Failed to connect to database: %v\n", err)
			_, _ = fmt.Fprintf(r.out, "Continuing without database persistence...\n")
		} else {
			defer database.Close()
			if err := database.Migrate(ctx); err != nil {
				return nil, fmt.Errorf("failed to migrate database: %w", err)
			}
			id, err := database.CreateRun(ctx, "run", opts.Years)
			if err != nil {
				return nil, fmt.Errorf("failed to create database run: %w", err)
			}
			r.database = database
			r.runID = id
			if opts.Verbose {
				_, _ = fmt.Fprintf(r.out, "[VERBOSE] Created database run: %s\n", id)
			}
		}
	}
	r.logger = observability.WithRun(r.logger, r.runID.String())
	runID := r.runID.String()

	tables, err := LoadTables(opts.AliasFile, opts.KeywordFile)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	loadOpts := []ingestion.Option{
		ingestion.WithAliasTables(tables.Aliases),
		ingestion.WithLogger(r.logger),
	}

	result := &RunResult{RunID: runID}

	var datasets []*types.YearlyDataset
	err = r.step(ctx, dbpkg.StepLoadEarnings, fmt.Sprintf("Loading %d earnings years", len(opts.Years)), func() (any, error) {
		results := LoadYears(ctx, opts.Years, opts.Workers, EarningsLoader(opts.DataDir, opts.EarningsPattern, loadOpts...))
		report := EarningsLoadReport(runID, results)
		result.Earnings = report
		r.printer.PrintLoadReport(report)
		for _, yr := range results {
			if yr.Err != nil {
				r.logger.Warn("year failed to load", "year", yr.Year, "error", yr.Err)
			}
		}
		if err := schemas.Validate(reportschemas.LoadReport, report); err != nil {
			return nil, err
		}
		if r.database != nil {
			if err := r.database.SaveLoadReport(ctx, r.runID, dbpkg.LoadKindEarnings, report); err != nil {
				r.logger.Warn("failed to save load report", "error", err)
			}
		}
		datasets = Loaded(results)
		if len(datasets) == 0 {
			return nil, fmt.Errorf("no earnings year could be loaded (%d failed)", report.Failed)
		}
		return report, nil
	})
	if err != nil {
		return nil, r.fail(ctx, err)
	}

	var roster *types.RosterDataset
	r.optional(ctx, dbpkg.StepLoadRoster, "Loading roster", func() (any, error) {
		rosterOpts := loadOpts
		if !opts.ReferenceDate.IsZero() {
			rosterOpts = append(append([]ingestion.Option{}, loadOpts...), ingestion.WithReferenceDate(opts.ReferenceDate))
		}
		ds, err := ingestion.LoadRoster(ingestion.FileSource{Path: opts.RosterPath}, rosterOpts...)
		if err != nil {
			return nil, err
		}
		ds.Records = classify.RankRoster(ds.Records, tables.Titles)
		roster = ds
		if opts.Verbose {
			r.printer.PrintRoster(ds)
		}
		return ds, nil
	})

	var overtime []*types.OvertimeDataset
	r.optional(ctx, dbpkg.StepLoadOvertime, "Loading overtime logs", func() (any, error) {
		results := LoadYears(ctx, opts.Years, opts.Workers, OvertimeLoader(opts.OvertimeDir, opts.OvertimePattern, loadOpts...))
		report := OvertimeLoadReport(runID, results)
		result.Overtime = report
		if r.database != nil {
			if err := r.database.SaveLoadReport(ctx, r.runID, dbpkg.LoadKindOvertime, report); err != nil {
				r.logger.Warn("failed to save overtime load report", "error", err)
			}
		}
		overtime = Loaded(results)
		if len(overtime) == 0 {
			return nil, fmt.Errorf("no overtime log could be loaded (%d failed)", report.Failed)
		}
		if opts.Verbose {
			for _, ds := range overtime {
				r.printer.PrintOvertime(ds)
			}
		}
		return report, nil
	})

	var records []types.EarningsRecord
	err = r.step(ctx, dbpkg.StepClassify, "Classifying departments and titles", func() (any, error) {
		tables.Classify(datasets)
		records = Records(datasets)
		return aggregate.Aggregate(records, aggregate.Request{
			GroupBy: []aggregate.Dimension{aggregate.DimDepartmentCategory},
			Op:      aggregate.OpCount,
		})
	})
	if err != nil {
		return nil, r.fail(ctx, err)
	}

	var linked []types.LinkedRecord
	err = r.step(ctx, dbpkg.StepLink, "Linking earnings to roster", func() (any, error) {
		var report *linkage.Report
		linked, report = linkage.Link(records, roster.Records, linkage.WithLogger(r.logger))
		if err := schemas.Validate(reportschemas.LinkReport, report); err != nil {
			return nil, err
		}
		result.Link = report
		if opts.Verbose {
			r.printer.PrintLinkReport(report)
		}
		return report, nil
	})
	if err != nil {
		return nil, r.fail(ctx, err)
	}

	var byDepartment, overtimeShare *aggregate.Result
	err = r.step(ctx, dbpkg.StepAggregate, "Aggregating earnings", func() (any, error) {
		var err error
		if result.ByYear, err = aggregate.Aggregate(records, aggregate.Request{
			GroupBy: []aggregate.Dimension{aggregate.DimYear},
			Measure: aggregate.MeasureTotalGross,
			Op:      aggregate.OpSum,
			Policy:  opts.Policy,
		}); err != nil {
			return nil, err
		}
		if byDepartment, err = aggregate.Aggregate(records, aggregate.Request{
			GroupBy: []aggregate.Dimension{aggregate.DimYear, aggregate.DimDepartmentCategory},
			Measure: aggregate.MeasureTotalGross,
			Op:      aggregate.OpSum,
			Policy:  opts.Policy,
		}); err != nil {
			return nil, err
		}
		if overtimeShare, err = aggregate.Aggregate(records, aggregate.Request{
			GroupBy:     []aggregate.Dimension{aggregate.DimYear, aggregate.DimDepartmentCategory},
			Measure:     aggregate.MeasureOvertime,
			Denominator: aggregate.MeasureTotalGross,
			Op:          aggregate.OpPercentageOfTotal,
			Policy:      opts.Policy,
		}); err != nil {
			return nil, err
		}
		if opts.Verbose {
			r.printer.PrintAggregate(result.ByYear)
		}
		return result.ByYear, nil
	})
	if err != nil {
		return nil, r.fail(ctx, err)
	}

	err = r.step(ctx, dbpkg.StepSummaries, "Computing summaries", func() (any, error) {
		s := &Summaries{
			Injury:      aggregate.InjuryOvertimeSummary(datasets, aggregate.DepartmentIs(aggregate.InjuryDepartment)),
			TopEarners:  aggregate.TopEarners(records, opts.TopN),
			Departments: aggregate.DepartmentOvertimeRanking(datasets),
			Components:  aggregate.PayComponents(records),
			TotalGross:  aggregate.Describe(records, aggregate.MeasureTotalGross),
		}
		result.Summaries = s
		if opts.Verbose {
			r.printer.PrintInjurySummary(s.Injury)
			r.printer.PrintTopEarners(s.TopEarners)
			r.printer.PrintDistribution("TOTAL GROSS", s.TotalGross)
		}
		return s, nil
	})
	if err != nil {
		return nil, r.fail(ctx, err)
	}

	err = r.step(ctx, dbpkg.StepForecast, "Forecasting", func() (any, error) {
		f, err := buildForecast(result.ByYear, overtime, opts.ForecastYears, r.logger)
		if err != nil {
			return nil, err
		}
		result.Forecast = f
		if opts.Verbose {
			r.printer.PrintForecast("TOTAL GROSS FORECAST", f.Observed, f.Projected)
			r.printer.PrintPredictions(f.Predictions)
		}
		return f, nil
	})
	if err != nil {
		return nil, r.fail(ctx, err)
	}

	writer := export.NewWriter(opts.OutputDir, r.logger)
	err = r.step(ctx, dbpkg.StepExport, fmt.Sprintf("Exporting to %s", opts.OutputDir), func() (any, error) {
		outputs := exportInputs{
			datasets:      datasets,
			result:        result,
			byDepartment:  byDepartment,
			overtimeShare: overtimeShare,
			linked:        linked,
		}
		if err := writeOutputs(writer, opts.Workbook, outputs); err != nil {
			return nil, err
		}
		result.Files = writer.Files()
		return result.Files, nil
	})
	if err != nil {
		return nil, r.fail(ctx, err)
	}

	r.optional(ctx, dbpkg.StepPublish, "Publishing outputs", func() (any, error) {
		publisher, err := storage.NewPublisher(opts.Storage, r.logger)
		if err != nil {
			return nil, err
		}
		if err := publisher.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		objects, err := publisher.Publish(ctx, runID, writer.Dir(), result.Files)
		if err != nil {
			return nil, err
		}
		result.Objects = objects
		if r.database != nil && len(objects) > 0 {
			if err := r.database.SaveLocation(ctx, r.runID, dbpkg.StepPublish, dbpkg.CategoryOutput, publisher.URL(objects[0].Key)); err != nil {
				r.logger.Warn("failed to save publish location", "error", err)
			}
		}
		return objects, nil
	})

	result.Status = dbpkg.RunStatusCompleted
	if result.Earnings.Failed > 0 || len(r.failed) > 0 {
		result.Status = dbpkg.RunStatusPartial
	}
	if r.database != nil {
		if err := r.database.CompleteRun(ctx, r.runID, result.Status); err != nil {
			r.logger.Warn("failed to complete run", "error", err)
		}
	}

	_, _ = fmt.Fprintf(r.out, "Done! %d files written to %s (run %s, %s).\n", len(result.Files), opts.OutputDir, runID, result.Status)
	return result, nil
}

// fail marks the run failed in the database and returns err.
func (r *run) fail(ctx context.Context, err error) error {
	if r.database != nil {
		if cerr := r.database.CompleteRun(ctx, r.runID, dbpkg.RunStatusFailed); cerr != nil {
			r.logger.Warn("failed to mark run failed", "error", cerr)
		}
	}
	return err
}

// buildForecast projects total gross and, when overtime logs loaded, per rank and assignment hours.
// Too short a series leaves the projection empty rather than failing.
func buildForecast(byYear *aggregate.Result, overtime []*types.OvertimeDataset, years int, logger *slog.Logger) (*Forecast, error) {
	if years <= 0 {
		years = 1
	}
	est := trend.Linear{}
	f := &Forecast{Observed: aggregate.YearSeries(byYear)}

	projected, err := est.Forecast(f.Observed, trend.NextYears(f.Observed, years))
	switch {
	case errors.Is(err, trend.ErrInsufficientData):
		logger.Info("not enough years for a total gross forecast", "years", len(f.Observed))
	case err != nil:
		return nil, err
	default:
		f.Projected = projected
	}

	if len(overtime) == 0 {
		return f, nil
	}
	f.OvertimeTotals = aggregate.OvertimeTotalsByYear(overtime)
	rows := aggregate.RankAssignmentHours(overtime)
	if len(rows) == 0 {
		return f, nil
	}
	target := rows[0].Year
	for _, row := range rows {
		target = max(target, row.Year)
	}
	preds, err := aggregate.PredictRankAssignment(rows, est, target+1)
	if err != nil {
		return nil, err
	}
	f.Predictions = preds
	return f, nil
}
