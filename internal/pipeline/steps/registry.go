// Package steps provides step definitions and dependency validation for the payroll batch run.
package steps

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	dbpkg "github.com/jonathan/payroll-analysis/internal/db"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Category     string
	Dependencies []string
	Optional     []string
	// Order is the position of the step in a full run.
	Order int
}

// StepRegistry holds all step definitions
var StepRegistry = map[string]StepDefinition{
	dbpkg.StepLoadEarnings: {
		Name:         dbpkg.StepLoadEarnings,
		Category:     dbpkg.CategoryIngestion,
		Dependencies: []string{},
		Optional:     []string{},
		Order:        1,
	},
	dbpkg.StepLoadRoster: {
		Name:         dbpkg.StepLoadRoster,
		Category:     dbpkg.CategoryIngestion,
		Dependencies: []string{},
		Optional:     []string{},
		Order:        2,
	},
	dbpkg.StepLoadOvertime: {
		Name:         dbpkg.StepLoadOvertime,
		Category:     dbpkg.CategoryIngestion,
		Dependencies: []string{},
		Optional:     []string{},
		Order:        3,
	},
	dbpkg.StepClassify: {
		Name:         dbpkg.StepClassify,
		Category:     dbpkg.CategoryAnalysis,
		Dependencies: []string{dbpkg.StepLoadEarnings},
		Optional:     []string{},
		Order:        4,
	},
	dbpkg.StepLink: {
		Name:         dbpkg.StepLink,
		Category:     dbpkg.CategoryAnalysis,
		Dependencies: []string{dbpkg.StepClassify, dbpkg.StepLoadRoster},
		Optional:     []string{},
		Order:        5,
	},
	dbpkg.StepAggregate: {
		Name:         dbpkg.StepAggregate,
		Category:     dbpkg.CategoryAnalysis,
		Dependencies: []string{dbpkg.StepClassify},
		Optional:     []string{},
		Order:        6,
	},
	dbpkg.StepSummaries: {
		Name:         dbpkg.StepSummaries,
		Category:     dbpkg.CategoryAnalysis,
		Dependencies: []string{dbpkg.StepAggregate},
		Optional:     []string{dbpkg.StepLink},
		Order:        7,
	},
	dbpkg.StepForecast: {
		Name:         dbpkg.StepForecast,
		Category:     dbpkg.CategoryAnalysis,
		Dependencies: []string{dbpkg.StepAggregate},
		Optional:     []string{dbpkg.StepLoadOvertime},
		Order:        8,
	},
	dbpkg.StepExport: {
		Name:         dbpkg.StepExport,
		Category:     dbpkg.CategoryOutput,
		Dependencies: []string{dbpkg.StepSummaries},
		Optional:     []string{dbpkg.StepLink, dbpkg.StepForecast},
		Order:        9,
	},
	dbpkg.StepPublish: {
		Name:         dbpkg.StepPublish,
		Category:     dbpkg.CategoryOutput,
		Dependencies: []string{dbpkg.StepExport},
		Optional:     []string{},
		Order:        10,
	},
}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("missing dependencies: %v", e.MissingDependencies)
}

// StepStore reports which steps of a run have completed. *db.DB implements it.
type StepStore interface {
	CompletedSteps(ctx context.Context, runID uuid.UUID) (map[string]bool, error)
}

// Ordered returns the registered step names in run order.
func Ordered() []string {
	names := make([]string, 0, len(StepRegistry))
	for name := range StepRegistry {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return StepRegistry[names[i]].Order < StepRegistry[names[j]].Order
	})
	return names
}

// Plan returns the steps of a run in order, leaving out the excluded ones and every step
// that requires an excluded step.
func Plan(exclude ...string) []string {
	skipped := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skipped[name] = true
	}

	var plan []string
	for _, name := range Ordered() {
		if skipped[name] {
			continue
		}
		blocked := false
		for _, dep := range StepRegistry[name].Dependencies {
			if skipped[dep] {
				blocked = true
				break
			}
		}
		if blocked {
			skipped[name] = true
			continue
		}
		plan = append(plan, name)
	}
	return plan
}

// ValidateDependencies checks that every required dependency of stepName is in completed
func ValidateDependencies(completed map[string]bool, stepName string) error {
	def, ok := StepRegistry[stepName]
	if !ok {
		return fmt.Errorf("unknown step: %s", stepName)
	}

	var missing []string
	for _, dep := range def.Dependencies {
		if !completed[dep] {
			missing = append(missing, dep)
		}
	}

	if len(missing) > 0 {
		return &DependencyError{
			Step:                stepName,
			MissingDependencies: missing,
		}
	}

	return nil
}

// ValidateRunDependencies checks the dependencies of stepName against the steps recorded for a run
func ValidateRunDependencies(ctx context.Context, store StepStore, runID uuid.UUID, stepName string) error {
	if _, ok := StepRegistry[stepName]; !ok {
		return fmt.Errorf("unknown step: %s", stepName)
	}
	completed, err := store.CompletedSteps(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to check dependencies of %s: %w", stepName, err)
	}
	return ValidateDependencies(completed, stepName)
}

// GetAvailableSteps returns steps that can be executed (dependencies met), in run order
func GetAvailableSteps(completed map[string]bool) []string {
	var available []string

	for _, stepName := range Ordered() {
		if completed[stepName] {
			continue // Already completed
		}
		if err := ValidateDependencies(completed, stepName); err != nil {
			continue // Dependencies not met
		}
		available = append(available, stepName)
	}

	return available
}

// GetBlockedSteps returns steps that are blocked (dependencies not met), in run order
func GetBlockedSteps(completed map[string]bool) []string {
	var blocked []string

	for _, stepName := range Ordered() {
		if completed[stepName] {
			continue
		}
		if err := ValidateDependencies(completed, stepName); err != nil {
			blocked = append(blocked, stepName)
		}
	}

	return blocked
}
