package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Step status values
const (
	StepStatusPending    = "pending"
	StepStatusInProgress = "in_progress"
	StepStatusCompleted  = "completed"
	StepStatusFailed     = "failed"
	StepStatusSkipped    = "skipped"
)

// RunStep represents a single step execution for a run
type RunStep struct {
	ID           uuid.UUID  `json:"id"`
	RunID        uuid.UUID  `json:"run_id"`
	Step         string     `json:"step"`
	Category     string     `json:"category"`
	Status       string     `json:"status"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	DurationMs   *int       `json:"duration_ms,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// StartRunStep records a step as in progress, resetting a previous attempt
func (db *DB) StartRunStep(ctx context.Context, runID uuid.UUID, step, category string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO run_steps (run_id, step, category, status, started_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 ON CONFLICT (run_id, step) DO UPDATE SET
		     status = $4, started_at = NOW(), completed_at = NULL, duration_ms = NULL,
		     error_message = NULL, updated_at = NOW()`,
		runID, step, category, StepStatusInProgress,
	)
	if err != nil {
		return fmt.Errorf("failed to start run step %s: %w", step, err)
	}
	return nil
}

// FinishRunStep sets the final status of a step. errMsg is stored for failed steps.
func (db *DB) FinishRunStep(ctx context.Context, runID uuid.UUID, step, status string, errMsg *string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE run_steps SET
		     status = $3,
		     completed_at = NOW(),
		     duration_ms = CASE WHEN started_at IS NULL THEN NULL
		                        ELSE (EXTRACT(EPOCH FROM (NOW() - started_at)) * 1000)::INTEGER END,
		     error_message = $4,
		     updated_at = NOW()
		 WHERE run_id = $1 AND step = $2`,
		runID, step, status, errMsg,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run step %s: %w", step, err)
	}
	return nil
}

// GetRunStep retrieves a run step by run_id and step name. It returns nil when absent.
func (db *DB) GetRunStep(ctx context.Context, runID uuid.UUID, stepName string) (*RunStep, error) {
	var step RunStep
	err := db.pool.QueryRow(ctx,
		`SELECT id, run_id, step, category, status, started_at, completed_at,
		        duration_ms, error_message, created_at, updated_at
		 FROM run_steps
		 WHERE run_id = $1 AND step = $2`,
		runID, stepName,
	).Scan(&step.ID, &step.RunID, &step.Step, &step.Category, &step.Status,
		&step.StartedAt, &step.CompletedAt, &step.DurationMs, &step.ErrorMessage,
		&step.CreatedAt, &step.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run step: %w", err)
	}
	return &step, nil
}

// ListRunSteps retrieves all steps for a run in creation order
func (db *DB) ListRunSteps(ctx context.Context, runID uuid.UUID) ([]RunStep, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, run_id, step, category, status, started_at, completed_at,
		        duration_ms, error_message, created_at, updated_at
		 FROM run_steps
		 WHERE run_id = $1
		 ORDER BY created_at`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list run steps: %w", err)
	}
	defer rows.Close()

	var steps []RunStep
	for rows.Next() {
		var step RunStep
		if err := rows.Scan(&step.ID, &step.RunID, &step.Step, &step.Category, &step.Status,
			&step.StartedAt, &step.CompletedAt, &step.DurationMs, &step.ErrorMessage,
			&step.CreatedAt, &step.UpdatedAt); err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, rows.Err()
}

// CompletedSteps returns the names of the completed steps of a run
func (db *DB) CompletedSteps(ctx context.Context, runID uuid.UUID) (map[string]bool, error) {
	steps, err := db.ListRunSteps(ctx, runID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(steps))
	for _, s := range steps {
		if s.Status == StepStatusCompleted {
			out[s.Step] = true
		}
	}
	return out, nil
}
