package db

import (
	"time"

	"github.com/google/uuid"
)

// Run represents a payroll batch run record
type Run struct {
	ID          uuid.UUID  `json:"id"`
	Command     string     `json:"command"`
	Years       []int32    `json:"years"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Run status values
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusPartial   = "partial"
	RunStatusFailed    = "failed"
)

// Load kinds stored in year_loads
const (
	LoadKindEarnings = "earnings"
	LoadKindOvertime = "overtime"
)

// YearLoad is the persisted outcome of loading one year
type YearLoad struct {
	RunID      uuid.UUID      `json:"run_id"`
	Kind       string         `json:"kind"`
	Year       int            `json:"year"`
	Source     string         `json:"source"`
	Encoding   string         `json:"encoding"`
	RowsRead   int            `json:"rows_read"`
	Loaded     int            `json:"loaded"`
	Dropped    int            `json:"dropped"`
	Duplicates int            `json:"duplicates"`
	Drops      map[string]int `json:"drops"`
	Error      *string        `json:"error,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Artifact step names
const (
	StepLoadEarnings = "load_earnings"
	StepLoadRoster   = "load_roster"
	StepLoadOvertime = "load_overtime"
	StepClassify     = "classify"
	StepLink         = "link"
	StepAggregate    = "aggregate"
	StepSummaries    = "summaries"
	StepForecast     = "forecast"
	StepExport       = "export"
	StepPublish      = "publish"
)

// Step categories
const (
	CategoryIngestion = "ingestion"
	CategoryAnalysis  = "analysis"
	CategoryOutput    = "output"
)

// Artifact is a stored JSON artifact or a pointer to an exported file
type Artifact struct {
	ID        uuid.UUID `json:"id"`
	RunID     uuid.UUID `json:"run_id"`
	Step      string    `json:"step"`
	Category  string    `json:"category"`
	Content   []byte    `json:"content,omitempty"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
