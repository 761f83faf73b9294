package types

import (
	"fmt"
	"time"
)

// YearLoadReport is the outcome of loading one year, successful or not.
type YearLoadReport struct {
	Year       int            `json:"year"`
	Source     string         `json:"source,omitempty"`
	Encoding   string         `json:"encoding,omitempty"`
	SHA256     string         `json:"sha256,omitempty"`
	RowsRead   int            `json:"rows_read"`
	Loaded     int            `json:"loaded"`
	Dropped    int            `json:"dropped"`
	Drops      map[string]int `json:"drops"`
	Duplicates int            `json:"duplicates"`
	Warnings   []string       `json:"warnings"`
	Error      string         `json:"error,omitempty"`
}

// LoadReport collects the per-year load outcomes of a run.
type LoadReport struct {
	RunID       string           `json:"run_id,omitempty"`
	GeneratedAt time.Time        `json:"generated_at"`
	Years       []YearLoadReport `json:"years"`
	Failed      int              `json:"failed"`
}

// NewYearLoadReport summarizes ds, or records err when the year could not be loaded.
func NewYearLoadReport(year int, ds *YearlyDataset, err error) YearLoadReport {
	r := YearLoadReport{
		Year:     year,
		Drops:    map[string]int{},
		Warnings: []string{},
	}
	if err != nil {
		r.Error = err.Error()
	}
	if ds == nil {
		return r
	}
	r.Source = ds.Source
	r.Encoding = ds.Encoding
	r.SHA256 = ds.SHA256
	r.RowsRead = ds.RowsRead
	r.Loaded = ds.Loaded()
	r.Dropped = ds.Dropped()
	r.Duplicates = ds.Duplicates
	for _, reason := range ds.Drops.Reasons() {
		r.Drops[string(reason)] = ds.Drops[reason]
	}
	for _, w := range ds.Warnings {
		r.Warnings = append(r.Warnings, w.String())
	}
	return r
}

// Add appends a year and keeps the failure count current.
func (r *LoadReport) Add(y YearLoadReport) {
	r.Years = append(r.Years, y)
	if y.Error != "" {
		r.Failed++
	}
}

// String renders the warning with its row when known.
func (w RowWarning) String() string {
	if w.Row <= 0 {
		return w.Message
	}
	return fmt.Sprintf("row %d: %s", w.Row, w.Message)
}
