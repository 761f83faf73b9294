package types

import (
	"sort"
	"time"
)

// DropReason explains why a source row did not become a record.
type DropReason string

const (
	DropMissingTotal  DropReason = "missing_total"
	DropNegativeTotal DropReason = "negative_total"
	DropMissingColumn DropReason = "missing_column"
	DropMalformedRow  DropReason = "malformed_row"
	DropMissingName   DropReason = "missing_name"
	DropMissingHours  DropReason = "missing_hours"
)

// DropCounts maps a reason to the number of rows dropped for it.
type DropCounts map[DropReason]int

// Total sums all reasons.
func (d DropCounts) Total() int {
	n := 0
	for _, c := range d {
		n += c
	}
	return n
}

// Reasons returns the reasons with a non-zero count, sorted by name.
func (d DropCounts) Reasons() []DropReason {
	out := make([]DropReason, 0, len(d))
	for r, c := range d {
		if c > 0 {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RowWarning is a non-fatal note attached to one source row (0 for file-level).
type RowWarning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// YearlyDataset is the canonical record set for one reporting year.
type YearlyDataset struct {
	Year       int              `json:"year"`
	Source     string           `json:"source"`
	Encoding   string           `json:"encoding"`
	SHA256     string           `json:"sha256,omitempty"`
	Records    []EarningsRecord `json:"-"`
	RowsRead   int              `json:"rows_read"`
	Drops      DropCounts       `json:"drops"`
	Duplicates int              `json:"duplicates"`
	Warnings   []RowWarning     `json:"warnings,omitempty"`
}

// Loaded returns the number of records kept.
func (d *YearlyDataset) Loaded() int {
	return len(d.Records)
}

// Dropped returns the number of rows that did not become records.
func (d *YearlyDataset) Dropped() int {
	return d.Drops.Total()
}

// RosterDataset is the personnel roster as of a reference date.
type RosterDataset struct {
	Source        string         `json:"source"`
	Encoding      string         `json:"encoding"`
	ReferenceDate time.Time      `json:"reference_date"`
	Records       []RosterRecord `json:"-"`
	RowsRead      int            `json:"rows_read"`
	Drops         DropCounts     `json:"drops"`
	Warnings      []RowWarning   `json:"warnings,omitempty"`
}

// OvertimeEntry is one overtime log line.
type OvertimeEntry struct {
	EmployeeID string     `json:"employee_id"`
	Rank       string     `json:"rank,omitempty"`
	Assignment string     `json:"assignment,omitempty"`
	Date       *time.Time `json:"date,omitempty"`
	Hours      float64    `json:"hours"`
	Row        int        `json:"row"`
}

// OvertimeDataset is one year of overtime log entries.
type OvertimeDataset struct {
	Year     int             `json:"year"`
	Source   string          `json:"source"`
	Encoding string          `json:"encoding"`
	Entries  []OvertimeEntry `json:"-"`
	RowsRead int             `json:"rows_read"`
	Drops    DropCounts      `json:"drops"`
	Warnings []RowWarning    `json:"warnings,omitempty"`
}
