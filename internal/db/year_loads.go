package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/payroll-analysis/internal/types"
)

// YearLoadFromReport converts a load report entry into a row for kind.
func YearLoadFromReport(runID uuid.UUID, kind string, r types.YearLoadReport) YearLoad {
	yl := YearLoad{
		RunID:      runID,
		Kind:       kind,
		Year:       r.Year,
		Source:     r.Source,
		Encoding:   r.Encoding,
		RowsRead:   r.RowsRead,
		Loaded:     r.Loaded,
		Dropped:    r.Dropped,
		Duplicates: r.Duplicates,
		Drops:      r.Drops,
	}
	if r.Error != "" {
		msg := r.Error
		yl.Error = &msg
	}
	if yl.Drops == nil {
		yl.Drops = map[string]int{}
	}
	return yl
}

// SaveYearLoad upserts the outcome of one year's load
func (db *DB) SaveYearLoad(ctx context.Context, yl YearLoad) error {
	drops, err := json.Marshal(yl.Drops)
	if err != nil {
		return fmt.Errorf("failed to marshal drops: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO year_loads (run_id, kind, year, source, encoding, rows_read, loaded, dropped, duplicates, drops, error)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (run_id, kind, year) DO UPDATE SET
		     source = $4, encoding = $5, rows_read = $6, loaded = $7, dropped = $8,
		     duplicates = $9, drops = $10, error = $11, created_at = NOW()`,
		yl.RunID, yl.Kind, yl.Year, yl.Source, yl.Encoding, yl.RowsRead, yl.Loaded,
		yl.Dropped, yl.Duplicates, drops, yl.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to save year load %s/%d: %w", yl.Kind, yl.Year, err)
	}
	return nil
}

// SaveLoadReport stores every year of report under kind
func (db *DB) SaveLoadReport(ctx context.Context, runID uuid.UUID, kind string, report *types.LoadReport) error {
	for _, y := range report.Years {
		if err := db.SaveYearLoad(ctx, YearLoadFromReport(runID, kind, y)); err != nil {
			return err
		}
	}
	return nil
}

// ListYearLoads retrieves the year loads of a run ordered by kind and year
func (db *DB) ListYearLoads(ctx context.Context, runID uuid.UUID) ([]YearLoad, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT run_id, kind, year, source, encoding, rows_read, loaded, dropped, duplicates, drops, error, created_at
		 FROM year_loads WHERE run_id = $1 ORDER BY kind, year`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list year loads: %w", err)
	}
	defer rows.Close()

	var out []YearLoad
	for rows.Next() {
		var yl YearLoad
		var drops []byte
		if err := rows.Scan(&yl.RunID, &yl.Kind, &yl.Year, &yl.Source, &yl.Encoding, &yl.RowsRead,
			&yl.Loaded, &yl.Dropped, &yl.Duplicates, &drops, &yl.Error, &yl.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan year load: %w", err)
		}
		if len(drops) > 0 {
			_ = json.Unmarshal(drops, &yl.Drops)
		}
		out = append(out, yl)
	}
	return out, rows.Err()
}
