package pipeline

import (
	"fmt"

	"github.com/jonathan/payroll-analysis/internal/classify"
	"github.com/jonathan/payroll-analysis/internal/schema"
	"github.com/jonathan/payroll-analysis/internal/types"
)

// Tables bundles the header alias tables and the classification tables of a run.
type Tables struct {
	Aliases     schema.Tables
	Departments *classify.Table
	Titles      *classify.Table
}

// LoadTables builds the built-in tables with the optional override files applied.
func LoadTables(aliasFile, keywordFile string) (Tables, error) {
	aliases, err := schema.LoadAliasFile(aliasFile)
	if err != nil {
		return Tables{}, fmt.Errorf("failed to load alias overrides: %w", err)
	}
	departments, titles, err := classify.LoadTables(keywordFile)
	if err != nil {
		return Tables{}, fmt.Errorf("failed to load keyword tables: %w", err)
	}
	return Tables{Aliases: aliases, Departments: departments, Titles: titles}, nil
}

// Classify sets department and title categories on every dataset's records.
func (t Tables) Classify(datasets []*types.YearlyDataset) {
	for _, ds := range datasets {
		ds.Records = classify.ApplyTitles(classify.ApplyDepartments(ds.Records, t.Departments), t.Titles)
	}
}

// Records concatenates the records of datasets in year order.
func Records(datasets []*types.YearlyDataset) []types.EarningsRecord {
	n := 0
	for _, ds := range datasets {
		n += len(ds.Records)
	}
	out := make([]types.EarningsRecord, 0, n)
	for _, ds := range datasets {
		out = append(out, ds.Records...)
	}
	return out
}
