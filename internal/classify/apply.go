package classify

import "github.com/jonathan/payroll-analysis/internal/types"

// ApplyDepartments returns copies of records with DepartmentCategory set.
func ApplyDepartments(records []types.EarningsRecord, table *Table) []types.EarningsRecord {
	out := make([]types.EarningsRecord, len(records))
	for i, r := range records {
		out[i] = r.WithDepartmentCategory(table.Classify(r.Department))
	}
	return out
}

// ApplyTitles returns copies of records with TitleCategory set.
func ApplyTitles(records []types.EarningsRecord, table *Table) []types.EarningsRecord {
	out := make([]types.EarningsRecord, len(records))
	for i, r := range records {
		out[i] = r.WithTitleCategory(table.Classify(r.Title))
	}
	return out
}

// RankRoster returns copies of roster records with the job title bucket and ordinal set.
func RankRoster(records []types.RosterRecord, table *Table) []types.RosterRecord {
	out := make([]types.RosterRecord, len(records))
	for i, r := range records {
		category, rank := table.ClassifyRank(r.JobTitle)
		out[i] = r.WithJobTitleRank(category, rank)
	}
	return out
}
