package linkage

import "github.com/jonathan/payroll-analysis/internal/types"

// Index looks up roster records by name key. Every record sharing a key is kept, in roster order.
type Index struct {
	byKey map[types.NameKey][]int
	rows  []types.RosterRecord
	Stats IndexStats
}

// IndexStats summarizes the roster index.
type IndexStats struct {
	TotalRecords  int `json:"total_records"`
	UniqueKeys    int `json:"unique_keys"`
	CollidingKeys int `json:"colliding_keys"`
}

// BuildIndex indexes roster records by normalized (last, first).
// Records with an empty key part are not indexed.
func BuildIndex(roster []types.RosterRecord) *Index {
	idx := &Index{
		byKey: make(map[types.NameKey][]int, len(roster)),
		rows:  roster,
	}
	for i, r := range roster {
		key := RosterKey(r)
		if key.Last == "" || key.First == "" {
			continue
		}
		idx.byKey[key] = append(idx.byKey[key], i)
	}

	idx.Stats.TotalRecords = len(roster)
	idx.Stats.UniqueKeys = len(idx.byKey)
	for _, rows := range idx.byKey {
		if len(rows) > 1 {
			idx.Stats.CollidingKeys++
		}
	}
	return idx
}

// Lookup returns the first roster record for key in input order and the number of candidates.
func (idx *Index) Lookup(key types.NameKey) (*types.RosterRecord, int) {
	rows := idx.byKey[key]
	if len(rows) == 0 {
		return nil, 0
	}
	rec := idx.rows[rows[0]]
	return &rec, len(rows)
}

// Candidates returns every roster record sharing key, in input order.
func (idx *Index) Candidates(key types.NameKey) []types.RosterRecord {
	rows := idx.byKey[key]
	out := make([]types.RosterRecord, 0, len(rows))
	for _, i := range rows {
		out = append(out, idx.rows[i])
	}
	return out
}
