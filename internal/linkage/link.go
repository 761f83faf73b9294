package linkage

import (
	"log/slog"

	"github.com/jonathan/payroll-analysis/internal/types"
)

// Collision reports a key that matched more than one roster record.
// The first candidate in roster order was used.
type Collision struct {
	Key        types.NameKey `json:"key"`
	Candidates int           `json:"candidates"`
	ChosenRow  int           `json:"chosen_row"`
	Lookups    int           `json:"lookups"`
}

// Report summarizes a Link call.
type Report struct {
	Total       int         `json:"total"`
	Matched     int         `json:"matched"`
	Unmatched   int         `json:"unmatched"`
	Unparseable int         `json:"unparseable"`
	Collisions  []Collision `json:"collisions"`
	Index       IndexStats  `json:"index"`
}

// MatchRate is matched over total, in percent. It is 0 for an empty input.
func (r *Report) MatchRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Matched) / float64(r.Total) * 100
}

// Option configures Link.
type Option func(*linkOptions)

type linkOptions struct {
	logger *slog.Logger
}

// WithLogger sets the logger collision warnings are written to.
func WithLogger(logger *slog.Logger) Option {
	return func(o *linkOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Link joins earnings records against the roster on exact normalized (last, first) equality.
//
// The output has one LinkedRecord per earnings record, in input order. Unmatched and
// unparseable names are kept with a nil roster record. When several roster records share a
// key the first in roster order is attached and the key is listed in Report.Collisions.
func Link(earnings []types.EarningsRecord, roster []types.RosterRecord, opts ...Option) ([]types.LinkedRecord, *Report) {
	o := &linkOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	idx := BuildIndex(roster)
	report := &Report{
		Total:      len(earnings),
		Collisions: []Collision{},
		Index:      idx.Stats,
	}
	collisionAt := make(map[types.NameKey]int)

	out := make([]types.LinkedRecord, 0, len(earnings))
	for _, rec := range earnings {
		key, err := SplitName(rec.Name)
		if err != nil {
			report.Unparseable++
			out = append(out, types.LinkedRecord{
				Earnings: rec,
				Outcome:  types.LinkUnparseableName,
			})
			continue
		}

		match, candidates := idx.Lookup(key)
		linked := types.LinkedRecord{
			Earnings:   rec,
			Roster:     match,
			Key:        key,
			Candidates: candidates,
			Outcome:    types.LinkUnmatched,
		}
		if match != nil {
			linked.Outcome = types.LinkMatched
			report.Matched++
		} else {
			report.Unmatched++
		}

		if candidates > 1 {
			if i, ok := collisionAt[key]; ok {
				report.Collisions[i].Lookups++
			} else {
				collisionAt[key] = len(report.Collisions)
				report.Collisions = append(report.Collisions, Collision{
					Key:        key,
					Candidates: candidates,
					ChosenRow:  match.Row,
					Lookups:    1,
				})
				o.logger.Warn("roster name collision",
					"key", key.String(),
					"candidates", candidates,
					"chosen_row", match.Row,
				)
			}
		}

		out = append(out, linked)
	}

	return out, report
}
