package types

// LinkOutcome is the result of joining one earnings record against the roster.
type LinkOutcome string

const (
	LinkMatched         LinkOutcome = "matched"
	LinkUnmatched       LinkOutcome = "unmatched"
	LinkUnparseableName LinkOutcome = "unparseable_name"
)

// NameKey is the normalized (last, first) pair used to join earnings and roster records.
type NameKey struct {
	Last  string `json:"last"`
	First string `json:"first"`
}

// String renders the key as "LAST, FIRST".
func (k NameKey) String() string {
	return k.Last + ", " + k.First
}

// LinkedRecord pairs an earnings record with zero or one roster record.
type LinkedRecord struct {
	Earnings   EarningsRecord `json:"earnings"`
	Roster     *RosterRecord  `json:"roster,omitempty"`
	Outcome    LinkOutcome    `json:"outcome"`
	Key        NameKey        `json:"key"`
	Candidates int            `json:"candidates"`
}

// Matched reports whether a roster record was attached.
func (l LinkedRecord) Matched() bool {
	return l.Roster != nil
}
