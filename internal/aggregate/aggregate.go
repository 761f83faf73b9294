// Package aggregate groups canonical earnings records and computes the numeric series charts and
// trend estimators consume.
package aggregate

import (
	"slices"
	"strings"

	"github.com/jonathan/payroll-analysis/internal/currency"
	"github.com/jonathan/payroll-analysis/internal/types"
	"github.com/shopspring/decimal"
)

// KeySeparator joins composite group key parts in Result.Map.
const KeySeparator = "|"

var keyEscaper = strings.NewReplacer(`\`, `\\`, KeySeparator, `\`+KeySeparator)

// JoinKey encodes composite key parts the way Result.Map does. A backslash escapes
// KeySeparator and itself inside a part, so distinct keys never encode alike.
func JoinKey(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = keyEscaper.Replace(p)
	}
	return strings.Join(escaped, KeySeparator)
}

var hundred = decimal.NewFromInt(100)

// Group is one output row.
type Group struct {
	Key []string `json:"key"`
	// Value is Missing when no record contributed or a denominator was zero or missing.
	Value currency.Amount `json:"value"`
	// Records is the number of input records in the group.
	Records int `json:"records"`
	// Used is the number of records that contributed to Value.
	Used int `json:"used"`
}

// Result holds groups in order of first appearance in the input.
type Result struct {
	Request Request `json:"request"`
	Groups  []Group `json:"groups"`
}

// Map returns group key -> value, keyed by JoinKey of the group's key parts.
func (r *Result) Map() map[string]currency.Amount {
	out := make(map[string]currency.Amount, len(r.Groups))
	for _, g := range r.Groups {
		out[JoinKey(g.Key...)] = g.Value
	}
	return out
}

// Lookup finds the group whose key parts equal key.
func (r *Result) Lookup(key ...string) (Group, bool) {
	for _, g := range r.Groups {
		if slices.Equal(g.Key, key) {
			return g, true
		}
	}
	return Group{}, false
}

type accumulator struct {
	key     []string
	records int
	used    int
	num     decimal.Decimal
	den     decimal.Decimal
}

// Aggregate groups records by req.GroupBy and applies req.Op to each group.
// It is a pure function of its input; an empty input yields an empty result.
func Aggregate(records []types.EarningsRecord, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	policy := req.policy()
	res := &Result{Request: req, Groups: []Group{}}

	order := make([]*accumulator, 0)
	byKey := make(map[string]*accumulator)

	for _, rec := range records {
		key := make([]string, len(req.GroupBy))
		for i, d := range req.GroupBy {
			key[i] = dimensionValue(rec, d)
		}
		joined := JoinKey(key...)
		acc, ok := byKey[joined]
		if !ok {
			acc = &accumulator{key: key, num: decimal.Zero, den: decimal.Zero}
			byKey[joined] = acc
			order = append(order, acc)
		}
		acc.records++
		accumulate(acc, rec, req, policy)
	}

	for _, acc := range order {
		res.Groups = append(res.Groups, Group{
			Key:     acc.key,
			Value:   finish(acc, req.Op),
			Records: acc.records,
			Used:    acc.used,
		})
	}
	return res, nil
}

// resolve applies the missing policy to v.
func resolve(v currency.Amount, policy Policy) (decimal.Decimal, bool) {
	if v.Valid {
		return v.Value, true
	}
	if policy == PolicyMissingAsZero {
		return decimal.Zero, true
	}
	return decimal.Zero, false
}

func accumulate(acc *accumulator, rec types.EarningsRecord, req Request, policy Policy) {
	switch req.Op {
	case OpCount:
		if req.Measure == "" {
			acc.used++
			return
		}
		if _, ok := resolve(MeasureValue(rec, req.Measure), policy); ok {
			acc.used++
		}

	case OpSum, OpMean:
		v, ok := resolve(MeasureValue(rec, req.Measure), policy)
		if !ok {
			return
		}
		acc.num = acc.num.Add(v)
		acc.used++

	case OpPercentageOfTotal:
		v, okV := resolve(MeasureValue(rec, req.Measure), policy)
		d, okD := resolve(MeasureValue(rec, req.Denominator), policy)
		if !okV || !okD {
			return
		}
		acc.num = acc.num.Add(v)
		acc.den = acc.den.Add(d)
		acc.used++

	case OpMeanRatio:
		v, okV := resolve(MeasureValue(rec, req.Measure), policy)
		d, okD := resolve(MeasureValue(rec, req.Denominator), policy)
		if !okV || !okD || !d.IsPositive() {
			return
		}
		acc.num = acc.num.Add(v.Div(d).Mul(hundred))
		acc.used++
	}
}

func finish(acc *accumulator, op Op) currency.Amount {
	switch op {
	case OpCount:
		return currency.New(decimal.NewFromInt(int64(acc.used)))
	case OpSum:
		if acc.used == 0 {
			return currency.Missing
		}
		return currency.New(acc.num)
	case OpMean, OpMeanRatio:
		if acc.used == 0 {
			return currency.Missing
		}
		return currency.New(acc.num.Div(decimal.NewFromInt(int64(acc.used))))
	case OpPercentageOfTotal:
		if acc.used == 0 || acc.den.IsZero() {
			return currency.Missing
		}
		return currency.New(acc.num.Div(acc.den).Mul(hundred))
	}
	return currency.Missing
}
