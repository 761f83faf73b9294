package observability

import (
	"fmt"
	"sort"

	"github.com/jonathan/payroll-analysis/internal/currency"
	"github.com/shopspring/decimal"
)

func formatDecimal(d decimal.Decimal) string {
	return currency.FormatDollars(d)
}

func percent(v float64, ok bool) string {
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", v)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
