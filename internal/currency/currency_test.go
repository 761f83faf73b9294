package currency

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  string
		valid bool
	}{
		{name: "dollars with separators", raw: "$1,234.56", want: "1234.56", valid: true},
		{name: "parenthesized negative", raw: "(12.50)", want: "-12.5", valid: true},
		{name: "parenthesized with dollar sign", raw: "($2.51)", want: "-2.51", valid: true},
		{name: "hyphen negative", raw: "-12.50", want: "-12.5", valid: true},
		{name: "dollar then hyphen", raw: "$-7", want: "-7", valid: true},
		{name: "hyphen inside parentheses", raw: "(-5)", want: "-5", valid: true},
		{name: "hyphen before parentheses", raw: "-(5)", want: "-5", valid: true},
		{name: "hyphen before dollar parentheses", raw: "-($1,250.00)", want: "-1250", valid: true},
		{name: "double hyphen", raw: "--5", valid: false},
		{name: "surrounding whitespace", raw: "  $98,000.00  ", want: "98000", valid: true},
		{name: "multiple tokens keeps first", raw: "45 extra", want: "45", valid: true},
		{name: "two amounts keeps first", raw: "$1,000.00 $2,000.00", want: "1000", valid: true},
		{name: "hyphen placeholder", raw: "-", want: "0", valid: true},
		{name: "accounting placeholder", raw: " $ -   ", want: "0", valid: true},
		{name: "plain integer", raw: "300", want: "300", valid: true},
		{name: "empty", raw: "", valid: false},
		{name: "blank", raw: "   ", valid: false},
		{name: "nan", raw: "NaN", valid: false},
		{name: "n/a", raw: "N/A", valid: false},
		{name: "text", raw: "abc", valid: false},
		{name: "dollar sign only", raw: "$", valid: false},
		{name: "two decimal points", raw: "1.2.3", valid: false},
		{name: "exponent rejected", raw: "1e3", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)
			require.Equal(t, tt.valid, got.Valid)
			if tt.valid {
				assert.True(t, got.Value.Equal(dec(tt.want)), "got %s, want %s", got.Value, tt.want)
			}
		})
	}
}

func TestNormalize_KnownValues(t *testing.T) {
	assert.True(t, Normalize("$1,234.56").Equal(New(dec("1234.56"))))
	assert.True(t, Normalize("(12.50)").Equal(New(dec("-12.50"))))
	assert.True(t, Normalize("").Equal(Missing))
	assert.True(t, Normalize("45 extra").Equal(New(dec("45"))))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"$1,234.56", "(12.50)", "-3", "0", "-", "45 extra", "$0.01",
		"1,000,000", "", "garbage", "(0.00)", "$ -", "007.50",
	}

	for _, in := range inputs {
		first := Normalize(in)
		second := Normalize(first.String())
		assert.True(t, first.Equal(second), "input %q: %v then %v", in, first, second)
	}
}

func TestAmount_Helpers(t *testing.T) {
	a := Normalize("$10.25")
	f, ok := a.Float64()
	require.True(t, ok)
	assert.InDelta(t, 10.25, f, 1e-9)
	assert.True(t, a.IsPositive())
	assert.False(t, a.IsNegative())

	_, ok = Missing.Float64()
	assert.False(t, ok)
	assert.True(t, Missing.OrZero().IsZero())
	assert.Equal(t, "", Missing.String())
	assert.Equal(t, "n/a", Missing.Format())
}

func TestFormatDollars(t *testing.T) {
	assert.Equal(t, "$1,234.56", FormatDollars(dec("1234.56")))
	assert.Equal(t, "$0.00", FormatDollars(decimal.Zero))
	assert.Equal(t, "$100.00", FormatDollars(dec("100")))
	assert.Equal(t, "$1,000,000.10", FormatDollars(dec("1000000.1")))
	assert.Equal(t, "-$12.50", FormatDollars(dec("-12.5")))
}

func TestAmount_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
	}{A: Normalize("$1,234.50"), B: Missing})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"1234.5","b":null}`, string(b))

	var out struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
		C Amount `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"1234.5","b":null,"c":12}`), &out))
	assert.True(t, out.A.Equal(Normalize("1234.5")))
	assert.False(t, out.B.Valid)
	assert.True(t, out.C.Equal(Normalize("12")))
}
