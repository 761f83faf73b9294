package schema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"TOTAL EARNINGS", "TOTAL_EARNINGS"},
		{"  Department Name ", "DEPARTMENT_NAME"},
		{"TOTAL_ GROSS", "TOTAL_GROSS"},
		{"DETAIL ", "DETAIL"},
		{"QUINN / EDUCATION INCENTIVE", "QUINN/EDUCATION_INCENTIVE"},
		{"QUINN/EDUCATION INCENTIVE", "QUINN/EDUCATION_INCENTIVE"},
		{"\ufeffNAME", "NAME"},
		{"Emp. ID", "EMP._ID"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanHeader(tt.in))
		})
	}
}

func TestNormalizeHeaders_Aliases(t *testing.T) {
	m := NormalizeHeaders([]string{"TOTAL EARNINGS", "Department Name"})

	assert.Equal(t, map[string]Field{
		"TOTAL EARNINGS":  FieldTotalGross,
		"Department Name": FieldDepartmentName,
	}, m.ByRaw())
	assert.Empty(t, m.Warnings)
	assert.NoError(t, m.Require(EarningsRequired...))
}

func TestNormalizeHeaders_HistoricalSpellings(t *testing.T) {
	headers := []string{"NAME", "DEPARTMENT", "TITLE", "REGULAR", "RETRO", "OTHER", "OVERTIME",
		"INJURED", "DETAIL ", "QUINN/EDUCATION INCENTIVE", "TOTAL_ GROSS", "POSTAL"}

	m := NormalizeHeaders(headers)

	assert.Equal(t, 0, m.Index(FieldName))
	assert.Equal(t, 1, m.Index(FieldDepartmentName))
	assert.Equal(t, 8, m.Index(FieldDetail))
	assert.Equal(t, 9, m.Index(FieldQuinnEducation))
	assert.Equal(t, 10, m.Index(FieldTotalGross))
	assert.Equal(t, -1, m.Index(FieldHourlyRate))
	for _, c := range m.Columns {
		assert.True(t, c.Aliased, "column %q", c.Raw)
	}
}

func TestNormalizeHeaders_UnknownPassThrough(t *testing.T) {
	m := NormalizeHeaders([]string{"Badge Number"})

	require.Len(t, m.Columns, 1)
	assert.Equal(t, Field("BADGE_NUMBER"), m.Columns[0].Field)
	assert.False(t, m.Columns[0].Aliased)
	assert.True(t, m.Has("BADGE_NUMBER"))
}

func TestNormalizeHeaders_DuplicateLaterWins(t *testing.T) {
	m := NormalizeHeaders([]string{"OVERTIME", "NAME", "Overtime "})

	assert.Equal(t, 2, m.Index(FieldOvertime))
	require.Len(t, m.Warnings, 1)
	w := m.Warnings[0]
	assert.Equal(t, FieldOvertime, w.Field)
	assert.Equal(t, []string{"OVERTIME", "Overtime "}, w.Columns)
	assert.Equal(t, "Overtime ", w.Winner)
	assert.Equal(t, []int{0}, w.Shadowed)
	assert.Contains(t, w.String(), "OVERTIME")
}

func TestMapping_RequireMissing(t *testing.T) {
	m := NormalizeHeaders([]string{"NAME", "DEPARTMENT", "REGULAR"})

	err := m.Require(EarningsRequired...)
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []Field{FieldTotalGross}, schemaErr.Missing)
	assert.Equal(t, []string{"NAME", "DEPARTMENT", "REGULAR"}, schemaErr.Headers)
	assert.Contains(t, err.Error(), "TOTAL_GROSS")
}

func TestMapping_RequireAny(t *testing.T) {
	m := OvertimeAliases().Normalize([]string{"Emp. ID", "Hours Worked", "Hours Paid"}, 0)

	assert.NoError(t, m.RequireAny(
		[]Field{FieldEmployeeID, FieldOTHours},
		[]Field{FieldEmployeeID, FieldHoursWorked, FieldHoursPaid},
	))

	m = OvertimeAliases().Normalize([]string{"ID", "RANK"}, 0)
	err := m.RequireAny(
		[]Field{FieldEmployeeID, FieldOTHours},
		[]Field{FieldEmployeeID, FieldHoursWorked, FieldHoursPaid},
	)
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []Field{FieldOTHours}, schemaErr.Missing)
}

func TestAliasTable_YearOverride(t *testing.T) {
	table := EarningsAliases()
	table.AddForYear(2012, "GROSS PAY", FieldTotalGross)

	m2012 := table.Normalize([]string{"GROSS PAY"}, 2012)
	m2013 := table.Normalize([]string{"GROSS PAY"}, 2013)

	assert.True(t, m2012.Has(FieldTotalGross))
	assert.False(t, m2013.Has(FieldTotalGross))
	assert.True(t, m2013.Has("GROSS_PAY"))
}

func TestAliasTable_FreshCopies(t *testing.T) {
	a := EarningsAliases()
	a.Add("PAY", FieldTotalGross)

	b := EarningsAliases()
	_, ok := b.Lookup("PAY", 0)
	assert.False(t, ok)
}

func TestLoadAliasFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.yaml")
	content := `
earnings:
  aliases:
    "Total Pay": TOTAL_GROSS
  years:
    2011:
      "Education Incentive": QUINN_EDUCATION
roster:
  aliases:
    "Surname": last name
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tables, err := LoadAliasFile(path)
	require.NoError(t, err)

	f, ok := tables.Earnings.Lookup("TOTAL_PAY", 0)
	assert.True(t, ok)
	assert.Equal(t, FieldTotalGross, f)

	f, ok = tables.Earnings.Lookup("EDUCATION_INCENTIVE", 2011)
	assert.True(t, ok)
	assert.Equal(t, FieldQuinnEducation, f)
	_, ok = tables.Earnings.Lookup("EDUCATION_INCENTIVE", 2012)
	assert.False(t, ok)

	f, ok = tables.Roster.Lookup("SURNAME", 0)
	assert.True(t, ok)
	assert.Equal(t, FieldLastName, f)
}

func TestLoadAliasFile_Errors(t *testing.T) {
	_, err := LoadAliasFile(filepath.Join(t.TempDir(), "nope.yaml"))
	var overrideErr *OverrideError
	require.ErrorAs(t, err, &overrideErr)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("earnings: [unclosed"), 0o644))
	_, err = LoadAliasFile(path)
	require.ErrorAs(t, err, &overrideErr)

	tables, err := LoadAliasFile("")
	require.NoError(t, err)
	assert.Equal(t, "earnings", tables.Earnings.Name())
}
