package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateCommand_SumByYear(t *testing.T) {
	dataDir := writeFixtures(t)

	output, err := executeCommand(t, "aggregate", "--data-dir", dataDir, "--years", "2014-2015")
	require.NoError(t, err)

	assert.Equal(t, "year,sum_total_gross,records,used\n2014,185000,2,2\n2015,250000,3,3\n", output)
}

func TestAggregateCommand_PercentageOfTotal(t *testing.T) {
	dataDir := writeFixtures(t)

	output, err := executeCommand(t, "aggregate",
		"--data-dir", dataDir,
		"--years", "2014",
		"--group-by", "department_category",
		"--measure", "overtime",
		"--denominator", "total_gross",
		"--op", "percentage_of_total")
	require.NoError(t, err)

	assert.Contains(t, output, "department_category,percentage_of_total_overtime_over_total_gross,records,used\n")
	assert.Contains(t, output, "Police,20,1,1\n")
}

func TestAggregateCommand_Count(t *testing.T) {
	dataDir := writeFixtures(t)

	output, err := executeCommand(t, "aggregate", "-d", dataDir, "-y", "2015", "-g", "department_category", "--op", "count")
	require.NoError(t, err)

	assert.Contains(t, output, "department_category,count,records,used\n")
	assert.Contains(t, output, "Schools,1,1,1\n")
}

func TestAggregateCommand_OutFile(t *testing.T) {
	dataDir := writeFixtures(t)
	outPath := filepath.Join(t.TempDir(), "agg", "by_year.csv")

	output, err := executeCommand(t, "aggregate", "--data-dir", dataDir, "--years", "2014-2015", "--out", outPath)
	require.NoError(t, err)

	assert.Contains(t, output, "Wrote 2 groups to")
	assert.Contains(t, readFile(t, outPath), "2015,250000,3,3")
}

func TestAggregateCommand_InvalidRequest(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown dimension", args: []string{"--group-by", "zip"}, want: "unknown dimension"},
		{name: "unknown op", args: []string{"--op", "median"}, want: "unknown op"},
		{name: "ratio without denominator", args: []string{"--op", "mean_ratio"}, want: "requires a denominator"},
		{name: "unknown policy", args: []string{"--policy", "drop"}, want: "unknown policy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"aggregate", "--years", "2014"}, tt.args...)
			_, err := executeCommand(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
