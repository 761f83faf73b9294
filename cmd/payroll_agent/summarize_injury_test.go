package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeInjuryCommand(t *testing.T) {
	dataDir := writeFixtures(t)
	outPath := filepath.Join(t.TempDir(), "injury.csv")

	output, err := executeCommand(t, "summarize-injury", "--data-dir", dataDir, "--years", "2014-2015", "--out", outPath)
	require.NoError(t, err)

	assert.Contains(t, output, "INJURY AND OVERTIME")
	assert.Contains(t, output, "Summary written to")

	content := readFile(t, outPath)
	assert.Contains(t, content, "Year,Total Injury Pay,Injury %,Overtime %\n")
	assert.Contains(t, content, "2014,0.00,0.00,100.00\n")
	assert.Contains(t, content, "2015,0.00,0.00,100.00\n")
}

func TestSummarizeInjuryCommand_ByDepartmentName(t *testing.T) {
	dataDir := writeFixtures(t)
	outPath := filepath.Join(t.TempDir(), "injury.csv")

	_, err := executeCommand(t, "summarize-injury", "-d", dataDir, "-y", "2015", "--department", "bps mather elementary", "-o", outPath)
	require.NoError(t, err)

	// Bloggs has no overtime pay.
	assert.Contains(t, readFile(t, outPath), "2015,0.00,0.00,0.00\n")
}

func TestSummarizeInjuryCommand_ByCategory(t *testing.T) {
	dataDir := writeFixtures(t)
	outPath := filepath.Join(t.TempDir(), "injury.csv")

	_, err := executeCommand(t, "summarize-injury", "-d", dataDir, "-y", "2014", "--category", "Fire", "-o", outPath)
	require.NoError(t, err)

	// Doe has overtime and injury pay in 2014.
	assert.Contains(t, readFile(t, outPath), "2014,5000.00,100.00,100.00\n")
}
