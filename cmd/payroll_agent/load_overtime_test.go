package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOvertimeCommand(t *testing.T) {
	dataDir := writeFixtures(t)

	output, err := executeCommand(t, "load-overtime", "--dir", filepath.Join(dataDir, "overtime"), "--years", "2014-2015", "--hours", "6")
	require.NoError(t, err)

	assert.Contains(t, output, "OVERTIME LOG 2014")
	assert.Contains(t, output, "OVERTIME LOG 2015")
	assert.Contains(t, output, "2014  entries 2  employees 2  mean 5.00  sd 1.41  per employee 5.00")
	assert.Contains(t, output, "2015  entries 2  employees 2  mean 7.00  sd 1.41  per employee 7.00")
	// 6 hours sits halfway between the two yearly means with equal spread.
	assert.Contains(t, output, "P(2014 | 6.0 h) = 0.500")
	assert.Contains(t, output, "P(2015 | 6.0 h) = 0.500")
	assert.Contains(t, output, "Loaded 2 of 2 overtime logs")
}

func TestLoadOvertimeCommand_WritesReport(t *testing.T) {
	dataDir := writeFixtures(t)
	outPath := filepath.Join(t.TempDir(), "overtime_report.json")

	output, err := executeCommand(t, "load-overtime", "-d", filepath.Join(dataDir, "overtime"), "-y", "2014-2016", "-o", outPath)
	require.NoError(t, err)
	assert.Contains(t, output, "Loaded 2 of 3 overtime logs")
	assert.Contains(t, readFile(t, outPath), `"failed": 1`)
}

func TestLoadOvertimeCommand_NothingLoads(t *testing.T) {
	_, err := executeCommand(t, "load-overtime", "--dir", t.TempDir(), "--years", "2014")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no overtime log could be loaded")
}
