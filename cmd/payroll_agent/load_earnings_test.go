package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/payroll-analysis/internal/types"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadEarningsCommand(t *testing.T) {
	dataDir := writeFixtures(t)
	reportPath := filepath.Join(t.TempDir(), "reports", "load_report.json")

	output, err := executeCommand(t, "load-earnings", "--data-dir", dataDir, "--years", "2014-2016", "--out", reportPath)
	require.NoError(t, err)

	assert.Contains(t, output, "EARNINGS LOAD REPORT")
	assert.Contains(t, output, "2014  read 2  loaded 2  dropped 0  dup 0")
	assert.Contains(t, output, "2015  read 3  loaded 3  dropped 0  dup 0")
	assert.Contains(t, output, "2016  FAILED:")
	assert.Contains(t, output, "1 of 3 years failed")
	assert.Contains(t, output, "Loaded 2 of 3 years")

	var report types.LoadReport
	require.NoError(t, json.Unmarshal([]byte(readFile(t, reportPath)), &report))
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Years, 3)
	assert.Equal(t, 2016, report.Years[2].Year)
}

func TestLoadEarningsCommand_RecordsDir(t *testing.T) {
	dataDir := writeFixtures(t)
	recordsDir := t.TempDir()

	output, err := executeCommand(t, "load-earnings", "-d", dataDir, "-y", "2014,2015", "--records-dir", recordsDir)
	require.NoError(t, err)
	assert.Contains(t, output, "Records written to")

	content := readFile(t, filepath.Join(recordsDir, "earnings", "earnings-2015.csv"))
	assert.Contains(t, content, "BLOGGS,JOE")
	assert.Contains(t, content, "Schools")
}

func TestLoadEarningsCommand_NoYearLoads(t *testing.T) {
	dataDir := writeFixtures(t)

	output, err := executeCommand(t, "load-earnings", "--data-dir", dataDir, "--years", "2020-2021")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no earnings year could be loaded")
	assert.Contains(t, output, "2 of 2 years failed")
}

func TestLoadEarningsCommand_YearsFromConfig(t *testing.T) {
	dataDir := writeFixtures(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, configPath, "data:\n  dir: "+dataDir+"\nyears:\n  from: 2014\n  to: 2015\n")

	output, err := executeCommand(t, "load-earnings", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, output, "Loaded 2 of 2 years")
}

func TestLoadEarningsCommand_NoYears(t *testing.T) {
	_, err := executeCommand(t, "load-earnings", "--data-dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no years given")
}

func TestLoadEarningsCommand_InvalidYears(t *testing.T) {
	_, err := executeCommand(t, "load-earnings", "--years", "2016-2014")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid year range")
}
