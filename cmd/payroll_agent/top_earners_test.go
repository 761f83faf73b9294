package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopEarnersCommand(t *testing.T) {
	dataDir := writeFixtures(t)
	outPath := filepath.Join(t.TempDir(), "top.csv")

	output, err := executeCommand(t, "top-earners", "--data-dir", dataDir, "--years", "2014-2015", "-n", "2", "--out", outPath)
	require.NoError(t, err)

	assert.Contains(t, output, "TOP EARNERS")
	assert.Contains(t, output, "$110,000.00")
	assert.Contains(t, output, "$100,000.00")
	assert.NotContains(t, output, "$85,000.00")

	content := readFile(t, outPath)
	assert.Contains(t, content, "Rank,Name,Department,Title,Total Gross,Overtime,Year\n")
	assert.Contains(t, content, `1,"SMITH,JOHN",Boston Police Department,Police Officer,110000.00,25000.00,2015`)
}

func TestTopEarnersCommand_CategoryAndComponents(t *testing.T) {
	dataDir := writeFixtures(t)

	output, err := executeCommand(t, "top-earners", "-d", dataDir, "-y", "2014", "--category", "Fire", "--components")
	require.NoError(t, err)

	assert.Contains(t, output, "DOE,JANE (2014) $85,000.00")
	assert.NotContains(t, output, "SMITH,JOHN")
}
