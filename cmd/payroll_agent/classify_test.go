package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyCommand_Titles(t *testing.T) {
	output, err := executeCommand(t, "classify", "Police Lieutenant", "Fire Fighter", "Police Commissioner")
	require.NoError(t, err)

	assert.Contains(t, output, "Police Lieutenant\tLieutenant\t5\n")
	assert.Contains(t, output, "Fire Fighter\tOther\t9\n")
	assert.Contains(t, output, "Police Commissioner\tCommissioner\t0\n")
}

func TestClassifyCommand_Departments(t *testing.T) {
	output, err := executeCommand(t, "classify", "--kind", "department", "Boston Police Department", "BPS Mather Elementary")
	require.NoError(t, err)

	assert.Contains(t, output, "Boston Police Department\tPolice\t0\n")
	assert.Contains(t, output, "BPS Mather Elementary\tSchools\t2\n")
}

func TestClassifyCommand_List(t *testing.T) {
	output, err := executeCommand(t, "classify", "--list")
	require.NoError(t, err)

	assert.Contains(t, output, "0\tCommissioner\n")
	assert.Contains(t, output, "9\tOther\n")
}

func TestClassifyCommand_Errors(t *testing.T) {
	_, err := executeCommand(t, "classify", "--kind", "postal", "02132")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown --kind")

	_, err = executeCommand(t, "classify")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to classify")
}
