package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYears(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []int
		wantErr bool
	}{
		{name: "single", input: "2015", want: []int{2015}},
		{name: "range", input: "2014-2016", want: []int{2014, 2015, 2016}},
		{name: "list", input: "2014,2016", want: []int{2014, 2016}},
		{name: "mixed with spaces", input: "2011-2012, 2016", want: []int{2011, 2012, 2016}},
		{name: "empty", input: "", want: nil},
		{name: "reversed range", input: "2016-2014", wantErr: true},
		{name: "not a number", input: "abc", wantErr: true},
		{name: "bad range end", input: "2014-x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseYears(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Equal(t, "", firstNonEmpty("", ""))
	assert.Equal(t, 3, firstPositive(0, -1, 3))
	assert.Equal(t, 0, firstPositive())
}

func TestSplitOutput(t *testing.T) {
	dir, name := splitOutput("/tmp/out/report.json")
	assert.Equal(t, "/tmp/out", dir)
	assert.Equal(t, "report.json", name)
}

func TestRootCommand_MissingConfigFile(t *testing.T) {
	_, err := executeCommand(t, "load-earnings", "--config", "does-not-exist.yaml", "--years", "2014")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/config.yaml"
	writeConfig(t, path, "workers: 1000\n")

	_, err := executeCommand(t, "load-earnings", "--config", path, "--years", "2014")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'Workers' failed 'lte'")
}
