package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const earningsHeader = "NAME,DEPARTMENT_NAME,TITLE,REGULAR,RETRO,OTHER,OVERTIME,INJURED,DETAIL,QUINN/EDUCATION INCENTIVE,TOTAL EARNINGS,POSTAL\n"

var fixtures = map[string]string{
	"employee-earnings-report-2014.csv": earningsHeader +
		`"SMITH,JOHN",Boston Police Department,Police Officer,"$80,000.00",,,"$20,000.00",,,,"$100,000.00",02132` + "\n" +
		`"DOE,JANE",Boston Fire Department,Fire Fighter,"$70,000.00",,,"$10,000.00","$5,000.00",,,"$85,000.00",02122` + "\n",
	"employee-earnings-report-2015.csv": earningsHeader +
		`"SMITH,JOHN",Boston Police Department,Police Officer,"$85,000.00",,,"$25,000.00",,,,"$110,000.00",02132` + "\n" +
		`"DOE,JANE",Boston Fire Department,Fire Fighter,"$72,000.00",,,"$8,000.00",,,,"$80,000.00",02122` + "\n" +
		`"BLOGGS,JOE",BPS Mather Elementary,Teacher,"$60,000.00",,,,,,,"$60,000.00",02122` + "\n",
	"roster.csv": "Last,First Name,Sex,Ethnic Grp,Job Title,Annual Rate,Eff Date\n" +
		"Smith,John,M,WHITE,Police Officer,\"$90,000.00\",01/01/2010\n",
	"overtime/2014.csv": "ID,RANK,ASSIGNED_DESC,OTDATE,OTHOURS\n" +
		"1001,Ptl,District 4,2014-01-05,4\n" +
		"1002,Sgt,District 4,2014-02-01,6\n",
	"overtime/2015.csv": "ID,RANK,ASSIGNED_DESC,OTDATE,OTHOURS\n" +
		"1001,Ptl,District 4,2015-01-05,8\n" +
		"1002,Sgt,District 4,2015-02-01,6\n",
}

// writeFixtures lays out a data directory with two earnings years, a roster and two overtime logs.
func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range fixtures {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

// executeCommand runs the CLI with args and returns everything written to stdout and stderr.
// Flags are reset first since they are bound to package variables.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
