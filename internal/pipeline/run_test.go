package pipeline

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/payroll-analysis/internal/aggregate"
	"github.com/jonathan/payroll-analysis/internal/schemas"
	reportschemas "github.com/jonathan/payroll-analysis/schemas"
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

func testOptions(t *testing.T, dataDir string, out io.Writer) RunOptions {
	t.Helper()
	return RunOptions{
		Years:           []int{2014, 2015, 2016},
		DataDir:         dataDir,
		EarningsPattern: "employee-earnings-report-{year}.csv",
		RosterPath:      filepath.Join(dataDir, "roster.csv"),
		OvertimeDir:     filepath.Join(dataDir, "overtime"),
		OvertimePattern: "{year}.csv",
		ReferenceDate:   time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC),
		OutputDir:       filepath.Join(t.TempDir(), "out"),
		Workbook:        "summary.xlsx",
		TopN:            2,
		ForecastYears:   1,
		Workers:         2,
		Policy:          aggregate.PolicySkipMissing,
		Out:             out,
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestRunPipeline(t *testing.T) {
	dataDir := writeFixtures(t)
	var buf bytes.Buffer
	opts := testOptions(t, dataDir, &buf)

	var events []ProgressEvent
	opts.OnProgress = func(e ProgressEvent) { events = append(events, e) }

	res, err := RunPipeline(context.Background(), opts)
	require.NoError(t, err)

	// 2016 has no file, so the run is partial but complete otherwise.
	assert.Equal(t, "partial", res.Status)
	assert.NotEmpty(t, res.RunID)
	require.NotNil(t, res.Earnings)
	assert.Equal(t, 1, res.Earnings.Failed)
	require.Len(t, res.Earnings.Years, 3)
	assert.Equal(t, 2, res.Earnings.Years[0].Loaded)
	assert.NotEmpty(t, res.Earnings.Years[2].Error)

	require.NotNil(t, res.Link)
	assert.Equal(t, 5, res.Link.Total)
	assert.Equal(t, 2, res.Link.Matched)
	assert.Equal(t, 3, res.Link.Unmatched)

	total, ok := res.ByYear.Lookup("2015")
	require.True(t, ok)
	assert.Equal(t, "250000", total.Value.String())

	require.NotNil(t, res.Summaries)
	require.Len(t, res.Summaries.TopEarners, 2)
	assert.Equal(t, "SMITH,JOHN", res.Summaries.TopEarners[0].Name)
	assert.Equal(t, 2015, res.Summaries.TopEarners[0].Year)
	require.Len(t, res.Summaries.Injury, 2)
	assert.Equal(t, 1, res.Summaries.Injury[0].Employees)

	require.NotNil(t, res.Forecast)
	require.Len(t, res.Forecast.Projected, 1)
	assert.Equal(t, 2016, res.Forecast.Projected[0].Year)
	assert.InDelta(t, 315000, res.Forecast.Projected[0].Value, 1e-6)
	require.Len(t, res.Forecast.Predictions, 2)
	assert.Equal(t, "Ptl", res.Forecast.Predictions[0].Rank)
	assert.InDelta(t, 12, res.Forecast.Predictions[0].Hours, 1e-9)
	assert.Equal(t, aggregate.MethodEstimator, res.Forecast.Predictions[0].Method)

	for _, name := range []string{
		EarningsFile(2014), EarningsFile(2015), FileLoadReport, FileOvertimeLoadReport,
		FileLinkReport, FileLinked, FileTotalByYear, FileInjury, FileForecast,
		FilePredictions, FileSummary, "summary.xlsx",
	} {
		assert.FileExists(t, filepath.Join(opts.OutputDir, name))
	}
	assert.Len(t, res.Files, 16)
	assert.NoError(t, schemas.ValidateFile(reportschemas.LoadReport, filepath.Join(opts.OutputDir, FileLoadReport)))
	assert.NoError(t, schemas.ValidateFile(reportschemas.LinkReport, filepath.Join(opts.OutputDir, FileLinkReport)))

	output := buf.String()
	assert.Contains(t, output, "Step 1/9: Loading 3 earnings years...")
	assert.Contains(t, output, "Step 9/9: Exporting to")
	assert.Contains(t, output, "EARNINGS LOAD REPORT")
	assert.NotContains(t, output, "publish")

	var stepNames []string
	for _, e := range events {
		stepNames = append(stepNames, e.Step)
		assert.Equal(t, res.RunID, e.RunID)
	}
	assert.Equal(t, []string{
		"load_earnings", "load_roster", "load_overtime", "classify", "link",
		"aggregate", "summaries", "forecast", "export",
	}, stepNames)
}

func TestRunPipeline_MissingRosterSkipsLink(t *testing.T) {
	dataDir := writeFixtures(t)
	var buf bytes.Buffer
	opts := testOptions(t, dataDir, &buf)
	opts.Years = []int{2014, 2015}
	opts.RosterPath = filepath.Join(dataDir, "missing.csv")

	res, err := RunPipeline(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, "partial", res.Status)
	assert.Nil(t, res.Link)
	assert.Contains(t, buf.String(), "Warning: load_roster failed")
	assert.Contains(t, buf.String(), "Skipping link")
	assert.NoFileExists(t, filepath.Join(opts.OutputDir, FileLinkReport))
	assert.FileExists(t, filepath.Join(opts.OutputDir, FileSummary))
}

func TestRunPipeline_WithoutOptionalInputs(t *testing.T) {
	dataDir := writeFixtures(t)
	var buf bytes.Buffer
	opts := testOptions(t, dataDir, &buf)
	opts.Years = []int{2014, 2015}
	opts.RosterPath = ""
	opts.OvertimeDir = ""
	opts.Workbook = ""

	res, err := RunPipeline(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, "completed", res.Status)
	assert.Nil(t, res.Link)
	assert.Nil(t, res.Overtime)
	assert.Empty(t, res.Forecast.Predictions)
	assert.Contains(t, buf.String(), "Step 6/6: Exporting to")
	assert.NoFileExists(t, filepath.Join(opts.OutputDir, "summary.xlsx"))
}

func TestRunPipeline_NoYearLoads(t *testing.T) {
	opts := testOptions(t, t.TempDir(), io.Discard)
	opts.RosterPath = ""
	opts.OvertimeDir = ""

	_, err := RunPipeline(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no earnings year could be loaded (3 failed)")
}

func TestRunPipeline_InvalidOptions(t *testing.T) {
	_, err := RunPipeline(context.Background(), RunOptions{OutputDir: "out"})
	assert.Error(t, err)

	_, err = RunPipeline(context.Background(), RunOptions{Years: []int{2014}})
	assert.Error(t, err)
}
