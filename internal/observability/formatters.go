// Package observability provides logging setup and formatted output for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/payroll-analysis/internal/aggregate"
	"github.com/jonathan/payroll-analysis/internal/linkage"
	"github.com/jonathan/payroll-analysis/internal/trend"
	"github.com/jonathan/payroll-analysis/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len([]rune(line)) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// moreLine renders the "... and N more" footer.
func moreLine(total int, noun string) string {
	if total <= maxItemsToShow {
		return ""
	}
	return fmt.Sprintf("\n... and %d more %s", total-maxItemsToShow, noun)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintLoadReport outputs one line per year with row counts and drop reasons.
func (p *Printer) PrintLoadReport(report *types.LoadReport) {
	if report == nil || len(report.Years) == 0 {
		return
	}

	var sb strings.Builder
	for _, y := range report.Years {
		if y.Error != "" {
			sb.WriteString(fmt.Sprintf("%d  FAILED: %s\n", y.Year, truncate(y.Error, 40)))
			continue
		}
		sb.WriteString(fmt.Sprintf("%d  read %d  loaded %d  dropped %d  dup %d\n",
			y.Year, y.RowsRead, y.Loaded, y.Dropped, y.Duplicates))
		for _, reason := range sortedKeys(y.Drops) {
			sb.WriteString(fmt.Sprintf("      %s: %d\n", reason, y.Drops[reason]))
		}
	}
	if report.Failed > 0 {
		sb.WriteString(fmt.Sprintf("\n%d of %d years failed", report.Failed, len(report.Years)))
	}

	p.printBox("EARNINGS LOAD REPORT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWarnings outputs the first row warnings of a dataset.
func (p *Printer) PrintWarnings(title string, warnings []types.RowWarning) {
	if len(warnings) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(warnings), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("• %s\n", warnings[i]))
	}
	sb.WriteString(moreLine(len(warnings), "warnings"))

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRoster outputs the roster load counts.
func (p *Printer) PrintRoster(ds *types.RosterDataset) {
	if ds == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source:    %s\n", ds.Source))
	sb.WriteString(fmt.Sprintf("Encoding:  %s\n", ds.Encoding))
	sb.WriteString(fmt.Sprintf("As of:     %s\n", ds.ReferenceDate.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Rows:      %d read, %d loaded, %d dropped", ds.RowsRead, len(ds.Records), ds.Drops.Total()))
	for _, reason := range ds.Drops.Reasons() {
		sb.WriteString(fmt.Sprintf("\n  %s: %d", reason, ds.Drops[reason]))
	}

	p.printBox("ROSTER", sb.String())
}

// PrintOvertime outputs an overtime log's load counts and hours.
func (p *Printer) PrintOvertime(ds *types.OvertimeDataset) {
	if ds == nil {
		return
	}

	total := 0.0
	for _, e := range ds.Entries {
		total += e.Hours
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source:   %s\n", ds.Source))
	sb.WriteString(fmt.Sprintf("Entries:  %d (%d dropped)\n", len(ds.Entries), ds.Drops.Total()))
	sb.WriteString(fmt.Sprintf("Hours:    %.1f", total))

	p.printBox(fmt.Sprintf("OVERTIME LOG %d", ds.Year), sb.String())
}

// PrintLinkReport outputs match counts and the most frequent key collisions.
func (p *Printer) PrintLinkReport(report *linkage.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Earnings records:  %d\n", report.Total))
	sb.WriteString(fmt.Sprintf("Matched:           %d (%.1f%%)\n", report.Matched, report.MatchRate()))
	sb.WriteString(fmt.Sprintf("Unmatched:         %d\n", report.Unmatched))
	sb.WriteString(fmt.Sprintf("Unparseable names: %d\n", report.Unparseable))
	sb.WriteString(fmt.Sprintf("Roster keys:       %d unique, %d colliding", report.Index.UniqueKeys, report.Index.CollidingKeys))

	if len(report.Collisions) > 0 {
		sb.WriteString("\n\nCollisions:\n")
		count := min(len(report.Collisions), maxItemsToShow)
		for i := 0; i < count; i++ {
			c := report.Collisions[i]
			sb.WriteString(fmt.Sprintf("  • %s  %d candidates, %d lookups\n", truncate(c.Key.String(), 28), c.Candidates, c.Lookups))
		}
		sb.WriteString(strings.TrimPrefix(moreLine(len(report.Collisions), "collisions"), "\n"))
	}

	p.printBox("ROSTER LINKAGE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTopEarners outputs the highest earners with their overtime.
func (p *Printer) PrintTopEarners(records []types.EarningsRecord) {
	if len(records) == 0 {
		return
	}

	var sb strings.Builder
	for i, r := range records {
		sb.WriteString(fmt.Sprintf("#%-2d %-24s %14s\n", i+1, truncate(r.Name, 24), r.TotalGross.Format()))
		sb.WriteString(fmt.Sprintf("    %s, OT %s", truncate(r.Department, 30), formatDecimal(r.Overtime)))
		if i < len(records)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("TOP EARNERS", sb.String())
}

// PrintAggregate outputs the first groups of an aggregation.
func (p *Printer) PrintAggregate(res *aggregate.Result) {
	if res == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Op: %s  Measure: %s\n", res.Request.Op, res.Request.Measure))
	if len(res.Groups) == 0 {
		sb.WriteString("\n(no records)")
	}
	count := min(len(res.Groups), maxItemsToShow)
	for i := 0; i < count; i++ {
		g := res.Groups[i]
		key := strings.Join(g.Key, " / ")
		if key == "" {
			key = "(all)"
		}
		sb.WriteString(fmt.Sprintf("\n%-30s %s (%d/%d)", truncate(key, 30), g.Value.String(), g.Used, g.Records))
	}
	sb.WriteString(moreLine(len(res.Groups), "groups"))

	p.printBox("AGGREGATE", sb.String())
}

// PrintInjurySummary outputs the yearly injury and overtime participation table.
func (p *Printer) PrintInjurySummary(rows []aggregate.InjuryOvertimeRow) {
	if len(rows) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-6s %16s %9s %9s", "Year", "Injury pay", "Injury%", "OT%"))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("\n%-6d %16s %9s %9s", r.Year, formatDecimal(r.TotalInjuryPay), percent(r.InjuryPercent.Float64()), percent(r.OvertimePercent.Float64())))
	}

	p.printBox("INJURY AND OVERTIME", sb.String())
}

// PrintPredictions outputs overtime predictions per rank and assignment.
func (p *Printer) PrintPredictions(preds []aggregate.Prediction) {
	if len(preds) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Predicted overtime hours for %d:\n", preds[0].Year))
	count := min(len(preds), maxItemsToShow)
	for i := 0; i < count; i++ {
		pr := preds[i]
		label := pr.Rank + " / " + pr.Assignment
		sb.WriteString(fmt.Sprintf("\n  • %-34s %8.1f", truncate(label, 34), pr.Hours))
		if pr.Method == aggregate.MethodLastValue {
			sb.WriteString(" *")
		}
	}
	sb.WriteString(moreLine(len(preds), "predictions"))

	p.printBox("OVERTIME FORECAST", sb.String())
}

// PrintForecast outputs an observed series followed by its projection.
func (p *Printer) PrintForecast(title string, observed, forecast []trend.Point) {
	if len(observed) == 0 {
		return
	}

	var sb strings.Builder
	for _, pt := range observed {
		sb.WriteString(fmt.Sprintf("%d  %16.2f\n", pt.Year, pt.Value))
	}
	for _, pt := range forecast {
		sb.WriteString(fmt.Sprintf("%d  %16.2f  (forecast)\n", pt.Year, pt.Value))
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDistribution outputs summary statistics for one measure.
func (p *Printer) PrintDistribution(title string, d aggregate.Distribution) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Count:   %d\n", d.Count))
	sb.WriteString(fmt.Sprintf("Mean:    %s\n", d.Mean.Format()))
	sb.WriteString(fmt.Sprintf("Median:  %s\n", d.Median.Format()))
	sb.WriteString(fmt.Sprintf("Min:     %s\n", d.Min.Format()))
	sb.WriteString(fmt.Sprintf("Max:     %s\n", d.Max.Format()))
	sb.WriteString(fmt.Sprintf("Std dev: %s", d.StdDev.Format()))

	p.printBox(title, sb.String())
}
