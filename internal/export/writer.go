package export

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/gocarina/gocsv"
	"github.com/jonathan/payroll-analysis/internal/aggregate"
)

// Writer places output files under a directory and remembers what it wrote.
type Writer struct {
	dir    string
	logger *slog.Logger

	mu    sync.Mutex
	files []string
}

// NewWriter creates a Writer rooted at dir. A nil logger uses slog.Default().
func NewWriter(dir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{dir: dir, logger: logger}
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Files returns the paths written so far, in write order.
func (w *Writer) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.files...)
}

func (w *Writer) path(name string) (string, error) {
	path := filepath.Join(w.dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", &ExportError{Path: path, Message: "failed to create output directory", Cause: err}
	}
	return path, nil
}

func (w *Writer) record(path, kind string, rows int) {
	w.mu.Lock()
	w.files = append(w.files, path)
	w.mu.Unlock()
	w.logger.Info("wrote output", "path", path, "kind", kind, "rows", rows)
}

// createFile opens an output file for writing.
var createFile = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// writeFile creates path, runs write on it and closes it. A failed close fails the write.
func writeFile(path, what string, write func(io.Writer) error) (err error) {
	f, err := createFile(path)
	if err != nil {
		return &ExportError{Path: path, Message: "failed to create file", Cause: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &ExportError{Path: path, Message: "failed to close file", Cause: cerr}
		}
	}()

	if err := write(f); err != nil {
		return &ExportError{Path: path, Message: "failed to write " + what, Cause: err}
	}
	return nil
}

// WriteCSV writes a slice of csv-tagged structs with gocsv. Headers are written even for an
// empty slice.
func (w *Writer) WriteCSV(name string, rows any) (string, error) {
	path, err := w.path(name)
	if err != nil {
		return "", err
	}
	if err := writeFile(path, "csv", func(out io.Writer) error {
		return gocsv.Marshal(rows, out)
	}); err != nil {
		return "", err
	}
	w.record(path, "csv", rowCount(rows))
	return path, nil
}

// WriteAggregate writes an aggregation result as CSV.
func (w *Writer) WriteAggregate(name string, res *aggregate.Result) (string, error) {
	path, err := w.path(name)
	if err != nil {
		return "", err
	}
	if err := writeFile(path, "csv", func(out io.Writer) error {
		return WriteAggregateCSV(out, res)
	}); err != nil {
		return "", err
	}
	w.record(path, "csv", len(res.Groups))
	return path, nil
}

// WriteJSON writes v as indented JSON.
func (w *Writer) WriteJSON(name string, v any) (string, error) {
	path, err := w.path(name)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", &ExportError{Path: path, Message: "failed to marshal json", Cause: err}
	}
	if err := writeFile(path, "json", func(out io.Writer) error {
		_, err := out.Write(append(data, '\n'))
		return err
	}); err != nil {
		return "", err
	}
	w.record(path, "json", 1)
	return path, nil
}

// WriteWorkbook writes sheets into one XLSX file.
func (w *Writer) WriteWorkbook(name string, sheets []Sheet) (string, error) {
	path, err := w.path(name)
	if err != nil {
		return "", err
	}
	if err := WriteWorkbook(path, sheets); err != nil {
		return "", err
	}
	w.record(path, "xlsx", len(sheets))
	return path, nil
}

// WriteAggregateCSV writes one line per group: the key parts under their dimension names, then
// value, records and used. A missing value is an empty cell.
func WriteAggregateCSV(out io.Writer, res *aggregate.Result) error {
	cw := gocsv.DefaultCSVWriter(out)
	header := make([]string, 0, len(res.Request.GroupBy)+3)
	for _, d := range res.Request.GroupBy {
		header = append(header, string(d))
	}
	header = append(header, valueLabel(res.Request), "records", "used")
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, g := range res.Groups {
		line := append([]string(nil), g.Key...)
		line = append(line, g.Value.String(), strconv.Itoa(g.Records), strconv.Itoa(g.Used))
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func valueLabel(req aggregate.Request) string {
	switch req.Op {
	case aggregate.OpCount:
		return "count"
	case aggregate.OpPercentageOfTotal, aggregate.OpMeanRatio:
		return fmt.Sprintf("%s_%s_over_%s", req.Op, req.Measure, req.Denominator)
	}
	return fmt.Sprintf("%s_%s", req.Op, req.Measure)
}
