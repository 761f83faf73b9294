package ingestion

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/payroll-analysis/internal/types"
)

// rawRow is one CSV record with its 1-based line number in the source.
type rawRow struct {
	Line   int
	Fields []string
}

// value returns the trimmed field at i, or "" when the row is too short or i is -1.
func (r rawRow) value(i int) string {
	if i < 0 || i >= len(r.Fields) {
		return ""
	}
	return strings.TrimSpace(r.Fields[i])
}

// table is a decoded CSV file.
type table struct {
	Headers   []string
	Rows      []rawRow
	Malformed []types.RowWarning
}

// readTable parses decoded CSV text. Rows with a variable number of fields are accepted;
// records the reader cannot parse are reported as malformed and skipped.
func readTable(text string) (*table, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = false

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &table{}, nil
		}
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	t := &table{Headers: headers}
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			line := 0
			if errors.As(err, &parseErr) {
				line = parseErr.StartLine
			}
			t.Malformed = append(t.Malformed, types.RowWarning{
				Row:     line,
				Message: fmt.Sprintf("malformed row: %v", err),
			})
			continue
		}
		line, _ := reader.FieldPos(0)
		if isBlank(fields) {
			continue
		}
		t.Rows = append(t.Rows, rawRow{Line: line, Fields: fields})
	}
	return t, nil
}

// isBlank reports whether every field is empty, as trailing spreadsheet rows often are.
func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
