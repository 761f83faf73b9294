package export

import (
	"bytes"
	"encoding/csv"
	"reflect"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
)

// maxSheetName is the longest sheet name Excel accepts.
const maxSheetName = 31

// Sheet is one worksheet of a workbook.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// SheetFrom builds a sheet from csv-tagged rows, using the same columns WriteCSV produces.
func SheetFrom(name string, rows any) (Sheet, error) {
	data, err := gocsv.MarshalBytes(rows)
	if err != nil {
		return Sheet{}, err
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return Sheet{}, err
	}
	s := Sheet{Name: name}
	if len(records) > 0 {
		s.Header = records[0]
		s.Rows = records[1:]
	}
	return s, nil
}

// WriteWorkbook saves sheets to path in order. Numeric-looking cells are stored as numbers.
func WriteWorkbook(path string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return &ExportError{Path: path, Message: "workbook has no sheets"}
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return &ExportError{Path: path, Message: "failed to create header style", Cause: err}
	}

	for i, s := range sheets {
		name := sheetName(s.Name)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return &ExportError{Path: path, Message: "failed to name sheet " + name, Cause: err}
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return &ExportError{Path: path, Message: "failed to add sheet " + name, Cause: err}
		}

		if err := writeSheet(f, name, s); err != nil {
			return &ExportError{Path: path, Message: "failed to fill sheet " + name, Cause: err}
		}
		if len(s.Header) > 0 {
			if err := f.SetRowStyle(name, 1, 1, bold); err != nil {
				return &ExportError{Path: path, Message: "failed to style sheet " + name, Cause: err}
			}
		}
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return &ExportError{Path: path, Message: "failed to save workbook", Cause: err}
	}
	return nil
}

func writeSheet(f *excelize.File, name string, s Sheet) error {
	row := 1
	if len(s.Header) > 0 {
		header := make([]any, len(s.Header))
		for i, h := range s.Header {
			header[i] = h
		}
		if err := setRow(f, name, row, header); err != nil {
			return err
		}
		row++
	}
	for _, r := range s.Rows {
		cells := make([]any, len(r))
		for i, v := range r {
			cells[i] = cellValue(v)
		}
		if err := setRow(f, name, row, cells); err != nil {
			return err
		}
		row++
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

// cellValue stores plain decimals as numbers. Values with a leading zero, such as postal
// codes, stay text.
func cellValue(v string) any {
	digits := strings.TrimPrefix(v, "-")
	if digits == "" || strings.Trim(digits, "0123456789.") != "" {
		return v
	}
	if len(digits) > 1 && digits[0] == '0' && digits[1] != '.' {
		return v
	}
	if n, err := strconv.ParseFloat(v, 64); err == nil {
		return n
	}
	return v
}

func sheetName(name string) string {
	if name == "" {
		name = "Sheet"
	}
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return name
}

func rowCount(rows any) int {
	v := reflect.ValueOf(rows)
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() == reflect.Slice {
		return v.Len()
	}
	return 0
}
