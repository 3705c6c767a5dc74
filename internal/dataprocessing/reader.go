package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"github.com/xuri/excelize/v2"

	apperrors "github.com/meganhong98/demand-forecasting/internal/errors"
)

// RawTable is a table as read from disk: one header row and string cells.
// Line is the 1-based source line (CSV) or row number (XLSX) of each data row.
type RawTable struct {
	Path   string
	Header []string
	Rows   [][]string
	Line   []int
}

// Supported input extensions
const (
	ExtCSV       = ".csv"
	ExtSnappyCSV = ".csv.sz"
	ExtXLSX      = ".xlsx"
)

// ReadTable reads a CSV, snappy-framed CSV or XLSX file selected by its
// extension. sheet picks the worksheet of an XLSX file; empty means the first.
func ReadTable(path, sheet string) (*RawTable, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ExtSnappyCSV):
		return readCSVFile(path, true)
	case strings.HasSuffix(lower, ExtCSV):
		return readCSVFile(path, false)
	case strings.HasSuffix(lower, ExtXLSX):
		return readXLSX(path, sheet)
	default:
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("unsupported input format %q", filepath.Ext(path)), nil).
			WithContext("path", path)
	}
}

func readCSVFile(path string, compressed bool) (*RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open input file", err).WithContext("path", path)
	}
	defer f.Close()

	var r io.Reader = f
	if compressed {
		r = snappy.NewReader(f)
	}

	table, err := ReadCSV(r)
	if err != nil {
		return nil, wrapWithPath(err, path)
	}
	table.Path = path
	return table, nil
}

// ReadCSV reads a header row followed by data rows. Rows may have a different
// number of fields than the header; missing trailing cells read as empty.
func ReadCSV(r io.Reader) (*RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.NewParsingError("input has no header row", nil)
	}
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read header row", err)
	}

	table := &RawTable{Header: normalizeHeader(header)}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError("malformed CSV", err)
		}
		if isBlank(record) {
			continue
		}
		line, _ := reader.FieldPos(0)
		table.Rows = append(table.Rows, record)
		table.Line = append(table.Line, line)
	}

	return table, nil
}

func readXLSX(path, sheet string) (*RawTable, error) {
	f, err := excelize.OpenFile(path, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open workbook", err).WithContext("path", path)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheet), err).
			WithContext("path", path)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewParsingError("input has no header row", nil).WithContext("path", path)
	}

	table := &RawTable{Path: path, Header: normalizeHeader(rows[0])}
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		table.Rows = append(table.Rows, row)
		table.Line = append(table.Line, i+2)
	}
	return table, nil
}

// normalizeHeader trims header cells and drops a UTF-8 byte order mark
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func wrapWithPath(err error, path string) error {
	if appErr, ok := err.(*apperrors.AppError); ok {
		return appErr.WithContext("path", path)
	}
	return err
}
