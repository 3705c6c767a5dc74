package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/meganhong98/demand-forecasting/internal/errors"
)

// defaultSheet is created by excelize.NewFile and removed once real sheets exist
const defaultSheet = "Sheet1"

// XLSXWriter writes all frames into one workbook, one sheet per frame
type XLSXWriter struct {
	path   string
	logger *slog.Logger
}

// NewXLSXWriter creates a workbook writer for path
func NewXLSXWriter(path string, logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{path: path, logger: logger}
}

// Format implements Writer
func (w *XLSXWriter) Format() string {
	return "xlsx"
}

// WriteAll implements Writer
func (w *XLSXWriter) WriteAll(ctx context.Context, frames []*Frame) ([]string, error) {
	if len(frames) == 0 {
		return nil, nil
	}

	f := excelize.NewFile()
	defer f.Close()

	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	if err != nil {
		return nil, apperrors.NewStorageError("failed to create date style", err)
	}

	for _, frame := range frames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(frame.Rows)+1 > excelize.TotalRows {
			return nil, apperrors.NewStorageError(
				fmt.Sprintf("table %s has %d rows, more than a worksheet holds", frame.Name, len(frame.Rows)), nil)
		}
		if _, err := f.NewSheet(frame.Name); err != nil {
			return nil, apperrors.NewStorageError("failed to create sheet "+frame.Name, err)
		}
		if err := w.writeSheet(f, frame, dateStyle); err != nil {
			return nil, err
		}
	}
	if err := f.DeleteSheet(defaultSheet); err != nil {
		return nil, apperrors.NewStorageError("failed to remove default sheet", err)
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return nil, apperrors.NewStorageError("failed to create directory", err)
	}
	if err := f.SaveAs(w.path); err != nil {
		return nil, apperrors.NewStorageError("failed to save workbook", err)
	}

	w.logger.Info("Workbook written",
		slog.String("full_path", w.path),
		slog.Int("sheet_count", len(frames)))
	return []string{w.path}, nil
}

func (w *XLSXWriter) writeSheet(f *excelize.File, frame *Frame, dateStyle int) error {
	sw, err := f.NewStreamWriter(frame.Name)
	if err != nil {
		return apperrors.NewStorageError("failed to open sheet "+frame.Name, err)
	}

	header := make([]interface{}, len(frame.Columns))
	for i, c := range frame.Columns {
		header[i] = c.Name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return apperrors.NewStorageError("failed to write header of "+frame.Name, err)
	}

	cells := make([]interface{}, len(frame.Columns))
	for r, row := range frame.Rows {
		for i, v := range row {
			if t, ok := v.(time.Time); ok {
				cells[i] = excelize.Cell{StyleID: dateStyle, Value: t}
				continue
			}
			cells[i] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return apperrors.NewStorageError("invalid cell reference", err)
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to write row %d of %s", r, frame.Name), err)
		}
	}
	if err := sw.Flush(); err != nil {
		return apperrors.NewStorageError("failed to flush sheet "+frame.Name, err)
	}
	return nil
}
