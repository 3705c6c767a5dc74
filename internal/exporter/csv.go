package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/golang/snappy"

	apperrors "github.com/meganhong98/demand-forecasting/internal/errors"
)

// ExtSnappy is appended to CSV files written with compression
const ExtSnappy = ".sz"

// CSVWriter writes each frame to <dir>/<frame name>.csv
type CSVWriter struct {
	dir      string
	compress bool
	logger   *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance. When compress is set the
// files are snappy framed and named <frame name>.csv.sz.
func NewCSVWriter(dir string, compress bool, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{dir: dir, compress: compress, logger: logger}
}

// Format implements Writer
func (w *CSVWriter) Format() string {
	return "csv"
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	Append    bool
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteAll writes every frame and returns the files created
func (w *CSVWriter) WriteAll(ctx context.Context, frames []*Frame) ([]string, error) {
	written := make([]string, 0, len(frames))
	for _, f := range frames {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		path, err := w.WriteFrame(f)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// WriteFrame writes a single frame and returns its path
func (w *CSVWriter) WriteFrame(f *Frame) (string, error) {
	name := f.Name + ".csv"
	if w.compress {
		name += ExtSnappy
	}
	fullPath := filepath.Join(w.dir, name)

	sw, err := w.CreateStreamWriter(fullPath, f.ColumnNames())
	if err != nil {
		return "", err
	}
	for i, row := range f.Rows {
		if err := sw.WriteRecord(formatRow(row)); err != nil {
			sw.Close()
			return "", apperrors.NewStorageError(fmt.Sprintf("failed to write record %d of %s", i, f.Name), err)
		}
	}
	if err := sw.Close(); err != nil {
		return "", apperrors.NewStorageError("failed to close "+fullPath, err)
	}

	w.logger.Info("CSV file written",
		slog.String("table", f.Name),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(f.Rows)))
	return fullPath, nil
}

// WriteCSV writes headers and records to a plain CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if options.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(fullPath, flags, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix && !options.Append {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	if !options.Append && len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// StreamWriter provides streaming CSV writing for large tables
type StreamWriter struct {
	file   *os.File
	snappy *snappy.Writer
	writer *csv.Writer
}

// CreateStreamWriter creates a streaming CSV writer. Paths ending in .sz are
// snappy framed.
func (w *CSVWriter) CreateStreamWriter(filePath string, headers []string) (*StreamWriter, error) {
	fullPath := w.resolvePath(filePath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, apperrors.NewStorageError("failed to create directory", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to create file", err)
	}

	s := &StreamWriter{file: file}
	var out io.Writer = file
	if filepath.Ext(fullPath) == ExtSnappy {
		s.snappy = snappy.NewBufferedWriter(file)
		out = s.snappy
	}
	s.writer = csv.NewWriter(out)

	if len(headers) > 0 {
		if err := s.writer.Write(headers); err != nil {
			file.Close()
			return nil, apperrors.NewStorageError("failed to write headers", err)
		}
	}
	return s, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes and closes the stream writer
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	if s.snappy != nil {
		if err := s.snappy.Close(); err != nil {
			s.file.Close()
			return err
		}
	}
	return s.file.Close()
}

// resolvePath places relative paths under the writer directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	return filepath.Join(w.dir, filePath)
}
