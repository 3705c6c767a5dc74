package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/meganhong98/demand-forecasting/internal/config"
	"github.com/meganhong98/demand-forecasting/internal/infrastructure"
)

// Writer persists frames in one output format
type Writer interface {
	Format() string

	// WriteAll writes every frame and returns the paths it created
	WriteAll(ctx context.Context, frames []*Frame) ([]string, error)
}

// NewWriters builds one writer per configured output format
func NewWriters(cfg config.OutputConfig, outputDir string, logger *slog.Logger) ([]Writer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "exporter")

	writers := make([]Writer, 0, len(cfg.Formats))
	for _, format := range cfg.Formats {
		switch format {
		case config.FormatCSV:
			writers = append(writers, NewCSVWriter(outputDir, cfg.Compress, logger))
		case config.FormatXLSX:
			writers = append(writers, NewXLSXWriter(filepath.Join(outputDir, cfg.WorkbookFile), logger))
		case config.FormatSQLite:
			writers = append(writers, NewSQLiteWriter(filepath.Join(outputDir, cfg.SQLiteFile), logger))
		case config.FormatArrow:
			writers = append(writers, NewArrowWriter(outputDir, logger))
		default:
			return nil, fmt.Errorf("unsupported output format %q", format)
		}
	}
	return writers, nil
}

// Export validates frames and hands them to every writer in order. Row
// counts are recorded once per frame and writer.
func Export(ctx context.Context, writers []Writer, frames []*Frame, metrics *infrastructure.PipelineMetrics) ([]string, error) {
	for _, f := range frames {
		if err := f.Validate(); err != nil {
			return nil, err
		}
	}

	var written []string
	for _, w := range writers {
		start := time.Now()
		paths, err := w.WriteAll(ctx, frames)
		written = append(written, paths...)
		if err != nil {
			return written, fmt.Errorf("%s export failed: %w", w.Format(), err)
		}
		for _, f := range frames {
			metrics.RecordRows(ctx, f.Name, "written", len(f.Rows))
		}
		metrics.RecordStep(ctx, "export_"+w.Format(), time.Since(start), nil)
	}
	return written, nil
}
