package exporter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	apperrors "github.com/meganhong98/demand-forecasting/internal/errors"
)

// SQLiteWriter writes every frame as a table of a single database file
type SQLiteWriter struct {
	path   string
	logger *slog.Logger
}

// NewSQLiteWriter creates a SQLite writer for path
func NewSQLiteWriter(path string, logger *slog.Logger) *SQLiteWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteWriter{path: path, logger: logger}
}

// Format implements Writer
func (w *SQLiteWriter) Format() string {
	return "sqlite"
}

func sqliteType(t ColumnType) string {
	switch t {
	case TypeInt:
		return "INTEGER"
	case TypeFloat:
		return "REAL"
	default:
		return "TEXT"
	}
}

// sqliteValue maps a frame cell to a driver value; dates are stored as text
func sqliteValue(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.Format(DateLayout)
	}
	return v
}

// WriteAll replaces the database file and writes all frames in one transaction
func (w *SQLiteWriter) WriteAll(ctx context.Context, frames []*Frame) ([]string, error) {
	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return nil, apperrors.NewStorageError("failed to create directory", err)
	}
	if err := os.Remove(w.path); err != nil && !os.IsNotExist(err) {
		return nil, apperrors.NewStorageError("failed to remove previous database", err)
	}

	db, err := sql.Open("sqlite", w.path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open database", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to begin transaction", err)
	}
	for _, f := range frames {
		if err := writeTable(ctx, tx, f); err != nil {
			tx.Rollback()
			return nil, apperrors.NewStorageError("failed to write table "+f.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, apperrors.NewStorageError("failed to commit", err)
	}

	w.logger.Info("SQLite database written",
		slog.String("full_path", w.path),
		slog.Int("table_count", len(frames)))
	return []string{w.path}, nil
}

func writeTable(ctx context.Context, tx *sql.Tx, f *Frame) error {
	defs := make([]string, len(f.Columns))
	cols := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		cols[i] = fmt.Sprintf("%q", c.Name)
		defs[i] = fmt.Sprintf("%q %s", c.Name, sqliteType(c.Type))
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %q`, f.Name)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE %q (%s)`, f.Name, strings.Join(defs, ","))); err != nil {
		return err
	}

	ph := strings.TrimRight(strings.Repeat("?,", len(cols)), ",")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %q (%s) VALUES (%s)`, f.Name, strings.Join(cols, ","), ph))
	if err != nil {
		return err
	}
	defer stmt.Close()

	args := make([]any, len(f.Columns))
	for _, row := range f.Rows {
		for i, v := range row {
			args[i] = sqliteValue(v)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return err
		}
	}

	for _, col := range f.Index {
		idx := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %q ON %q(%q)`, "idx_"+f.Name+"_"+col, f.Name, col)
		if _, err := tx.ExecContext(ctx, idx); err != nil {
			return err
		}
	}
	return nil
}
