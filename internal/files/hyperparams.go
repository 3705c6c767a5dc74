package files

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// HyperparametersFile is the per product group file written by model tuning
const HyperparametersFile = "best_hyperparameters.csv"

// LoadBestHyperparameters reads <dir>/best_hyperparameters.csv and returns its
// first data row keyed by header. Values are typed as int64, float64, bool,
// string, or nil for empty cells. A missing file and a malformed one both
// report false; the malformed case is logged.
func LoadBestHyperparameters(dir string, logger *slog.Logger) (map[string]any, bool) {
	if logger == nil {
		logger = slog.Default()
	}
	path := filepath.Join(dir, HyperparametersFile)

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false
	}
	if err != nil {
		logger.Warn("Failed to open best hyperparameters",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, false
	}
	defer f.Close()

	params, err := parseHyperparameters(f)
	if err != nil {
		logger.Warn("Failed to load best hyperparameters",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, false
	}
	return params, true
}

func parseHyperparameters(r io.Reader) (map[string]any, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	row, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("no data row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading first row: %w", err)
	}
	if len(row) > len(header) {
		return nil, fmt.Errorf("row has %d fields for %d columns", len(row), len(header))
	}

	params := make(map[string]any, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("column %d has no name", i+1)
		}
		if _, dup := params[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		var raw string
		if i < len(row) {
			raw = row[i]
		}
		params[name] = parseValue(raw)
	}
	return params, nil
}

// parseValue infers the narrowest type of a CSV cell
func parseValue(raw string) any {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch s {
	case "True", "true", "TRUE":
		return true
	case "False", "false", "FALSE":
		return false
	}
	return s
}
