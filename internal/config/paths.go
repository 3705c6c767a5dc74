package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains every resolved, absolute directory a run touches.
type Paths struct {
	DataDir   string
	InputDir  string
	OutputDir string
	ImagesDir string
	ModelsDir string
	LogsDir   string
}

// ResolvePaths turns the configured directories into absolute paths. DataDir
// is resolved against the working directory, the others against DataDir.
func ResolvePaths(cfg PathsConfig) (*Paths, error) {
	dataDir, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory %s: %w", cfg.DataDir, err)
	}

	under := func(dir string) string {
		if filepath.IsAbs(dir) {
			return filepath.Clean(dir)
		}
		return filepath.Join(dataDir, dir)
	}

	return &Paths{
		DataDir:   dataDir,
		InputDir:  under(cfg.InputDir),
		OutputDir: under(cfg.OutputDir),
		ImagesDir: under(cfg.ImagesDir),
		ModelsDir: under(cfg.ModelsDir),
		LogsDir:   under(cfg.LogsDir),
	}, nil
}

// EnsureDirectories creates the directories a run writes to
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.OutputDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// InputPath returns the path of a raw input file
func (p *Paths) InputPath(filename string) string {
	return filepath.Join(p.InputDir, filename)
}

// OutputPath returns the path of a processed output file
func (p *Paths) OutputPath(filename string) string {
	return filepath.Join(p.OutputDir, filename)
}

// LogPath returns the path of a log file
func (p *Paths) LogPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.LogsDir, filename)
}

// ModelDir returns the model directory of one product group
func (p *Paths) ModelDir(name string) string {
	return filepath.Join(p.ModelsDir, name)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved directories at debug level
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Path resolution summary",
		slog.Group("directories",
			slog.String("data", p.DataDir),
			slog.String("input", p.InputDir),
			slog.String("output", p.OutputDir),
			slog.String("images", p.ImagesDir),
			slog.String("models", p.ModelsDir),
			slog.String("logs", p.LogsDir),
		))
}
