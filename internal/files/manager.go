package files

import (
	"log/slog"

	"github.com/meganhong98/demand-forecasting/internal/config"
)

// Manager ties the file helpers to the resolved directories of a run
type Manager struct {
	paths     *config.Paths
	logger    *slog.Logger
	discovery *Discovery
	validator *FileValidator
}

// NewManager creates a new file manager instance
func NewManager(paths *config.Paths, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "files")
	return &Manager{
		paths:     paths,
		logger:    logger,
		discovery: NewDiscovery(paths.DataDir),
		validator: NewFileValidator(logger),
	}
}

// Paths returns the directories the manager works in
func (m *Manager) Paths() *config.Paths {
	return m.paths
}

// Validator returns the file validator
func (m *Manager) Validator() *FileValidator {
	return m.validator
}

// InputTable resolves and validates a raw input table by file name
func (m *Manager) InputTable(name string) (string, error) {
	path, err := m.discovery.ResolveTable(m.paths.InputDir, name)
	if err != nil {
		m.logger.Error("Input table not found",
			slog.String("name", name),
			slog.String("input_dir", m.paths.InputDir))
		return "", err
	}
	if err := m.validator.ValidateTableFile(path); err != nil {
		return "", err
	}
	m.logger.Debug("Input table resolved",
		slog.String("name", name),
		slog.String("full_path", path))
	return path, nil
}

// Images returns a resolver for the configured images directory
func (m *Manager) Images() *ImageResolver {
	return NewImageResolver(m.paths.ImagesDir, m.logger)
}

// GroupDir returns the model directory of a product group
func (m *Manager) GroupDir(productGroup string) string {
	return m.paths.ModelDir(ProcessName(productGroup))
}

// Hyperparameters loads the best hyperparameters of a product group
func (m *Manager) Hyperparameters(productGroup string) (map[string]any, bool) {
	return LoadBestHyperparameters(m.GroupDir(productGroup), m.logger)
}

// ModelGroups lists the product group directories holding hyperparameters
func (m *Manager) ModelGroups() ([]FileInfo, error) {
	return m.discovery.FindModelGroups(m.paths.ModelsDir)
}
