package files

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meganhong98/demand-forecasting/internal/config"
)

func newTestManager(t *testing.T) (*Manager, *config.Paths) {
	t.Helper()
	paths, err := config.ResolvePaths(config.PathsConfig{
		DataDir:   t.TempDir(),
		InputDir:  "raw",
		OutputDir: "processed",
		ImagesDir: "images",
		ModelsDir: "models",
		LogsDir:   "logs",
	})
	require.NoError(t, err)
	return NewManager(paths, nil), paths
}

func TestManager_InputTable(t *testing.T) {
	m, paths := newTestManager(t)
	writeFile(t, filepath.Join(paths.InputDir, "articles.xlsx"), "x")

	path, err := m.InputTable("articles.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(paths.InputDir, "articles.xlsx"), path)

	_, err = m.InputTable("customers.csv")
	assert.Error(t, err)
}

func TestManager_Hyperparameters(t *testing.T) {
	m, paths := newTestManager(t)
	group := "Vest top Black Solid"
	assert.Equal(t, filepath.Join(paths.ModelsDir, "Vest_top_Black_Solid"), m.GroupDir(group))

	_, ok := m.Hyperparameters(group)
	assert.False(t, ok)

	writeFile(t, filepath.Join(m.GroupDir(group), HyperparametersFile), "lr\n0.1\n")
	params, ok := m.Hyperparameters(group)
	require.True(t, ok)
	assert.Equal(t, 0.1, params["lr"])

	groups, err := m.ModelGroups()
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Vest_top_Black_Solid", groups[0].Name)
}

func TestManager_Images(t *testing.T) {
	m, paths := newTestManager(t)
	writeFile(t, filepath.Join(paths.ImagesDir, "010", "0108775015.jpg"), "jpg")

	path, ok := m.Images().Resolve("0108775015")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(paths.ImagesDir, "010", "0108775015.jpg"), path)
}
