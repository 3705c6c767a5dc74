package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meganhong98/demand-forecasting/internal/shared/testutil"
)

func TestResolvePaths(t *testing.T) {
	root := t.TempDir()
	absImages := filepath.Join(t.TempDir(), "imgs")

	paths, err := ResolvePaths(PathsConfig{
		DataDir:   root,
		InputDir:  "raw",
		OutputDir: "processed",
		ImagesDir: absImages,
		ModelsDir: "models",
		LogsDir:   "logs",
	})
	require.NoError(t, err)

	assert.Equal(t, root, paths.DataDir)
	assert.Equal(t, filepath.Join(root, "raw"), paths.InputDir)
	assert.Equal(t, filepath.Join(root, "processed"), paths.OutputDir)
	assert.Equal(t, absImages, paths.ImagesDir)
	assert.Equal(t, filepath.Join(root, "models", "Trousers_Black_Solid"), paths.ModelDir("Trousers_Black_Solid"))
	assert.Equal(t, filepath.Join(root, "raw", "customers.csv"), paths.InputPath("customers.csv"))
	assert.Equal(t, filepath.Join(root, "processed", "articles.csv"), paths.OutputPath("articles.csv"))
	assert.Equal(t, filepath.Join(root, "logs", "run.log"), paths.LogPath("run.log"))
}

func TestResolvePaths_RelativeDataDir(t *testing.T) {
	chdirTemp(t)
	wd, err := os.Getwd()
	require.NoError(t, err)

	paths, err := ResolvePaths(Default().Paths)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(paths.DataDir))
	assert.Equal(t, filepath.Join(wd, DefaultDataDir), paths.DataDir)
}

func TestEnsureDirectories(t *testing.T) {
	paths, err := ResolvePaths(PathsConfig{DataDir: t.TempDir(), OutputDir: "out", LogsDir: "logs"})
	require.NoError(t, err)

	require.NoError(t, paths.EnsureDirectories())
	assert.DirExists(t, paths.OutputDir)
	assert.DirExists(t, paths.LogsDir)
	assert.True(t, FileExists(paths.OutputDir))
	assert.False(t, FileExists(filepath.Join(paths.OutputDir, "missing.csv")))
}

func TestLogPathResolution(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)

	paths, err := ResolvePaths(PathsConfig{DataDir: t.TempDir()})
	require.NoError(t, err)
	paths.LogPathResolution(logger)

	testutil.AssertLogContains(t, handler, slog.LevelDebug, "Path resolution summary")
}
