package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meganhong98/demand-forecasting/internal/config"
)

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "logs", "featurize.log")
	cfg := config.LoggingConfig{Level: "info", Output: "file"}

	logger, err := InitializeLogger(cfg, logFile)
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Same(t, logger, GetLogger())

	logger.Info("test message", "key", "value")
	logger.Debug("hidden")
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestInitializeLogger_OnlyOnce(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	first, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "console"}, "")
	require.NoError(t, err)
	second, err := InitializeLogger(config.LoggingConfig{Level: "debug", Output: "console"}, "")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestTraceHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("debug", &buf)

	ctx := WithTraceID(context.Background(), "run-123")
	logger.InfoContext(ctx, "step started", "step", "age_bins")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "run-123", entry["trace_id"])
	assert.Equal(t, "age_bins", entry["step"])

	buf.Reset()
	logger.With("component", "loader").WithGroup("table").InfoContext(ctx, "loaded", "rows", 3)
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "loader", entry["component"])
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", "DEBUG"},
		{"INFO", "INFO"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"bogus", "INFO"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in).String(), tt.in)
	}
}

func TestTraceIDs(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	ctx = EnsureTraceID(ctx)
	id := GetTraceID(ctx)
	assert.Len(t, id, 36)

	assert.Equal(t, id, GetTraceID(EnsureTraceID(ctx)), "existing trace id is kept")
	assert.NotEqual(t, GenerateTraceID(), GenerateTraceID())
}

func TestLoggerHelpers(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger("info", &buf)

	WithComponent(base, "exporter").Info("hello")
	assert.Contains(t, buf.String(), `"component":"exporter"`)

	buf.Reset()
	assert.Same(t, base, WithError(base, nil))
	WithError(base, assert.AnError).Info("failed")
	assert.Contains(t, buf.String(), assert.AnError.Error())

	buf.Reset()
	LoggerWithContext(WithTraceID(context.Background(), "t-1"), base).Info("x")
	assert.Contains(t, buf.String(), `"trace_id":"t-1"`)
}
