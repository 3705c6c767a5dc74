package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures records and attributes", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("step completed", slog.String("step", "age_bins"), slog.Int("rows", 12))
		logger.Error("step failed")

		records := handler.GetRecords()
		require.Len(t, records, 2)
		assert.True(t, handler.ContainsMessage("step completed"))
		assert.True(t, handler.ContainsAttr("step", "age_bins"))
		assert.True(t, handler.ContainsAttr("rows", int64(12)))
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Debug("debug")
		logger.Info("info")
		logger.Warn("warn")
		logger.Error("error")

		assert.Len(t, handler.GetRecordsByLevel(slog.LevelInfo), 1)
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelError), 1)
		AssertLogContains(t, handler, slog.LevelWarn, "warn")
	})

	t.Run("derived loggers share records and keep attrs", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With(slog.String("trace_id", "abc")).WithGroup("table").Info("loaded", slog.Int("rows", 3))

		require.Equal(t, 1, handler.Count())
		AssertLogAttr(t, handler, "trace_id", "abc")
		AssertLogAttr(t, handler, "table.rows", int64(3))
	})

	t.Run("group attributes are flattened", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("paths", slog.Group("directories", slog.String("data", "/d")))

		AssertLogAttr(t, handler, "directories.data", "/d")
	})

	t.Run("clear", func(t *testing.T) {
		logger, handler := NewTestLogger(nil)

		logger.Info("one")
		logger.Info("two")
		assert.Equal(t, 2, handler.Count())

		handler.Clear()
		assert.Equal(t, 0, handler.Count())
		AssertNoErrors(t, handler)
	})
}
