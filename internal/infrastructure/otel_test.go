package infrastructure

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meganhong98/demand-forecasting/internal/config"
	"github.com/meganhong98/demand-forecasting/internal/shared/testutil"
)

func TestInitializeOTel(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	providers, err := InitializeOTel(&OTelConfig{ServiceName: "test", TraceExporter: "none", EnableMetrics: true}, logger)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	assert.Nil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Registry)
}

func TestInitializeOTel_StdoutTracing(t *testing.T) {
	providers, err := InitializeOTel(OTelConfigFrom(config.TelemetryConfig{ServiceName: "test", Tracing: "stdout"}, "dev"), nil)
	require.NoError(t, err)

	require.NotNil(t, providers.TracerProvider)
	_, span := providers.Tracer.Start(context.Background(), "step")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestInitializeOTel_UnknownExporter(t *testing.T) {
	_, err := InitializeOTel(&OTelConfig{TraceExporter: "jaeger"}, nil)
	assert.Error(t, err)
}

func TestWriteMetricsTextfile(t *testing.T) {
	providers, err := InitializeOTel(nil, nil)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := NewPipelineMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordStep(ctx, "age_bins", 25*time.Millisecond, nil)
	metrics.RecordStep(ctx, "load", time.Second, assert.AnError)
	metrics.RecordRows(ctx, "customers", "read", 42)
	metrics.RecordRun(ctx, 2*time.Second, nil)

	path := filepath.Join(t.TempDir(), "featurize.prom")
	require.NoError(t, providers.WriteMetricsTextfile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, "pipeline_step_executions_total")
	assert.Contains(t, text, "pipeline_step_errors_total")
	assert.Contains(t, text, "pipeline_rows_total")
	assert.Contains(t, text, `step_id="age_bins"`)
}

func TestWriteMetricsTextfile_Disabled(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{TraceExporter: "none"}, nil)
	require.NoError(t, err)
	assert.Error(t, providers.WriteMetricsTextfile(filepath.Join(t.TempDir(), "x.prom")))
}

func TestPipelineMetrics_NilSafe(t *testing.T) {
	var m *PipelineMetrics
	assert.NotPanics(t, func() {
		m.RecordStep(context.Background(), "s", time.Second, nil)
		m.RecordRows(context.Background(), "t", "read", 1)
		m.RecordRun(context.Background(), time.Second, nil)
	})
}

func TestSpanHelpers_NoRecordingSpan(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordError(context.Background(), assert.AnError)
		SetSpanAttributes(context.Background(), map[string]interface{}{"rows": 1})
	})
}
