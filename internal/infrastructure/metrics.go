package infrastructure

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics holds the instruments recorded by a pipeline run
type PipelineMetrics struct {
	StepExecutions metric.Int64Counter
	StepDuration   metric.Float64Histogram
	StepErrors     metric.Int64Counter
	RowsProcessed  metric.Int64Counter
	RunDuration    metric.Float64Histogram
	HeapAlloc      metric.Int64Gauge
}

// NewPipelineMetrics creates the pipeline instruments on meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	stepExecutions, err := meter.Int64Counter(
		"pipeline_step_executions_total",
		metric.WithDescription("Total number of pipeline step executions"),
	)
	if err != nil {
		return nil, err
	}

	stepDuration, err := meter.Float64Histogram(
		"pipeline_step_duration_seconds",
		metric.WithDescription("Pipeline step duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	stepErrors, err := meter.Int64Counter(
		"pipeline_step_errors_total",
		metric.WithDescription("Total number of failed pipeline steps"),
	)
	if err != nil {
		return nil, err
	}

	rowsProcessed, err := meter.Int64Counter(
		"pipeline_rows_total",
		metric.WithDescription("Rows read or written per table"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Histogram(
		"pipeline_run_duration_seconds",
		metric.WithDescription("End-to-end pipeline run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	heapAlloc, err := meter.Int64Gauge(
		"pipeline_heap_alloc_bytes",
		metric.WithDescription("Heap bytes allocated after a step"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		StepExecutions: stepExecutions,
		StepDuration:   stepDuration,
		StepErrors:     stepErrors,
		RowsProcessed:  rowsProcessed,
		RunDuration:    runDuration,
		HeapAlloc:      heapAlloc,
	}, nil
}

func statusAttr(err error) attribute.KeyValue {
	if err != nil {
		return attribute.String("status", "failure")
	}
	return attribute.String("status", "success")
}

// RecordStep records one step execution and the heap size after it
func (m *PipelineMetrics) RecordStep(ctx context.Context, stepID string, duration time.Duration, err error) {
	if m == nil {
		return
	}

	step := attribute.String("step.id", stepID)
	m.StepExecutions.Add(ctx, 1, metric.WithAttributes(step, statusAttr(err)))
	m.StepDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(step, statusAttr(err)))
	if err != nil {
		m.StepErrors.Add(ctx, 1, metric.WithAttributes(step))
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	m.HeapAlloc.Record(ctx, int64(mem.HeapAlloc), metric.WithAttributes(step))
}

// RecordRows records the row count of a table at a pipeline boundary,
// direction being "read" or "written".
func (m *PipelineMetrics) RecordRows(ctx context.Context, table, direction string, rows int) {
	if m == nil {
		return
	}
	m.RowsProcessed.Add(ctx, int64(rows), metric.WithAttributes(
		attribute.String("table", table),
		attribute.String("direction", direction),
	))
}

// RecordRun records the duration of a whole run
func (m *PipelineMetrics) RecordRun(ctx context.Context, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.RunDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(statusAttr(err)))
}
