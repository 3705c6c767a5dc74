package operations

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/meganhong98/demand-forecasting/internal/infrastructure"
)

// TracerName names the spans of pipeline runs
const TracerName = "featurize.operation"

// OperationTracer provides OpenTelemetry instrumentation for pipeline runs
type OperationTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewOperationTracer creates a tracer from the run's providers. With nil
// providers spans are dropped and no metrics are recorded.
func NewOperationTracer(providers *infrastructure.OTelProviders, metrics *infrastructure.PipelineMetrics) *OperationTracer {
	var tracer trace.Tracer = noop.NewTracerProvider().Tracer(TracerName)
	if providers != nil && providers.Tracer != nil {
		tracer = providers.Tracer
	}
	return &OperationTracer{tracer: tracer, metrics: metrics}
}

// TraceOperation creates the root span of a run
func (pt *OperationTracer) TraceOperation(ctx context.Context, operationID string, req OperationRequest) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, "operation.execute",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
			attribute.String("operation.reference_date", req.ReferenceDate.Format("2006-01-02")),
			attribute.StringSlice("operation.steps", req.Steps),
		),
	)
}

// TraceStep creates a span for one step execution
func (pt *OperationTracer) TraceStep(ctx context.Context, operationID string, step Step, attempt int) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, "operation.step."+step.ID(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
			attribute.String("step.id", step.ID()),
			attribute.String("step.name", step.Name()),
			attribute.Int("step.attempt", attempt),
		),
	)
}

// RecordStepCompletion closes out a step span and records its metrics
func (pt *OperationTracer) RecordStepCompletion(ctx context.Context, span trace.Span, stepID string, duration time.Duration, rows int, err error) {
	span.SetAttributes(
		attribute.Float64("step.duration_seconds", duration.Seconds()),
		attribute.Int("step.rows", rows),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	pt.metrics.RecordStep(ctx, stepID, duration, err)
}

// RecordOperationCompletion closes out the root span of a run
func (pt *OperationTracer) RecordOperationCompletion(ctx context.Context, span trace.Span, state *OperationState, err error) {
	duration := state.Duration()
	span.SetAttributes(
		attribute.String("operation.status", string(state.GetStatus())),
		attribute.Float64("operation.duration_seconds", duration.Seconds()),
		attribute.Int("operation.steps_completed", len(state.GetCompletedStages())),
		attribute.Int("operation.steps_failed", len(state.GetFailedStages())),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	pt.metrics.RecordRun(ctx, duration, err)
}
