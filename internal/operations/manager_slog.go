package operations

import (
	"context"
	"log/slog"
)

func (m *Manager) logOperationStart(ctx context.Context, req OperationRequest, stepCount int) {
	m.logger.InfoContext(ctx, "operation_start",
		slog.String("operation_id", req.ID),
		slog.String("reference_date", req.ReferenceDate.Format("2006-01-02")),
		slog.Any("requested_steps", req.Steps),
		slog.Int("step_count", stepCount))
}

func (m *Manager) logOperationComplete(ctx context.Context, state *OperationState) {
	level := slog.LevelInfo
	if state.GetStatus() != OperationStatusCompleted {
		level = slog.LevelError
	}
	m.logger.Log(ctx, level, "operation_complete",
		slog.String("operation_id", state.ID),
		slog.String("status", string(state.GetStatus())),
		slog.Duration("duration", state.Duration()),
		slog.Int("steps_completed", len(state.GetCompletedStages())),
		slog.Int("steps_failed", len(state.GetFailedStages())),
		slog.Int("steps_skipped", len(state.GetSkippedStages())))
}

func (m *Manager) logOperationError(ctx context.Context, operationID string, err error) {
	m.logger.ErrorContext(ctx, "operation_error",
		slog.String("operation_id", operationID),
		slog.String("error", err.Error()))
}

func (m *Manager) logStageStart(ctx context.Context, operationID, stageID string, attempt int) {
	m.logger.DebugContext(ctx, "stage_start",
		slog.String("operation_id", operationID),
		slog.String("step", stageID),
		slog.Int("attempt", attempt))
}

func (m *Manager) logStageComplete(ctx context.Context, operationID string, s *StepState) {
	m.logger.InfoContext(ctx, "stage_complete",
		slog.String("operation_id", operationID),
		slog.String("step", s.ID),
		slog.Duration("duration", s.Duration()),
		slog.Int("rows", s.Rows))
}

func (m *Manager) logStageError(ctx context.Context, operationID, stageID string, err error) {
	m.logger.ErrorContext(ctx, "stage_error",
		slog.String("operation_id", operationID),
		slog.String("step", stageID),
		slog.String("error", err.Error()),
		slog.String("error_type", string(GetErrorType(err))))
}
