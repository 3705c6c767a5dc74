package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/meganhong98/demand-forecasting/internal/infrastructure"
)

// Manager runs the registered steps of the pipeline
type Manager struct {
	registry *Registry
	config   *Config
	logger   *slog.Logger
	tracer   *OperationTracer
}

// NewManager creates a new operation manager. Any argument may be nil.
func NewManager(registry *Registry, config *Config, logger *slog.Logger, tracer *OperationTracer) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	if config == nil {
		config = NewConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = NewOperationTracer(nil, nil)
	}
	return &Manager{
		registry: registry,
		config:   config,
		logger:   logger.With("component", "operations"),
		tracer:   tracer,
	}
}

// RegisterStage registers a Step with the operation
func (m *Manager) RegisterStage(step Step) error {
	return m.registry.Register(step)
}

// GetRegistry returns the registry for accessing registered stages
func (m *Manager) GetRegistry() *Registry {
	return m.registry
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *Config {
	return m.config
}

// Execute runs the requested steps in dependency order over one shared state
func (m *Manager) Execute(ctx context.Context, req OperationRequest) (*OperationResponse, error) {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if req.ReferenceDate.IsZero() {
		now := time.Now().UTC()
		req.ReferenceDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	ctx = infrastructure.EnsureTraceID(ctx)

	state := NewOperationState(req.ID, req.ReferenceDate)
	for k, v := range req.Parameters {
		state.SetConfig(k, v)
	}

	ctx, span := m.tracer.TraceOperation(ctx, req.ID, req)
	defer span.End()

	steps, err := m.registry.Select(req.Steps)
	if err != nil {
		m.logOperationError(ctx, req.ID, err)
		state.Fail(err)
		m.tracer.RecordOperationCompletion(ctx, span, state, err)
		return m.createResponse(state), err
	}

	for _, step := range steps {
		state.SetStage(step.ID(), NewStepState(step.ID(), step.Name()))
	}

	m.logOperationStart(ctx, req, len(steps))
	state.Start()

	err = m.executeSequential(ctx, state, steps)
	switch {
	case err == nil:
		state.Complete()
	case GetErrorType(err) == ErrorTypeCancellation:
		state.Cancel(err)
	default:
		state.Fail(err)
	}

	m.tracer.RecordOperationCompletion(ctx, span, state, err)
	m.logOperationComplete(ctx, state)
	return m.createResponse(state), err
}

// executeSequential executes steps one by one
func (m *Manager) executeSequential(ctx context.Context, state *OperationState, steps []Step) error {
	var firstErr error
	for i, step := range steps {
		stepState := state.GetStage(step.ID())

		if err := ctx.Err(); err != nil {
			m.logger.WarnContext(ctx, "operation_cancelled",
				slog.String("operation_id", state.ID),
				slog.String("step", step.ID()))
			m.skipRemaining(state, steps[i:], "operation cancelled")
			return NewCancellationError(step.ID(), err)
		}

		if stepState.GetStatus() == StepStatusSkipped {
			m.logger.InfoContext(ctx, "stage_skipped",
				slog.String("operation_id", state.ID),
				slog.String("step", step.ID()),
				slog.String("reason", stepState.Message))
			continue
		}

		m.logger.InfoContext(ctx, "executing_stage",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.Int("stage_number", i+1),
			slog.Int("total_stages", len(steps)))

		if err := m.executeStage(ctx, state, step); err != nil {
			m.logStageError(ctx, state.ID, step.ID(), err)
			m.skipDependentStages(state, steps, step.ID())
			if GetErrorType(err) == ErrorTypeCancellation || !m.config.ContinueOnError {
				m.skipRemaining(state, steps[i+1:], fmt.Sprintf("Step %s failed", step.ID()))
				return err
			}
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// executeStage executes a single Step with retry logic
func (m *Manager) executeStage(ctx context.Context, state *OperationState, step Step) error {
	stepState := state.GetStage(step.ID())
	if stepState == nil {
		return NewFatalError("step state not found", nil)
	}

	if err := m.checkDependencies(state, step); err != nil {
		stepState.Skip(fmt.Sprintf("Dependencies not met: %v", err))
		return err
	}

	if err := step.Validate(state); err != nil {
		verr := NewValidationError(step.ID(), err.Error())
		stepState.Fail(verr)
		return verr
	}

	timeout := m.config.TimeoutFor(step.ID())
	stageCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	retryConfig := m.config.Retry
	if retryConfig.MaxAttempts < 1 {
		retryConfig.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= retryConfig.MaxAttempts; attempt++ {
		stepState.Start()
		m.logStageStart(ctx, state.ID, step.ID(), attempt)

		spanCtx, span := m.tracer.TraceStep(stageCtx, state.ID, step, attempt)
		startTime := time.Now()
		err := step.Execute(spanCtx, state)
		duration := time.Since(startTime)
		m.tracer.RecordStepCompletion(spanCtx, span, step.ID(), duration, stepState.Rows, err)
		span.End()

		if err == nil {
			stepState.Complete()
			m.logStageComplete(ctx, state.ID, stepState)
			return nil
		}
		lastErr = err

		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			terr := NewTimeoutError(step.ID(), timeout.String())
			stepState.Fail(terr)
			return terr
		}
		if ctx.Err() != nil {
			cerr := NewCancellationError(step.ID(), ctx.Err())
			stepState.Fail(cerr)
			return cerr
		}
		if !IsRetryable(err) || attempt >= retryConfig.MaxAttempts {
			stepState.Fail(err)
			return WrapError(err, step.ID(), "step execution failed")
		}

		delay := m.calculateRetryDelay(attempt, retryConfig)
		m.logger.WarnContext(ctx, "stage_retry",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", retryConfig.MaxAttempts),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()))

		select {
		case <-time.After(delay):
		case <-stageCtx.Done():
			terr := NewTimeoutError(step.ID(), timeout.String())
			if ctx.Err() != nil {
				terr = NewCancellationError(step.ID(), ctx.Err())
			}
			stepState.Fail(terr)
			return terr
		}
	}

	stepState.Fail(lastErr)
	return WrapError(lastErr, step.ID(), "step execution failed after retries")
}

// skipDependentStages marks all steps that depend on the failed Step as skipped
func (m *Manager) skipDependentStages(state *OperationState, steps []Step, failedStageID string) {
	for _, step := range steps {
		for _, dep := range orderingDependencies(step) {
			if dep != failedStageID {
				continue
			}
			stepState := state.GetStage(step.ID())
			if stepState != nil && stepState.GetStatus() == StepStatusPending {
				stepState.Skip(fmt.Sprintf("Dependency %s failed", failedStageID))
				m.skipDependentStages(state, steps, step.ID())
			}
			break
		}
	}
}

// skipRemaining marks every pending step as skipped
func (m *Manager) skipRemaining(state *OperationState, steps []Step, reason string) {
	for _, step := range steps {
		if s := state.GetStage(step.ID()); s != nil && s.GetStatus() == StepStatusPending {
			s.Skip(reason)
		}
	}
}

// checkDependencies verifies that all dependencies are satisfied
func (m *Manager) checkDependencies(state *OperationState, step Step) error {
	for _, dep := range step.GetDependencies() {
		depState := state.GetStage(dep)
		if depState == nil {
			return NewDependencyError(step.ID(), dep, fmt.Sprintf("dependency %s not scheduled", dep))
		}
		if status := depState.GetStatus(); status != StepStatusCompleted {
			return NewDependencyError(step.ID(), dep, fmt.Sprintf("dependency %s not completed (status: %s)", dep, status))
		}
	}
	if f, ok := step.(Finalizer); ok {
		// steps left out of the run are not waited for
		for _, dep := range f.After() {
			depState := state.GetStage(dep)
			if depState == nil {
				continue
			}
			if status := depState.GetStatus(); status != StepStatusCompleted {
				return NewDependencyError(step.ID(), dep, fmt.Sprintf("dependency %s not completed (status: %s)", dep, status))
			}
		}
	}
	return nil
}

// calculateRetryDelay calculates the delay before next retry
func (m *Manager) calculateRetryDelay(attempt int, config RetryConfig) time.Duration {
	delay := config.InitialDelay
	for i := 1; i < attempt; i++ {
		delay = time.Duration(float64(delay) * config.Multiplier)
	}
	if config.MaxDelay > 0 && delay > config.MaxDelay {
		delay = config.MaxDelay
	}
	return delay
}

// createResponse creates an operation response from state
func (m *Manager) createResponse(state *OperationState) *OperationResponse {
	resp := &OperationResponse{
		ID:       state.ID,
		Status:   state.GetStatus(),
		Duration: state.Duration(),
		Steps:    state.Summaries(),
		Outputs:  state.Outputs(),
	}
	if ds := state.Dataset(); ds != nil {
		resp.Rows = ds.RowCounts()
	}
	if state.Error != nil {
		resp.Error = state.Error.Error()
	}
	return resp
}
