package operations

import (
	"sync"
	"time"

	"github.com/meganhong98/demand-forecasting/pkg/contracts/domain"
)

// OperationStatusValue represents the overall operation status enum
type OperationStatusValue string

const (
	OperationStatusPending   OperationStatusValue = "pending"
	OperationStatusRunning   OperationStatusValue = "running"
	OperationStatusCompleted OperationStatusValue = "completed"
	OperationStatusFailed    OperationStatusValue = "failed"
	OperationStatusCancelled OperationStatusValue = "cancelled"
)

// OperationState represents the complete state of one pipeline run
type OperationState struct {
	mu sync.RWMutex

	ID        string               `json:"id"`
	Status    OperationStatusValue `json:"status"`
	StartTime time.Time            `json:"start_time"`
	EndTime   *time.Time           `json:"end_time,omitempty"`

	// ReferenceDate anchors every elapsed-day feature of the run
	ReferenceDate time.Time `json:"reference_date"`

	// Step states, and the order the steps were scheduled in
	Steps map[string]*StepState `json:"steps"`
	order []string

	// Small values passed between steps and into the run report
	Context map[string]interface{} `json:"context"`

	// Configuration passed from the request
	Config map[string]interface{} `json:"config"`

	data    *domain.Dataset
	outputs []string

	Error error `json:"error,omitempty"`
}

// NewOperationState creates a new operation state
func NewOperationState(id string, referenceDate time.Time) *OperationState {
	return &OperationState{
		ID:            id,
		Status:        OperationStatusPending,
		StartTime:     time.Now(),
		ReferenceDate: referenceDate,
		Steps:         make(map[string]*StepState),
		Context:       make(map[string]interface{}),
		Config:        make(map[string]interface{}),
	}
}

// Start marks the operation as running
func (p *OperationState) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Status = OperationStatusRunning
	p.StartTime = time.Now()
}

// Complete marks the operation as completed
func (p *OperationState) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusCompleted
}

// Fail marks the operation as failed
func (p *OperationState) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusFailed
	p.Error = err
}

// Cancel marks the operation as cancelled
func (p *OperationState) Cancel(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusCancelled
	p.Error = err
}

// GetStatus returns the current status
func (p *OperationState) GetStatus() OperationStatusValue {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Status
}

// GetStage returns the state of a specific Step
func (p *OperationState) GetStage(stageID string) *StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Steps[stageID]
}

// SetStage updates the state of a specific Step
func (p *OperationState) SetStage(stageID string, state *StepState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.Steps[stageID]; !exists {
		p.order = append(p.order, stageID)
	}
	p.Steps[stageID] = state
}

// Dataset returns the tables of the run, nil before loading
func (p *OperationState) Dataset() *domain.Dataset {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.data
}

// SetDataset replaces the tables of the run
func (p *OperationState) SetDataset(ds *domain.Dataset) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data = ds
}

// AddOutputs records files written by the run
func (p *OperationState) AddOutputs(paths ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.outputs = append(p.outputs, paths...)
}

// Outputs returns the files written so far
func (p *OperationState) Outputs() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, len(p.outputs))
	copy(out, p.outputs)
	return out
}

// GetContext retrieves a value from the operation context
func (p *OperationState) GetContext(key string) (interface{}, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	val, ok := p.Context[key]
	return val, ok
}

// SetContext sets a value in the operation context
func (p *OperationState) SetContext(key string, value interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Context[key] = value
}

// GetConfig retrieves a configuration value
func (p *OperationState) GetConfig(key string) (interface{}, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	val, ok := p.Config[key]
	return val, ok
}

// SetConfig sets a configuration value
func (p *OperationState) SetConfig(key string, value interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Config[key] = value
}

// Duration returns the duration of the operation execution
func (p *OperationState) Duration() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.EndTime != nil {
		return p.EndTime.Sub(p.StartTime)
	}
	return time.Since(p.StartTime)
}

// stagesWithStatus returns the steps in a given status, in schedule order
func (p *OperationState) stagesWithStatus(status StepStatus) []*StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []*StepState
	for _, id := range p.order {
		if s := p.Steps[id]; s.GetStatus() == status {
			out = append(out, s)
		}
	}
	return out
}

// GetCompletedStages returns all completed steps
func (p *OperationState) GetCompletedStages() []*StepState {
	return p.stagesWithStatus(StepStatusCompleted)
}

// GetFailedStages returns all failed steps
func (p *OperationState) GetFailedStages() []*StepState {
	return p.stagesWithStatus(StepStatusFailed)
}

// GetSkippedStages returns all skipped steps
func (p *OperationState) GetSkippedStages() []*StepState {
	return p.stagesWithStatus(StepStatusSkipped)
}

// IsComplete returns true if all steps are completed or skipped
func (p *OperationState) IsComplete() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, s := range p.Steps {
		status := s.GetStatus()
		if status == StepStatusPending || status == StepStatusActive {
			return false
		}
	}
	return true
}

// HasFailures returns true if any Step has failed
func (p *OperationState) HasFailures() bool {
	return len(p.GetFailedStages()) > 0
}

// Summaries reports every scheduled step in schedule order
func (p *OperationState) Summaries() []StepSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]StepSummary, 0, len(p.order))
	for _, id := range p.order {
		s := p.Steps[id]
		s.mu.RLock()
		summary := StepSummary{
			ID:      s.ID,
			Name:    s.Name,
			Status:  s.Status,
			Rows:    s.Rows,
			Message: s.Message,
		}
		if s.Error != nil {
			summary.Error = s.Error.Error()
		}
		s.mu.RUnlock()
		summary.Duration = s.Duration()
		out = append(out, summary)
	}
	return out
}
