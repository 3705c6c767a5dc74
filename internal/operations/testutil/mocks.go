package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/meganhong98/demand-forecasting/internal/operations"
	"github.com/meganhong98/demand-forecasting/pkg/contracts/domain"
)

// MockStage is a configurable mock implementation of the step interface
type MockStage struct {
	IDValue           string
	NameValue         string
	DependenciesValue []string

	// Configurable functions
	ExecuteFunc  func(ctx context.Context, state *operations.OperationState) error
	ValidateFunc func(state *operations.OperationState) error

	// Call tracking
	mu            sync.Mutex
	ExecuteCalls  int
	ExecuteTimes  []time.Time
	ValidateCalls int
}

// ID returns the step ID
func (m *MockStage) ID() string {
	return m.IDValue
}

// Name returns the step name
func (m *MockStage) Name() string {
	return m.NameValue
}

// GetDependencies returns the step dependencies
func (m *MockStage) GetDependencies() []string {
	if m.DependenciesValue == nil {
		return []string{}
	}
	return m.DependenciesValue
}

// Execute runs the mock execute function
func (m *MockStage) Execute(ctx context.Context, state *operations.OperationState) error {
	m.mu.Lock()
	m.ExecuteCalls++
	m.ExecuteTimes = append(m.ExecuteTimes, time.Now())
	m.mu.Unlock()

	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, state)
	}
	return nil
}

// Validate runs the mock validate function
func (m *MockStage) Validate(state *operations.OperationState) error {
	m.mu.Lock()
	m.ValidateCalls++
	m.mu.Unlock()

	if m.ValidateFunc != nil {
		return m.ValidateFunc(state)
	}
	return nil
}

// GetExecuteCalls returns the number of Execute calls
func (m *MockStage) GetExecuteCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ExecuteCalls
}

// GetValidateCalls returns the number of Validate calls
func (m *MockStage) GetValidateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ValidateCalls
}

// MockLoader returns a fixed dataset, or a fixed error
type MockLoader struct {
	Dataset *domain.Dataset
	Err     error

	mu    sync.Mutex
	Calls int
}

// Load returns a copy of the configured dataset
func (m *MockLoader) Load(ctx context.Context) (*domain.Dataset, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ds := *m.Dataset
	ds.Derived = make(map[domain.Feature]bool, len(m.Dataset.Derived))
	for f, ok := range m.Dataset.Derived {
		ds.Derived[f] = ok
	}
	return &ds, nil
}
