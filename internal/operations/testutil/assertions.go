package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meganhong98/demand-forecasting/internal/operations"
)

// StepSummary returns the summary of one step from a response
func StepSummary(t *testing.T, resp *operations.OperationResponse, stepID string) operations.StepSummary {
	t.Helper()
	require.NotNil(t, resp, "operation response is nil")
	for _, s := range resp.Steps {
		if s.ID == stepID {
			return s
		}
	}
	require.Failf(t, "step not in response", "step %s", stepID)
	return operations.StepSummary{}
}

// AssertStepStatus verifies a step has the expected status
func AssertStepStatus(t *testing.T, resp *operations.OperationResponse, stepID string, expected operations.StepStatus) {
	t.Helper()
	assert.Equal(t, expected, StepSummary(t, resp, stepID).Status, "status of step %s", stepID)
}

// AssertStepOrder verifies the steps ran in the expected order
func AssertStepOrder(t *testing.T, steps []*MockStage, expectedOrder []string) {
	t.Helper()
	byID := make(map[string]*MockStage, len(steps))
	for _, s := range steps {
		byID[s.ID()] = s
	}
	for i := 1; i < len(expectedOrder); i++ {
		prev, next := byID[expectedOrder[i-1]], byID[expectedOrder[i]]
		require.NotEmpty(t, prev.ExecuteTimes, "step %s did not run", prev.ID())
		require.NotEmpty(t, next.ExecuteTimes, "step %s did not run", next.ID())
		assert.False(t, next.ExecuteTimes[0].Before(prev.ExecuteTimes[0]),
			"step %s ran before %s", next.ID(), prev.ID())
	}
}

// AssertErrorType verifies the operation error type of err
func AssertErrorType(t *testing.T, err error, expected operations.ErrorType) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, expected, operations.GetErrorType(err))
}
