package operations_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meganhong98/demand-forecasting/internal/operations"
	"github.com/meganhong98/demand-forecasting/internal/operations/testutil"
	"github.com/meganhong98/demand-forecasting/pkg/contracts/domain"
)

func TestStepStateTransitions(t *testing.T) {
	s := operations.NewStepState("load", "Load")
	assert.Equal(t, operations.StepStatusPending, s.GetStatus())
	assert.Equal(t, -1, s.Rows)
	assert.Zero(t, s.Duration())

	s.Start()
	assert.Equal(t, operations.StepStatusActive, s.GetStatus())

	s.Fail(errors.New("first attempt"))
	assert.Equal(t, operations.StepStatusFailed, s.GetStatus())
	assert.Error(t, s.Error)

	s.Start()
	assert.NoError(t, s.Error, "a new attempt clears the previous error")
	s.SetRows(42)
	s.SetMetadata("files", 3)
	s.Complete()

	assert.Equal(t, operations.StepStatusCompleted, s.GetStatus())
	assert.Equal(t, 42, s.Rows)
	assert.Equal(t, 3, s.Metadata["files"])
	assert.GreaterOrEqual(t, int64(s.Duration()), int64(0))
}

func TestOperationStateLifecycle(t *testing.T) {
	state := testutil.CreateTestOperationState("op-1")
	assert.Equal(t, operations.OperationStatusPending, state.GetStatus())
	assert.Equal(t, testutil.ReferenceDate, state.ReferenceDate)
	assert.Nil(t, state.Dataset())

	state.SetStage("b", operations.NewStepState("b", "B"))
	state.SetStage("a", operations.NewStepState("a", "A"))
	state.Start()
	assert.Equal(t, operations.OperationStatusRunning, state.GetStatus())
	assert.False(t, state.IsComplete())

	state.GetStage("b").Complete()
	state.GetStage("a").Skip("not needed")
	assert.True(t, state.IsComplete())
	assert.False(t, state.HasFailures())

	summaries := state.Summaries()
	require.Len(t, summaries, 2)
	assert.Equal(t, "b", summaries[0].ID, "summaries keep schedule order")
	assert.Equal(t, "not needed", summaries[1].Message)
	assert.Len(t, state.GetCompletedStages(), 1)
	assert.Len(t, state.GetSkippedStages(), 1)

	state.Fail(errors.New("export failed"))
	assert.Equal(t, operations.OperationStatusFailed, state.GetStatus())
	assert.EqualError(t, state.Error, "export failed")
}

func TestOperationStateData(t *testing.T) {
	state := testutil.CreateTestOperationState("op-2")

	ds := &domain.Dataset{Articles: []domain.Article{{ArticleID: "a1"}}}
	state.SetDataset(ds)
	assert.Same(t, ds, state.Dataset())

	state.AddOutputs("out/a.csv", "out/b.csv")
	outputs := state.Outputs()
	outputs[0] = "mutated"
	assert.Equal(t, []string{"out/a.csv", "out/b.csv"}, state.Outputs())

	state.SetContext(operations.ContextKeyMedianAge, 45.0)
	v, ok := state.GetContext(operations.ContextKeyMedianAge)
	assert.True(t, ok)
	assert.Equal(t, 45.0, v)

	_, ok = state.GetConfig(operations.ContextKeyTopN)
	assert.False(t, ok)
}
