package operations_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/meganhong98/demand-forecasting/internal/operations"
)

func TestConfigTimeoutFor(t *testing.T) {
	config := operations.NewConfig()
	assert.Equal(t, operations.IOStepTimeout, config.TimeoutFor(operations.StepIDLoad))
	assert.Equal(t, operations.IOStepTimeout, config.TimeoutFor(operations.StepIDExport))
	assert.Equal(t, operations.DefaultStepTimeout, config.TimeoutFor(operations.StepIDAgeBins))

	config.Timeout = time.Minute
	config.WithStepTimeout(operations.StepIDGrouped, 5*time.Second)
	assert.Equal(t, time.Minute, config.TimeoutFor(operations.StepIDWeekly))
	assert.Equal(t, 5*time.Second, config.TimeoutFor(operations.StepIDGrouped))

	empty := &operations.Config{}
	assert.Equal(t, operations.DefaultStepTimeout, empty.TimeoutFor(operations.StepIDLoad))
}
