package operations

import (
	"time"
)

// Step timeouts. The timeout covers every attempt of a step.
const (
	DefaultStepTimeout = 10 * time.Minute
	IOStepTimeout      = 30 * time.Minute
)

// Config controls how the manager runs the scheduled steps
type Config struct {
	// Timeout bounds a step without an entry in StepTimeouts
	Timeout      time.Duration            `json:"timeout"`
	StepTimeouts map[string]time.Duration `json:"step_timeouts,omitempty"`

	Retry RetryConfig `json:"retry"`

	// ContinueOnError keeps independent steps running after a failure.
	// Steps that depend on the failed one are always skipped.
	ContinueOnError bool `json:"continue_on_error"`
}

// RetryConfig is the exponential backoff applied to retryable step errors
type RetryConfig struct {
	MaxAttempts  int           `json:"max_attempts"`
	InitialDelay time.Duration `json:"initial_delay"`
	MaxDelay     time.Duration `json:"max_delay"`
	Multiplier   float64       `json:"multiplier"`
}

// NewRetryConfig returns the default retry configuration. Only errors marked
// retryable are retried; feature steps never are.
func NewRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// NewConfig returns the default configuration. Load and export read and
// write files and get IOStepTimeout.
func NewConfig() *Config {
	return &Config{
		Timeout: DefaultStepTimeout,
		StepTimeouts: map[string]time.Duration{
			StepIDLoad:   IOStepTimeout,
			StepIDExport: IOStepTimeout,
		},
		Retry: NewRetryConfig(),
	}
}

// TimeoutFor returns the timeout of stepID
func (c *Config) TimeoutFor(stepID string) time.Duration {
	if d, ok := c.StepTimeouts[stepID]; ok && d > 0 {
		return d
	}
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultStepTimeout
}

// WithStepTimeout overrides the timeout of stepID and returns c
func (c *Config) WithStepTimeout(stepID string, d time.Duration) *Config {
	if c.StepTimeouts == nil {
		c.StepTimeouts = make(map[string]time.Duration)
	}
	c.StepTimeouts[stepID] = d
	return c
}
