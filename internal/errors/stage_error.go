package errors

import (
	"fmt"
	"time"
)

// StageError reports which pipeline stage failed and why.
type StageError struct {
	Stage   string        `json:"stage"`
	Elapsed time.Duration `json:"elapsed"`
	Cause   error         `json:"cause,omitempty"`
}

// Error implements the error interface
func (e *StageError) Error() string {
	if e == nil {
		return "unknown stage error"
	}
	if e.Cause == nil {
		return fmt.Sprintf("stage %s failed", e.Stage)
	}
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Cause)
}

// Unwrap returns the underlying error
func (e *StageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewStageError binds a cause to the stage it came from.
func NewStageError(stage string, elapsed time.Duration, cause error) *StageError {
	return &StageError{
		Stage:   stage,
		Elapsed: elapsed,
		Cause:   cause,
	}
}

// PanicError wraps a value recovered from a panicking stage.
type PanicError struct {
	Value interface{}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
