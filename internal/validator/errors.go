package validator

import (
	"errors"
	"fmt"
)

// Error codes for validation infrastructure failures
const (
	ErrCodeEngineUnavailable = "ENGINE_UNAVAILABLE"
	ErrCodeEngineFailed      = "ENGINE_FAILED"
)

// Sentinels for errors.Is matching
var (
	ErrEngineUnavailable = errors.New("validation engine unavailable")
	ErrEngineFailed      = errors.New("validation engine failed")
)

// EngineUnavailableError reports an engine that cannot run at all:
// missing schemas, missing docker binary or an unreachable daemon.
type EngineUnavailableError struct {
	Engine  string
	Message string
	Cause   error
}

func (e *EngineUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", ErrCodeEngineUnavailable, e.Engine, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", ErrCodeEngineUnavailable, e.Engine, e.Message)
}

func (e *EngineUnavailableError) Is(target error) bool {
	return target == ErrEngineUnavailable
}

func (e *EngineUnavailableError) Unwrap() error {
	return e.Cause
}

// NewEngineUnavailableError creates a new engine unavailable error
func NewEngineUnavailableError(engine, message string, cause error) *EngineUnavailableError {
	return &EngineUnavailableError{
		Engine:  engine,
		Message: message,
		Cause:   cause,
	}
}

// EngineError reports an engine that started but crashed or produced no report
type EngineError struct {
	Engine  string
	Message string
	Stderr  string
	Cause   error
}

func (e *EngineError) Error() string {
	msg := fmt.Sprintf("[%s] %s: %s", ErrCodeEngineFailed, e.Engine, e.Message)
	if e.Cause != nil {
		msg += fmt.Sprintf(" (%v)", e.Cause)
	}
	if e.Stderr != "" {
		msg += ", stderr: " + e.Stderr
	}
	return msg
}

func (e *EngineError) Is(target error) bool {
	return target == ErrEngineFailed
}

func (e *EngineError) Unwrap() error {
	return e.Cause
}

// NewEngineError creates a new engine error
func NewEngineError(engine, message string, cause error) *EngineError {
	return &EngineError{
		Engine:  engine,
		Message: message,
		Cause:   cause,
	}
}
