package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrActionNotPermitted = errors.New("action not permitted for the task's current status")
	// ErrStaleResponse marks a data response dropped because a newer query
	// was issued while it was in flight. It is never shown to the operator.
	ErrStaleResponse = errors.New("response superseded by a newer query")
)

// ValidationError is a local pre-flight failure; no request was sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
