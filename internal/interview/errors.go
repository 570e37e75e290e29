package interview

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidationError indicates invalid input; nothing was persisted or generated.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ForbiddenError indicates the caller does not own the interview.
type ForbiddenError struct {
	InterviewID uuid.UUID
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("not authorized to access interview %s", e.InterviewID)
}

// NotFoundError indicates a missing interview, or missing feedback on an interview.
type NotFoundError struct {
	Resource string
	ID       uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// GenerationError indicates the text-generation call failed or returned nothing.
// The caller may retry the same operation.
type GenerationError struct {
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generation failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("generation failed: %s", e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// ParseError indicates generated text did not match the expected structure.
// It is retryable in the same way as GenerationError.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ConflictError indicates the operation is not legal in the interview's current state,
// or that a concurrent writer won the race.
type ConflictError struct {
	Message string
	Cause   error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s", e.Message)
}

func (e *ConflictError) Unwrap() error {
	return e.Cause
}
