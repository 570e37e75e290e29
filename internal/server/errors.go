// Package server provides the HTTP REST API for the interview coach.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/interview-coach/internal/interview"
)

// ErrValidation indicates a request that could not be decoded before reaching
// the interview service (malformed JSON, bad path id).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		requestErr    *ErrValidation
		validationErr *interview.ValidationError
		forbiddenErr  *interview.ForbiddenError
		notFoundErr   *interview.NotFoundError
		conflictErr   *interview.ConflictError
		generationErr *interview.GenerationError
		parseErr      *interview.ParseError
	)

	switch {
	case errors.As(err, &requestErr), errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &forbiddenErr):
		return http.StatusForbidden
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &conflictErr):
		return http.StatusConflict
	case errors.As(err, &generationErr), errors.As(err, &parseErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
