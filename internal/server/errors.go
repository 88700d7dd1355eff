// Package server provides the HTTP REST API for the application assistant.
package server

import (
	"fmt"
	"net/http"
)

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnauthorized indicates a missing or invalid bearer token.
type ErrUnauthorized struct{}

func (e *ErrUnauthorized) Error() string {
	return "missing or invalid credentials"
}

// ErrFeatureDisabled indicates a request for a collaborator that is not
// configured (drive filing, tracker, generation).
type ErrFeatureDisabled struct {
	Feature string
}

func (e *ErrFeatureDisabled) Error() string {
	return fmt.Sprintf("%s is not configured", e.Feature)
}

// ErrDuplicateApplication indicates the tracker already has this posting.
type ErrDuplicateApplication struct {
	Company string
	Role    string
}

func (e *ErrDuplicateApplication) Error() string {
	return fmt.Sprintf("already applied to %s for %s", e.Company, e.Role)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrValidation:
		return http.StatusBadRequest
	case *ErrUnauthorized:
		return http.StatusUnauthorized
	case *ErrDuplicateApplication:
		return http.StatusConflict
	case *ErrFeatureDisabled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
