package domain

import (
	"errors"
	"strings"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// The error responder maps this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails a business
// rule (e.g. missing material, non-positive weight).
// The error responder maps this to HTTP 400.
var ErrValidation = errors.New("validation error")

// FieldIssue is a single problem with one field of a request.
// Path holds the field location from the root of the request body,
// one element per nesting level (e.g. ["items", "0", "weightKg"]).
type FieldIssue struct {
	Path    []string
	Message string
}

// ValidationError carries every field issue found in a request.
// It matches domain.ErrValidation under errors.Is so callers that only care
// about the category do not need to know about the issue list.
type ValidationError struct {
	Issues []FieldIssue
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Issues: []FieldIssue{{Path: []string{field}, Message: message}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, strings.Join(is.Path, ".")+": "+is.Message)
	}
	return "validation error: " + strings.Join(parts, "; ")
}

// Is reports ErrValidation as a match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
