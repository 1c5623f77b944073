// Package apperr classifies failures into the closed set of error kinds the
// API exposes, together with the HTTP status and the public message for each.
//
// Classify is a pure function of the error's shape. It never performs I/O and
// never echoes the text of an unexpected failure.
package apperr

import "net/http"

// Kind is the category a failure is classified into.
type Kind string

const (
	KindValidationFailed    Kind = "ValidationFailed"
	KindNotFound            Kind = "NotFound"
	KindConflict            Kind = "Conflict"
	KindForeignKeyViolation Kind = "ForeignKeyViolation"
	KindUnexpected          Kind = "Unexpected"
)

// Status returns the default HTTP status for the kind.
// A Conflict raised by a non-unique constraint is reported with 400 instead;
// see Classify.
func (k Kind) Status() int {
	switch k {
	case KindValidationFailed, KindForeignKeyViolation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// kindForStatus picks the kind for a deliberately raised 4xx failure.
// Only 404 and 409 have kinds of their own. Every other 4xx (400, 405, 413,
// ...) is counted as ValidationFailed, a request the client must change
// before retrying; the envelope keeps the raised status either way.
func kindForStatus(status int) Kind {
	switch status {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	default:
		return KindValidationFailed
	}
}
