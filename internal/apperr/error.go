package apperr

import "fmt"

// Error is a failure raised on purpose by business logic with an explicit
// HTTP status and a client-safe message.
//
// Statuses below 500 are passed through to the caller unchanged. A 5xx Error
// is treated like any other unexpected failure: its message is not shown.
type Error struct {
	Status  int
	Message string
	// Payload holds extra client-safe fields for the response details.
	Payload map[string]any
	Cause   error
}

// New returns an Error with the given status and message.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Wrap returns an Error that keeps cause for errors.Is / errors.As.
func Wrap(cause error, status int, message string) *Error {
	return &Error{Status: status, Message: message, Cause: cause}
}

// WithPayload sets a single payload field and returns the same receiver.
func (e *Error) WithPayload(key string, value any) *Error {
	if e.Payload == nil {
		e.Payload = map[string]any{}
	}
	e.Payload[key] = value
	return e
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.Cause)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }
