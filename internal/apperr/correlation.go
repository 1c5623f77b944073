package apperr

import "github.com/google/uuid"

// NewCorrelationID returns an opaque id for an unexpected failure.
// Ids are UUIDv7, so they sort by creation time and the matching log
// entries can be found by time range as well as by value.
func NewCorrelationID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does.
		return uuid.NewString()
	}
	return id.String()
}
