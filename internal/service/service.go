// Package service contains the business logic for the recycling audit API.
// Services validate inputs, enforce business rules, and sequence repo calls.
// Multi-step writes run through a workflow.Orchestrator so every failure
// names the step it happened in.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"fmt"

	"github.com/google/uuid"
)

// IDFunc generates record ids.
type IDFunc func() (string, error)

// NewID returns a UUIDv7 string. Version 7 ids sort by creation time, which
// keeps primary-key inserts at the end of the index.
func NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("service.NewID: %w", err)
	}
	return id.String(), nil
}
