// Package domain contains the core data types for the recycling audit API.
// This package is imported by every other internal package (repo, service, handler)
// and depends on nothing inside the module.
package domain

import "time"

// Report is a recycling report submitted by a collector.
// Reports pre-exist any audit; the audit workflow only flips Audited.
type Report struct {
	ID          string
	SubmitterID string
	Material    string
	WeightKg    float64
	Audited     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
