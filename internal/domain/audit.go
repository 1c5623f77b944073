package domain

import "time"

// Audit is the outcome of an auditor reviewing one report.
// The ID is generated by the service before the row is written, so the
// record can be referenced even when a later workflow step fails.
// An auditor may audit a given report at most once.
type Audit struct {
	ID        string
	ReportID  string
	Audited   bool
	AuditorID string
	Comments  string // empty when no comments were given
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AuditPatch holds the mutable fields of an audit for an update.
// Nil fields are left unchanged.
type AuditPatch struct {
	Audited  *bool
	Comments *string
}

// AuditFilter narrows an audit listing. Zero value matches every audit.
type AuditFilter struct {
	ReportID string
}
