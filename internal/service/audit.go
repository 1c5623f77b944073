package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ecocycle/recycle-api/internal/domain"
	"github.com/ecocycle/recycle-api/internal/repo"
	"github.com/ecocycle/recycle-api/internal/workflow"
)

// Workflow and step names reported in failures, logs and metrics.
const (
	WorkflowCreateAudit = "create-audit"
	WorkflowUpdateAudit = "update-audit"
	WorkflowDeleteAudit = "delete-audit"

	StepReportVerified    = "ReportVerified"
	StepAuditPersisted    = "AuditPersisted"
	StepReportFlagUpdated = "ReportFlagUpdated"
	StepAuditVerified     = "AuditVerified"
	StepAuditUpdated      = "AuditUpdated"
	StepAuditDeleted      = "AuditDeleted"
)

// maxCommentsLen is counted in characters (runes), matching the request validator.
const maxCommentsLen = 2000

// AuditService implements business logic for Audit operations.
type AuditService struct {
	reports repo.ReportRepo
	audits  repo.AuditRepo
	flow    *workflow.Orchestrator
	newID   IDFunc
}

// NewAuditService constructs an AuditService. Audit ids come from NewID.
func NewAuditService(reports repo.ReportRepo, audits repo.AuditRepo, flow *workflow.Orchestrator) *AuditService {
	return &AuditService{reports: reports, audits: audits, flow: flow, newID: NewID}
}

// WithIDFunc replaces the audit id generator. Intended for tests.
func (s *AuditService) WithIDFunc(f IDFunc) *AuditService {
	s.newID = f
	return s
}

// Create runs the audit-creation workflow:
//
//	ReportVerified    -> the report exists; nothing is written on failure
//	AuditPersisted    -> a new audit id is generated and the audit inserted
//	ReportFlagUpdated -> report.audited is set to audit.Audited
//
// The steps are separate statements. If ReportFlagUpdated fails, the audit
// written by AuditPersisted stays in place and the returned *workflow.StepError
// is Partial, with the audit id in its Pending list. Nothing is retried.
//
// Two concurrent runs for the same report are not serialised: both may
// succeed and the report flag ends with whichever update landed last.
func (s *AuditService) Create(ctx context.Context, in domain.Audit) (domain.Audit, error) {
	if err := validateAudit(in); err != nil {
		return domain.Audit{}, fmt.Errorf("service.AuditService.Create: %w", err)
	}

	var created domain.Audit
	err := s.flow.Run(ctx, WorkflowCreateAudit,
		workflow.Step{
			Name:         StepReportVerified,
			Compensation: workflow.CompensationNone,
			Effect: func(ctx context.Context) error {
				_, err := s.reports.GetByID(ctx, in.ReportID)
				return err
			},
		},
		workflow.Step{
			Name:         StepAuditPersisted,
			Compensation: workflow.CompensationManual,
			Effect: func(ctx context.Context) error {
				id, err := s.newID()
				if err != nil {
					return err
				}
				audit := in
				audit.ID = id
				created, err = s.audits.Create(ctx, audit)
				return err
			},
			Ref: func() string { return created.ID },
		},
		workflow.Step{
			Name:         StepReportFlagUpdated,
			Compensation: workflow.CompensationNone,
			Effect: func(ctx context.Context) error {
				_, err := s.reports.SetAudited(ctx, in.ReportID, created.Audited)
				return err
			},
		},
	)
	if err != nil {
		return domain.Audit{}, fmt.Errorf("service.AuditService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single audit by ID.
func (s *AuditService) GetByID(ctx context.Context, id string) (domain.Audit, error) {
	a, err := s.audits.GetByID(ctx, id)
	if err != nil {
		return domain.Audit{}, fmt.Errorf("service.AuditService.GetByID: %w", err)
	}
	return a, nil
}

// ListPaged returns one page of audits matching f.
// Items is never nil.
func (s *AuditService) ListPaged(ctx context.Context, f domain.AuditFilter, p domain.PaginationParams) (domain.Page[domain.Audit], error) {
	audits, total, err := s.audits.ListPaged(ctx, f, p)
	if err != nil {
		return domain.Page[domain.Audit]{}, fmt.Errorf("service.AuditService.ListPaged: %w", err)
	}
	if audits == nil {
		audits = []domain.Audit{}
	}
	return domain.Page[domain.Audit]{Items: audits, Total: total}, nil
}

// Update applies patch to an existing audit (read, modify, write).
// The report's audited flag is not touched.
func (s *AuditService) Update(ctx context.Context, id string, patch domain.AuditPatch) (domain.Audit, error) {
	if patch.Comments != nil && utf8.RuneCountInString(*patch.Comments) > maxCommentsLen {
		return domain.Audit{}, fmt.Errorf("service.AuditService.Update: %w",
			domain.NewValidationError("comments", fmt.Sprintf("comments must be at most %d characters", maxCommentsLen)))
	}

	var current, updated domain.Audit
	err := s.flow.Run(ctx, WorkflowUpdateAudit,
		workflow.Step{
			Name: StepAuditVerified,
			Effect: func(ctx context.Context) (err error) {
				current, err = s.audits.GetByID(ctx, id)
				return err
			},
		},
		workflow.Step{
			Name: StepAuditUpdated,
			Effect: func(ctx context.Context) (err error) {
				next := current
				if patch.Audited != nil {
					next.Audited = *patch.Audited
				}
				if patch.Comments != nil {
					next.Comments = *patch.Comments
				}
				updated, err = s.audits.Update(ctx, next)
				return err
			},
		},
	)
	if err != nil {
		return domain.Audit{}, fmt.Errorf("service.AuditService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes an audit after checking it exists (read, then delete).
// The report's audited flag is left as it is.
func (s *AuditService) Delete(ctx context.Context, id string) error {
	err := s.flow.Run(ctx, WorkflowDeleteAudit,
		workflow.Step{
			Name: StepAuditVerified,
			Effect: func(ctx context.Context) error {
				_, err := s.audits.GetByID(ctx, id)
				return err
			},
		},
		workflow.Step{
			Name:   StepAuditDeleted,
			Effect: func(ctx context.Context) error { return s.audits.Delete(ctx, id) },
		},
	)
	if err != nil {
		return fmt.Errorf("service.AuditService.Delete: %w", err)
	}
	return nil
}

// validateAudit enforces the business rules for a new audit.
// All problems are reported at once.
func validateAudit(a domain.Audit) error {
	var issues []domain.FieldIssue
	if strings.TrimSpace(a.ReportID) == "" {
		issues = append(issues, domain.FieldIssue{Path: []string{"reportId"}, Message: "reportId is required"})
	}
	if strings.TrimSpace(a.AuditorID) == "" {
		issues = append(issues, domain.FieldIssue{Path: []string{"auditorId"}, Message: "auditorId is required"})
	}
	if utf8.RuneCountInString(a.Comments) > maxCommentsLen {
		issues = append(issues, domain.FieldIssue{
			Path:    []string{"comments"},
			Message: fmt.Sprintf("comments must be at most %d characters", maxCommentsLen),
		})
	}
	if len(issues) > 0 {
		return &domain.ValidationError{Issues: issues}
	}
	return nil
}
