package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ecocycle/recycle-api/internal/domain"
	"github.com/ecocycle/recycle-api/internal/repo"
)

// ReportService implements business logic for Report operations.
type ReportService struct {
	repo  repo.ReportRepo
	newID IDFunc
}

// NewReportService constructs a ReportService backed by the provided ReportRepo.
func NewReportService(r repo.ReportRepo) *ReportService {
	return &ReportService{repo: r, newID: NewID}
}

// WithIDFunc replaces the report id generator. Intended for tests.
func (s *ReportService) WithIDFunc(f IDFunc) *ReportService {
	s.newID = f
	return s
}

// Create validates and persists a new report. New reports are never audited.
func (s *ReportService) Create(ctx context.Context, report domain.Report) (domain.Report, error) {
	report.SubmitterID = strings.TrimSpace(report.SubmitterID)
	report.Material = strings.TrimSpace(report.Material)
	report.Audited = false

	if err := validateReport(report); err != nil {
		return domain.Report{}, fmt.Errorf("service.ReportService.Create: %w", err)
	}

	id, err := s.newID()
	if err != nil {
		return domain.Report{}, fmt.Errorf("service.ReportService.Create: %w", err)
	}
	report.ID = id

	created, err := s.repo.Create(ctx, report)
	if err != nil {
		return domain.Report{}, fmt.Errorf("service.ReportService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single report by ID.
func (s *ReportService) GetByID(ctx context.Context, id string) (domain.Report, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Report{}, fmt.Errorf("service.ReportService.GetByID: %w", err)
	}
	return r, nil
}

// ListPaged returns one page of reports, newest first.
func (s *ReportService) ListPaged(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Report], error) {
	reports, total, err := s.repo.ListPaged(ctx, p)
	if err != nil {
		return domain.Page[domain.Report]{}, fmt.Errorf("service.ReportService.ListPaged: %w", err)
	}
	if reports == nil {
		reports = []domain.Report{}
	}
	return domain.Page[domain.Report]{Items: reports, Total: total}, nil
}

// Delete removes a report. Reports that still have audits cannot be deleted;
// the foreign key violation is passed through for the caller to classify.
func (s *ReportService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.ReportService.Delete: %w", err)
	}
	return nil
}

func validateReport(r domain.Report) error {
	var issues []domain.FieldIssue
	if r.SubmitterID == "" {
		issues = append(issues, domain.FieldIssue{Path: []string{"submitterId"}, Message: "submitterId is required"})
	}
	if r.Material == "" {
		issues = append(issues, domain.FieldIssue{Path: []string{"material"}, Message: "material is required"})
	}
	if r.WeightKg <= 0 {
		issues = append(issues, domain.FieldIssue{Path: []string{"weightKg"}, Message: "weightKg must be greater than 0"})
	}
	if len(issues) > 0 {
		return &domain.ValidationError{Issues: issues}
	}
	return nil
}
