package service_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ecocycle/recycle-api/internal/domain"
	"github.com/ecocycle/recycle-api/internal/repo"
	"github.com/ecocycle/recycle-api/internal/workflow"
)

// mockReportRepo is a hand-written test double for repo.ReportRepo.
// Each method is a function field; set only the ones your test needs.
type mockReportRepo struct {
	create     func(ctx context.Context, r domain.Report) (domain.Report, error)
	getByID    func(ctx context.Context, id string) (domain.Report, error)
	listPaged  func(ctx context.Context, p domain.PaginationParams) ([]domain.Report, int64, error)
	setAudited func(ctx context.Context, id string, audited bool) (domain.Report, error)
	delete     func(ctx context.Context, id string) error
}

func (m *mockReportRepo) Create(ctx context.Context, r domain.Report) (domain.Report, error) {
	return m.create(ctx, r)
}
func (m *mockReportRepo) GetByID(ctx context.Context, id string) (domain.Report, error) {
	return m.getByID(ctx, id)
}
func (m *mockReportRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Report, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockReportRepo) SetAudited(ctx context.Context, id string, audited bool) (domain.Report, error) {
	return m.setAudited(ctx, id, audited)
}
func (m *mockReportRepo) Delete(ctx context.Context, id string) error {
	return m.delete(ctx, id)
}

var _ repo.ReportRepo = (*mockReportRepo)(nil)

// mockAuditRepo is a hand-written test double for repo.AuditRepo.
type mockAuditRepo struct {
	create    func(ctx context.Context, a domain.Audit) (domain.Audit, error)
	getByID   func(ctx context.Context, id string) (domain.Audit, error)
	listPaged func(ctx context.Context, f domain.AuditFilter, p domain.PaginationParams) ([]domain.Audit, int64, error)
	update    func(ctx context.Context, a domain.Audit) (domain.Audit, error)
	delete    func(ctx context.Context, id string) error
}

func (m *mockAuditRepo) Create(ctx context.Context, a domain.Audit) (domain.Audit, error) {
	return m.create(ctx, a)
}
func (m *mockAuditRepo) GetByID(ctx context.Context, id string) (domain.Audit, error) {
	return m.getByID(ctx, id)
}
func (m *mockAuditRepo) ListPaged(ctx context.Context, f domain.AuditFilter, p domain.PaginationParams) ([]domain.Audit, int64, error) {
	return m.listPaged(ctx, f, p)
}
func (m *mockAuditRepo) Update(ctx context.Context, a domain.Audit) (domain.Audit, error) {
	return m.update(ctx, a)
}
func (m *mockAuditRepo) Delete(ctx context.Context, id string) error {
	return m.delete(ctx, id)
}

var _ repo.AuditRepo = (*mockAuditRepo)(nil)

// ---- in-memory store -------------------------------------------------------

// memStore is a mutex-guarded in-memory stand-in for both tables.
// It enforces the (auditor_id, report_id) uniqueness rule the way Postgres
// does, and honours context cancellation so tests can prove the workflow
// ignores it. failSetAudited, when set, replaces every SetAudited result.
type memStore struct {
	mu             sync.Mutex
	reports        map[string]domain.Report
	audits         map[string]domain.Audit
	failSetAudited error

	auditCreates int
	flagUpdates  int
}

func newMemStore(reports ...domain.Report) *memStore {
	s := &memStore{reports: map[string]domain.Report{}, audits: map[string]domain.Audit{}}
	for _, r := range reports {
		s.reports[r.ID] = r
	}
	return s
}

func (s *memStore) reportRepo() *mockReportRepo {
	return &mockReportRepo{
		getByID: func(ctx context.Context, id string) (domain.Report, error) {
			if err := ctx.Err(); err != nil {
				return domain.Report{}, err
			}
			s.mu.Lock()
			defer s.mu.Unlock()
			r, ok := s.reports[id]
			if !ok {
				return domain.Report{}, domain.NotFound("report")
			}
			return r, nil
		},
		setAudited: func(ctx context.Context, id string, audited bool) (domain.Report, error) {
			if err := ctx.Err(); err != nil {
				return domain.Report{}, err
			}
			s.mu.Lock()
			defer s.mu.Unlock()
			s.flagUpdates++
			if s.failSetAudited != nil {
				return domain.Report{}, s.failSetAudited
			}
			r, ok := s.reports[id]
			if !ok {
				return domain.Report{}, domain.NotFound("report")
			}
			r.Audited = audited
			s.reports[id] = r
			return r, nil
		},
	}
}

func (s *memStore) auditRepo() *mockAuditRepo {
	return &mockAuditRepo{
		create: func(ctx context.Context, a domain.Audit) (domain.Audit, error) {
			if err := ctx.Err(); err != nil {
				return domain.Audit{}, err
			}
			s.mu.Lock()
			defer s.mu.Unlock()
			s.auditCreates++
			for _, existing := range s.audits {
				if existing.AuditorID == a.AuditorID && existing.ReportID == a.ReportID {
					return domain.Audit{}, uniqueViolation(a.AuditorID, a.ReportID)
				}
			}
			s.audits[a.ID] = a
			return a, nil
		},
	}
}

func (s *memStore) report(id string) domain.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reports[id]
}

func (s *memStore) auditIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.audits))
	for id := range s.audits {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ---- helpers ---------------------------------------------------------------

func uniqueViolation(auditorID, reportID string) error {
	return &pgconn.PgError{
		Code:           "23505",
		Message:        `duplicate key value violates unique constraint "audits_auditor_id_report_id_key"`,
		Detail:         "Key (auditor_id, report_id)=(" + auditorID + ", " + reportID + ") already exists.",
		ConstraintName: "audits_auditor_id_report_id_key",
	}
}

func newFlow() *workflow.Orchestrator {
	return workflow.New(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
}

// sequentialIDs returns an IDFunc yielding prefix-1, prefix-2, ...
func sequentialIDs(prefix string) func() (string, error) {
	var (
		mu sync.Mutex
		n  int
	)
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		return prefix + "-" + strconv.Itoa(n), nil
	}
}
