package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecocycle/recycle-api/internal/apperr"
	"github.com/ecocycle/recycle-api/internal/domain"
	"github.com/ecocycle/recycle-api/internal/repo"
	"github.com/ecocycle/recycle-api/testutil"
)

// newTestRepos opens a single transaction and returns both repos backed by it.
// The transaction is rolled back when the test finishes.
func newTestRepos(t *testing.T) (repo.ReportRepo, repo.AuditRepo) {
	t.Helper()
	tx := testutil.NewTx(t)
	return repo.NewReportRepo(tx), repo.NewAuditRepo(tx)
}

func newReport(t *testing.T, reports repo.ReportRepo) domain.Report {
	t.Helper()
	created, err := reports.Create(context.Background(), domain.Report{
		ID:          uuid.Must(uuid.NewV7()).String(),
		SubmitterID: "collector-1",
		Material:    "PET",
		WeightKg:    12.5,
	})
	require.NoError(t, err)
	return created
}

func TestReportRepo_CreateAndGet(t *testing.T) {
	reports, _ := newTestRepos(t)
	ctx := context.Background()

	created := newReport(t, reports)
	assert.False(t, created.Audited)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := reports.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "PET", got.Material)
	assert.InDelta(t, 12.5, got.WeightKg, 0.0001)
}

func TestReportRepo_GetByID_NotFound(t *testing.T) {
	reports, _ := newTestRepos(t)

	_, err := reports.GetByID(context.Background(), "r-404")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReportRepo_Create_CheckViolationIsGenericConflict(t *testing.T) {
	reports, _ := newTestRepos(t)

	_, err := reports.Create(context.Background(), domain.Report{ID: "r-neg", SubmitterID: "c", Material: "glass", WeightKg: -1})

	require.Error(t, err)
	c := apperr.Classify(err)
	assert.Equal(t, apperr.KindConflict, c.Kind)
	assert.Equal(t, 400, c.Status)
}

func TestReportRepo_SetAudited(t *testing.T) {
	reports, _ := newTestRepos(t)
	ctx := context.Background()
	created := newReport(t, reports)

	updated, err := reports.SetAudited(ctx, created.ID, true)

	require.NoError(t, err)
	assert.True(t, updated.Audited)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestReportRepo_SetAudited_NotFound(t *testing.T) {
	reports, _ := newTestRepos(t)

	_, err := reports.SetAudited(context.Background(), "r-404", true)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReportRepo_ListPaged(t *testing.T) {
	reports, _ := newTestRepos(t)
	ctx := context.Background()
	for range 3 {
		newReport(t, reports)
	}

	page, total, err := reports.ListPaged(ctx, domain.PaginationParams{Page: 1, Limit: 2})

	require.NoError(t, err)
	assert.Len(t, page, 2)
	assert.GreaterOrEqual(t, total, int64(3))
}

func TestReportRepo_Delete_ReferencedByAudit(t *testing.T) {
	reports, audits := newTestRepos(t)
	ctx := context.Background()
	rep := newReport(t, reports)
	_, err := audits.Create(ctx, domain.Audit{ID: uuid.Must(uuid.NewV7()).String(), ReportID: rep.ID, AuditorID: "a-1"})
	require.NoError(t, err)

	err = reports.Delete(ctx, rep.ID)

	require.Error(t, err)
	assert.Equal(t, apperr.KindForeignKeyViolation, apperr.Classify(err).Kind)
}

func TestReportRepo_Delete_NotFound(t *testing.T) {
	reports, _ := newTestRepos(t)

	err := reports.Delete(context.Background(), "r-404")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
