// Package repo contains all database access logic for the recycling audit API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
//
// Driver errors are wrapped, never translated, so constraint violations reach
// the error classifier with their SQLSTATE intact. The one exception is
// pgx.ErrNoRows, which becomes a domain not-found error.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ecocycle/recycle-api/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ReportRepo defines the persistence operations for recycling reports.
// Every method is a single statement; no method spans a transaction.
type ReportRepo interface {
	// Create inserts a new report. The caller supplies the ID.
	Create(ctx context.Context, report domain.Report) (domain.Report, error)

	// GetByID returns the report with the given ID, or a domain.ErrNotFound match.
	GetByID(ctx context.Context, id string) (domain.Report, error)

	// ListPaged returns one page of reports, newest first, and the total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Report, int64, error)

	// SetAudited overwrites the audited flag and returns the updated report.
	// Returns a domain.ErrNotFound match if the report does not exist.
	SetAudited(ctx context.Context, id string, audited bool) (domain.Report, error)

	// Delete removes a report. Returns a domain.ErrNotFound match if it does not exist.
	// Fails with a foreign key violation while audits still reference it.
	Delete(ctx context.Context, id string) error
}

// pgReportRepo is the Postgres implementation of ReportRepo.
type pgReportRepo struct {
	db db
}

// NewReportRepo constructs a ReportRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewReportRepo(db db) ReportRepo {
	return &pgReportRepo{db: db}
}

const reportColumns = `id, submitter_id, material, weight_kg, audited, created_at, updated_at`

func (r *pgReportRepo) Create(ctx context.Context, report domain.Report) (domain.Report, error) {
	const q = `
		INSERT INTO reports (id, submitter_id, material, weight_kg, audited)
		VALUES (@id, @submitter_id, @material, @weight_kg, @audited)
		RETURNING ` + reportColumns

	args := pgx.NamedArgs{
		"id":           report.ID,
		"submitter_id": report.SubmitterID,
		"material":     report.Material,
		"weight_kg":    report.WeightKg,
		"audited":      report.Audited,
	}

	result, err := scanReport(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Report{}, fmt.Errorf("repo.ReportRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgReportRepo) GetByID(ctx context.Context, id string) (domain.Report, error) {
	const q = `SELECT ` + reportColumns + ` FROM reports WHERE id = @id`

	result, err := scanReport(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Report{}, fmt.Errorf("repo.ReportRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgReportRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Report, int64, error) {
	// count(*) OVER () returns the unpaged total on every row, saving a second query.
	const q = `
		SELECT ` + reportColumns + `, count(*) OVER () AS total
		FROM reports
		ORDER BY created_at DESC, id DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ReportRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	var (
		reports []domain.Report
		total   int64
	)
	for rows.Next() {
		var rep domain.Report
		if err := rows.Scan(&rep.ID, &rep.SubmitterID, &rep.Material, &rep.WeightKg,
			&rep.Audited, &rep.CreatedAt, &rep.UpdatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("repo.ReportRepo.ListPaged: scan: %w", err)
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.ReportRepo.ListPaged: rows: %w", err)
	}
	return reports, total, nil
}

func (r *pgReportRepo) SetAudited(ctx context.Context, id string, audited bool) (domain.Report, error) {
	const q = `
		UPDATE reports
		SET audited    = @audited,
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + reportColumns

	result, err := scanReport(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "audited": audited}))
	if err != nil {
		return domain.Report{}, fmt.Errorf("repo.ReportRepo.SetAudited: %w", err)
	}
	return result, nil
}

func (r *pgReportRepo) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM reports WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.ReportRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ReportRepo.Delete: %w", domain.NotFound("report"))
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanReport(s scanner) (domain.Report, error) {
	var rep domain.Report
	err := s.Scan(&rep.ID, &rep.SubmitterID, &rep.Material, &rep.WeightKg,
		&rep.Audited, &rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Report{}, domain.NotFound("report")
		}
		return domain.Report{}, err
	}
	return rep, nil
}
