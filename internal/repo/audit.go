package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ecocycle/recycle-api/internal/domain"
)

// AuditRepo defines the persistence operations for audits.
type AuditRepo interface {
	// Create inserts an audit whose ID was generated by the caller.
	// Fails with a unique violation when the auditor already audited the report,
	// and with a foreign key violation when the report does not exist.
	Create(ctx context.Context, audit domain.Audit) (domain.Audit, error)

	// GetByID returns the audit with the given ID, or a domain.ErrNotFound match.
	GetByID(ctx context.Context, id string) (domain.Audit, error)

	// ListPaged returns one page of audits matching f, oldest first, and the total count.
	ListPaged(ctx context.Context, f domain.AuditFilter, p domain.PaginationParams) ([]domain.Audit, int64, error)

	// Update overwrites audited and comments and returns the updated audit.
	// Returns a domain.ErrNotFound match if the audit does not exist.
	Update(ctx context.Context, audit domain.Audit) (domain.Audit, error)

	// Delete removes an audit. Returns a domain.ErrNotFound match if it does not exist.
	Delete(ctx context.Context, id string) error
}

// pgAuditRepo is the Postgres implementation of AuditRepo.
type pgAuditRepo struct {
	db db
}

// NewAuditRepo constructs an AuditRepo backed by the provided db connection.
func NewAuditRepo(db db) AuditRepo {
	return &pgAuditRepo{db: db}
}

const auditColumns = `id, report_id, audited, auditor_id, comments, created_at, updated_at`

func (r *pgAuditRepo) Create(ctx context.Context, audit domain.Audit) (domain.Audit, error) {
	const q = `
		INSERT INTO audits (id, report_id, audited, auditor_id, comments)
		VALUES (@id, @report_id, @audited, @auditor_id, @comments)
		RETURNING ` + auditColumns

	args := pgx.NamedArgs{
		"id":         audit.ID,
		"report_id":  audit.ReportID,
		"audited":    audit.Audited,
		"auditor_id": audit.AuditorID,
		"comments":   audit.Comments,
	}

	result, err := scanAudit(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Audit{}, fmt.Errorf("repo.AuditRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgAuditRepo) GetByID(ctx context.Context, id string) (domain.Audit, error) {
	const q = `SELECT ` + auditColumns + ` FROM audits WHERE id = @id`

	result, err := scanAudit(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Audit{}, fmt.Errorf("repo.AuditRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgAuditRepo) ListPaged(ctx context.Context, f domain.AuditFilter, p domain.PaginationParams) ([]domain.Audit, int64, error) {
	// An empty report_id filter matches every row.
	const q = `
		SELECT ` + auditColumns + `, count(*) OVER () AS total
		FROM audits
		WHERE @report_id::text = '' OR report_id = @report_id
		ORDER BY id
		LIMIT @limit OFFSET @offset`

	args := pgx.NamedArgs{"report_id": f.ReportID, "limit": p.Limit, "offset": p.Offset()}
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.AuditRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	var (
		audits []domain.Audit
		total  int64
	)
	for rows.Next() {
		var a domain.Audit
		if err := rows.Scan(&a.ID, &a.ReportID, &a.Audited, &a.AuditorID, &a.Comments,
			&a.CreatedAt, &a.UpdatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("repo.AuditRepo.ListPaged: scan: %w", err)
		}
		audits = append(audits, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.AuditRepo.ListPaged: rows: %w", err)
	}
	return audits, total, nil
}

func (r *pgAuditRepo) Update(ctx context.Context, audit domain.Audit) (domain.Audit, error) {
	const q = `
		UPDATE audits
		SET audited    = @audited,
		    comments   = @comments,
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + auditColumns

	args := pgx.NamedArgs{"id": audit.ID, "audited": audit.Audited, "comments": audit.Comments}
	result, err := scanAudit(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Audit{}, fmt.Errorf("repo.AuditRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgAuditRepo) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM audits WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.AuditRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.AuditRepo.Delete: %w", domain.NotFound("audit"))
	}
	return nil
}

func scanAudit(s scanner) (domain.Audit, error) {
	var a domain.Audit
	err := s.Scan(&a.ID, &a.ReportID, &a.Audited, &a.AuditorID, &a.Comments, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Audit{}, domain.NotFound("audit")
		}
		return domain.Audit{}, err
	}
	return a, nil
}
