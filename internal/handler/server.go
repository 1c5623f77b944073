// Package handler implements the HTTP handlers for the recycling audit API.
// All handlers are methods on Server. Methods are split into resource files
// (health.go, report.go, audit.go, mint.go) but share the same Server struct
// so they can access its dependencies.
//
// Handlers never build error bodies themselves. Every failure, from a bad
// query parameter to a half-finished workflow, is passed unchanged to the
// ErrorWriter, which classifies it and writes the envelope.
package handler

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ecocycle/recycle-api/internal/domain"
)

// ReportServicer defines the business operations the report handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type ReportServicer interface {
	Create(ctx context.Context, report domain.Report) (domain.Report, error)
	GetByID(ctx context.Context, id string) (domain.Report, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Report], error)
	Delete(ctx context.Context, id string) error
}

// AuditServicer defines the business operations the audit handlers depend on.
type AuditServicer interface {
	Create(ctx context.Context, audit domain.Audit) (domain.Audit, error)
	GetByID(ctx context.Context, id string) (domain.Audit, error)
	ListPaged(ctx context.Context, f domain.AuditFilter, p domain.PaginationParams) (domain.Page[domain.Audit], error)
	Update(ctx context.Context, id string, patch domain.AuditPatch) (domain.Audit, error)
	Delete(ctx context.Context, id string) error
}

// MintServicer submits audited reports for minting.
type MintServicer interface {
	Mint(ctx context.Context, reportID string) (domain.MintReceipt, error)
}

// ErrorWriter writes the error envelope for err. *respond.Responder satisfies it.
type ErrorWriter interface {
	Write(w http.ResponseWriter, r *http.Request, err error)
}

// Pinger reports whether a dependency is reachable. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the dependencies of every handler.
// Wire it in main.go and mount it with Register.
type Server struct {
	reports  ReportServicer
	audits   AuditServicer
	mints    MintServicer
	errs     ErrorWriter
	db       Pinger
	validate *validator.Validate
}

// NewServer constructs the Server with all its dependencies.
// db may be nil, in which case /healthz reports liveness only.
func NewServer(reports ReportServicer, audits AuditServicer, mints MintServicer, errs ErrorWriter, db Pinger) *Server {
	return &Server{
		reports:  reports,
		audits:   audits,
		mints:    mints,
		errs:     errs,
		db:       db,
		validate: newValidator(),
	}
}

// newValidator returns a validator that reports fields by their JSON names,
// so failure paths match what the client sent.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
