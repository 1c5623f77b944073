package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/ecocycle/recycle-api/internal/domain"
	"github.com/ecocycle/recycle-api/internal/handler"
	"github.com/ecocycle/recycle-api/internal/respond"
)

// mockReportServicer is a test double for handler.ReportServicer.
// Set only the method fields your test needs.
type mockReportServicer struct {
	create    func(ctx context.Context, r domain.Report) (domain.Report, error)
	getByID   func(ctx context.Context, id string) (domain.Report, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Report], error)
	delete    func(ctx context.Context, id string) error
}

func (m *mockReportServicer) Create(ctx context.Context, r domain.Report) (domain.Report, error) {
	return m.create(ctx, r)
}
func (m *mockReportServicer) GetByID(ctx context.Context, id string) (domain.Report, error) {
	return m.getByID(ctx, id)
}
func (m *mockReportServicer) ListPaged(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Report], error) {
	return m.listPaged(ctx, p)
}
func (m *mockReportServicer) Delete(ctx context.Context, id string) error {
	return m.delete(ctx, id)
}

var _ handler.ReportServicer = (*mockReportServicer)(nil)

// mockAuditServicer is a test double for handler.AuditServicer.
type mockAuditServicer struct {
	create    func(ctx context.Context, a domain.Audit) (domain.Audit, error)
	getByID   func(ctx context.Context, id string) (domain.Audit, error)
	listPaged func(ctx context.Context, f domain.AuditFilter, p domain.PaginationParams) (domain.Page[domain.Audit], error)
	update    func(ctx context.Context, id string, patch domain.AuditPatch) (domain.Audit, error)
	delete    func(ctx context.Context, id string) error
}

func (m *mockAuditServicer) Create(ctx context.Context, a domain.Audit) (domain.Audit, error) {
	return m.create(ctx, a)
}
func (m *mockAuditServicer) GetByID(ctx context.Context, id string) (domain.Audit, error) {
	return m.getByID(ctx, id)
}
func (m *mockAuditServicer) ListPaged(ctx context.Context, f domain.AuditFilter, p domain.PaginationParams) (domain.Page[domain.Audit], error) {
	return m.listPaged(ctx, f, p)
}
func (m *mockAuditServicer) Update(ctx context.Context, id string, patch domain.AuditPatch) (domain.Audit, error) {
	return m.update(ctx, id, patch)
}
func (m *mockAuditServicer) Delete(ctx context.Context, id string) error {
	return m.delete(ctx, id)
}

var _ handler.AuditServicer = (*mockAuditServicer)(nil)

// mockMintServicer is a test double for handler.MintServicer.
type mockMintServicer struct {
	mint func(ctx context.Context, reportID string) (domain.MintReceipt, error)
}

func (m *mockMintServicer) Mint(ctx context.Context, reportID string) (domain.MintReceipt, error) {
	return m.mint(ctx, reportID)
}

var _ handler.MintServicer = (*mockMintServicer)(nil)

type mockPinger struct{ err error }

func (m mockPinger) Ping(context.Context) error { return m.err }

// ---- helpers ---------------------------------------------------------------

// deps collects the doubles a test wants wired; nil fields get empty mocks.
type deps struct {
	reports *mockReportServicer
	audits  *mockAuditServicer
	mints   *mockMintServicer
	db      handler.Pinger
}

// newHTTPHandler wires a Server into a chi router with a real responder,
// mirroring how main.go wires it in production.
func newHTTPHandler(d deps) http.Handler {
	if d.reports == nil {
		d.reports = &mockReportServicer{}
	}
	if d.audits == nil {
		d.audits = &mockAuditServicer{}
	}
	if d.mints == nil {
		d.mints = &mockMintServicer{}
	}
	errs := respond.New(slog.New(slog.NewJSONHandler(io.Discard, nil)))
	srv := handler.NewServer(d.reports, d.audits, d.mints, errs, d.db)

	r := chi.NewRouter()
	srv.Register(r)
	return r
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// envelope is the decoded error body. Message stays raw because its shape
// depends on the error kind.
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Timestamp  string          `json:"timestamp"`
	Path       string          `json:"path"`
	Message    json.RawMessage `json:"message"`
	Details    map[string]any  `json:"details"`
	ErrorID    *string         `json:"errorId"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func messageString(t *testing.T, env envelope) string {
	t.Helper()
	var s string
	require.NoError(t, json.Unmarshal(env.Message, &s))
	return s
}

type validationBody struct {
	Errors []struct {
		Message string   `json:"message"`
		Path    []string `json:"path"`
	} `json:"errors"`
}

func validationErrors(t *testing.T, env envelope) validationBody {
	t.Helper()
	var v validationBody
	require.NoError(t, json.Unmarshal(env.Message, &v))
	return v
}

var fixedTime = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
