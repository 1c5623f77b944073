package handler

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/ecocycle/recycle-api/internal/domain"
)

// CreateAudit handles POST /audits.
// On a partial failure the audit exists but the report flag was not updated;
// the envelope says so and names the audit id.
func (s *Server) CreateAudit(w http.ResponseWriter, r *http.Request) {
	var body createAuditRequest
	if err := s.decodeJSON(r, &body); err != nil {
		s.errs.Write(w, r, err)
		return
	}

	created, err := s.audits.Create(r.Context(), domain.Audit{
		ReportID:  body.ReportID,
		AuditorID: body.AuditorID,
		Audited:   *body.Audited,
		Comments:  body.Comments,
	})
	if err != nil {
		s.errs.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, auditToResponse(created))
}

// ListAudits handles GET /audits.
// Supports ?reportId=, ?page= and ?limit=.
func (s *Server) ListAudits(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params, err := paginationParams(q)
	if err != nil {
		s.errs.Write(w, r, err)
		return
	}
	filter, err := auditFilter(q)
	if err != nil {
		s.errs.Write(w, r, err)
		return
	}

	page, err := s.audits.ListPaged(r.Context(), filter, params)
	if err != nil {
		s.errs.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toList(page, params, auditToResponse))
}

// GetAudit handles GET /audits/{id}.
func (s *Server) GetAudit(w http.ResponseWriter, r *http.Request) {
	audit, err := s.audits.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.errs.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, auditToResponse(audit))
}

// UpdateAudit handles PUT /audits/{id}.
func (s *Server) UpdateAudit(w http.ResponseWriter, r *http.Request) {
	var body updateAuditRequest
	if err := s.decodeJSON(r, &body); err != nil {
		s.errs.Write(w, r, err)
		return
	}

	updated, err := s.audits.Update(r.Context(), chi.URLParam(r, "id"), domain.AuditPatch{
		Audited:  body.Audited,
		Comments: body.Comments,
	})
	if err != nil {
		s.errs.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, auditToResponse(updated))
}

// DeleteAudit handles DELETE /audits/{id}.
func (s *Server) DeleteAudit(w http.ResponseWriter, r *http.Request) {
	if err := s.audits.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.errs.Write(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func auditFilter(q url.Values) (domain.AuditFilter, error) {
	var reportID *string
	if err := runtime.BindQueryParameter("form", true, false, "reportId", q, &reportID); err != nil {
		return domain.AuditFilter{}, domain.NewValidationError("reportId", "reportId must be a string")
	}
	var f domain.AuditFilter
	if reportID != nil {
		f.ReportID = *reportID
	}
	return f, nil
}
