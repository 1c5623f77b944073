package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ecocycle/recycle-api/internal/domain"
)

// CreateReport handles POST /reports.
func (s *Server) CreateReport(w http.ResponseWriter, r *http.Request) {
	var body createReportRequest
	if err := s.decodeJSON(r, &body); err != nil {
		s.errs.Write(w, r, err)
		return
	}

	created, err := s.reports.Create(r.Context(), domain.Report{
		SubmitterID: body.SubmitterID,
		Material:    body.Material,
		WeightKg:    body.WeightKg,
	})
	if err != nil {
		s.errs.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, reportToResponse(created))
}

// ListReports handles GET /reports.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListReports(w http.ResponseWriter, r *http.Request) {
	params, err := paginationParams(r.URL.Query())
	if err != nil {
		s.errs.Write(w, r, err)
		return
	}

	page, err := s.reports.ListPaged(r.Context(), params)
	if err != nil {
		s.errs.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toList(page, params, reportToResponse))
}

// GetReport handles GET /reports/{id}.
func (s *Server) GetReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.reports.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.errs.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reportToResponse(report))
}

// DeleteReport handles DELETE /reports/{id}.
// Reports with audits are refused with a foreign key violation.
func (s *Server) DeleteReport(w http.ResponseWriter, r *http.Request) {
	if err := s.reports.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.errs.Write(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
