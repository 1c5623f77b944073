package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ecocycle/recycle-api/internal/apperr"
)

// Register mounts every API route on r, along with envelope-producing
// handlers for unknown routes and unsupported methods.
func (s *Server) Register(r chi.Router) {
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		s.errs.Write(w, req, apperr.New(http.StatusNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		s.errs.Write(w, req, apperr.New(http.StatusMethodNotAllowed, "method not allowed"))
	})

	r.Get("/healthz", s.GetHealth)

	r.Route("/reports", func(r chi.Router) {
		r.Post("/", s.CreateReport)
		r.Get("/", s.ListReports)
		r.Get("/{id}", s.GetReport)
		r.Delete("/{id}", s.DeleteReport)
		r.Post("/{id}/mint", s.MintReport)
	})

	r.Route("/audits", func(r chi.Router) {
		r.Post("/", s.CreateAudit)
		r.Get("/", s.ListAudits)
		r.Get("/{id}", s.GetAudit)
		r.Put("/{id}", s.UpdateAudit)
		r.Delete("/{id}", s.DeleteAudit)
	})
}
