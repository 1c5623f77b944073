package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// GetHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running and,
// if a database is wired, reachable within two seconds.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.Ping(ctx); err != nil {
			s.errs.Write(w, r, fmt.Errorf("handler.GetHealth: ping: %w", err))
			return
		}
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
