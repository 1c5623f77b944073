package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MintReport handles POST /reports/{id}/mint.
func (s *Server) MintReport(w http.ResponseWriter, r *http.Request) {
	receipt, err := s.mints.Mint(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.errs.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, mintResponse{ReportID: receipt.ReportID, TxHash: receipt.TxHash})
}
