package http

import (
	"log/slog"
	"net/http"

	"fareledger/internal/core"
	"fareledger/internal/log"
)

// handleListRevenue returns all revenue entries in insertion order.
func (s *Server) handleListRevenue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	entries, err := s.store.List(r.Context(), core.Revenue)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list revenue", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "error listing revenue")
		return
	}

	out := make([]*entryJSON, len(entries))
	for i, e := range entries {
		out[i] = toEntryJSON(e)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": out})
}

// handleRevenueTotal returns today's revenue total.
func (s *Server) handleRevenueTotal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	summary, err := s.daySummary(r)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to load revenue total", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "error loading revenue total")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":        summary.Date.Format("2006-01-02"),
		"total":       summary.Revenue.String(),
		"total_cents": summary.Revenue.Cents,
	})
}
