package http

import (
	"log/slog"
	"net/http"

	"fareledger/internal/core"
	"fareledger/internal/log"
)

// handleListExpenses returns all expense entries in insertion order.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	entries, err := s.store.List(r.Context(), core.Expense)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list expenses", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "error listing expenses")
		return
	}

	out := make([]*entryJSON, len(entries))
	for i, e := range entries {
		out[i] = toEntryJSON(e)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": out})
}

// handleExpensesTotal returns today's expenses total.
func (s *Server) handleExpensesTotal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	summary, err := s.daySummary(r)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to load expenses total", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "error loading expenses total")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":        summary.Date.Format("2006-01-02"),
		"total":       summary.Expenses.String(),
		"total_cents": summary.Expenses.Cents,
	})
}
