package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fareledger/internal/core"
	"fareledger/internal/log"
)

// daySummary loads the summary for the requested day (query param
// date=YYYY-MM-DD, default today) through the cache.
func (s *Server) daySummary(r *http.Request) (core.DaySummary, error) {
	day := time.Now()
	if v := strings.TrimSpace(r.URL.Query().Get("date")); v != "" {
		if parsed, err := time.Parse("2006-01-02", v); err == nil {
			day = parsed
		}
	}

	key := day.Format("2006-01-02")
	if cached, ok := s.summaryCache.Get(key); ok {
		return cached, nil
	}

	summary, err := s.interp.Summary(r.Context(), day)
	if err != nil {
		return core.DaySummary{}, err
	}
	s.summaryCache.Set(key, summary)
	return summary, nil
}

// handleSummary returns revenue, expenses and profit for one day.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	summary, err := s.daySummary(r)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to load day summary", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "error loading summary")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":           summary.Date.Format("2006-01-02"),
		"revenue":        summary.Revenue.String(),
		"revenue_cents":  summary.Revenue.Cents,
		"expenses":       summary.Expenses.String(),
		"expenses_cents": summary.Expenses.Cents,
		"profit":         summary.Profit().String(),
		"profit_cents":   summary.Profit().Cents,
	})
}
