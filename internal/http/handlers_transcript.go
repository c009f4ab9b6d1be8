package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"fareledger/internal/core"
	"fareledger/internal/log"
)

type transcriptRequest struct {
	Transcript string `json:"transcript"`
}

type transcriptResponse struct {
	Spoken    string     `json:"spoken"`
	Committed *entryJSON `json:"committed,omitempty"`
}

type entryJSON struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Amount    string    `json:"amount"`
	Cents     int64     `json:"amount_cents"`
	Category  string    `json:"category,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toEntryJSON(e core.LedgerEntry) *entryJSON {
	return &entryJSON{
		ID:        e.ID,
		Kind:      string(e.Kind),
		Amount:    e.Amount.String(),
		Cents:     e.Amount.Cents,
		Category:  string(e.Category),
		Note:      e.Note,
		CreatedAt: e.CreatedAt,
	}
}

// handleTranscript feeds one finalized transcript through the interpreter.
// The spoken text always comes back, even when the store failed.
func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req transcriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	transcript := sanitizeInput(req.Transcript)
	if transcript == "" {
		writeError(w, http.StatusBadRequest, "transcript is required")
		return
	}

	res, err := s.interp.Handle(r.Context(), transcript)
	if err != nil {
		slog.ErrorContext(r.Context(), "transcript handling failed",
			log.FieldError, err, log.FieldTranscript, transcript)
		writeJSON(w, http.StatusInternalServerError, transcriptResponse{Spoken: res.Spoken})
		return
	}

	resp := transcriptResponse{Spoken: res.Spoken}
	if res.Committed != nil {
		resp.Committed = toEntryJSON(*res.Committed)
	}
	writeJSON(w, http.StatusOK, resp)
}
