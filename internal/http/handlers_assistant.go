package http

import (
	"log/slog"
	"net/http"
)

// handleAssistantNotes drafts an invoice notes section from a campaign
// context string. The response is always 200; a degraded result is flagged
// in the body, not in the status code.
func (s *Server) handleAssistantNotes(w http.ResponseWriter, r *http.Request) {
	var payload notesRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if sanitizeInput(payload.Context) == "" {
		writeError(w, http.StatusUnprocessableEntity, "campaign context is required")
		return
	}

	result := s.assistant.Notes(r.Context(), sanitizeInput(payload.Context))
	writeJSON(w, http.StatusOK, result)
}

// handleAssistantInsights analyzes the whole book of invoices.
func (s *Server) handleAssistantInsights(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Snapshot error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load invoices")
		return
	}

	result := s.assistant.Analyze(r.Context(), snap.Invoices)
	writeJSON(w, http.StatusOK, result)
}
