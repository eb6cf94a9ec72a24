package http

import (
	"log/slog"
	"net/http"
)

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Snapshot error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load clients")
		return
	}
	writeJSON(w, http.StatusOK, snap.Clients)
}

// handleSaveClient upserts a client. POST and PUT behave identically except
// that PUT takes the ID from the path.
func (s *Server) handleSaveClient(w http.ResponseWriter, r *http.Request) {
	var payload clientPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if id := r.PathValue("id"); id != "" {
		payload.ID = id
	}

	client, err := payload.toDomain()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	snap, err := s.store.SaveClient(r.Context(), client)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	saved, _ := snap.FindClient(client.ID)
	status := http.StatusOK
	if r.Method == http.MethodPost {
		status = http.StatusCreated
	}
	writeJSON(w, status, saved)
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	s.deleteClients(w, r, []string{r.PathValue("id")})
}

// handleDeleteClients removes several clients in one call. Invoices keep
// their embedded client copy, so history survives the deletion.
func (s *Server) handleDeleteClients(w http.ResponseWriter, r *http.Request) {
	var payload deleteClientsRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(payload.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "no client ids given")
		return
	}
	s.deleteClients(w, r, payload.IDs)
}

func (s *Server) deleteClients(w http.ResponseWriter, r *http.Request, ids []string) {
	if _, err := s.store.DeleteClients(r.Context(), ids); err != nil {
		slog.ErrorContext(r.Context(), "Delete clients error", "error", err, "count", len(ids))
		writeError(w, http.StatusInternalServerError, "failed to delete clients")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
