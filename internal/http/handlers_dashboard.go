package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"adbill/internal/core"
)

// handleDashboard returns aggregate revenue stats. Results are cached per
// store version: every write bumps the version, so a cache hit is always
// current and invalidation never has to be explicit.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Snapshot error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	key := strconv.FormatInt(snap.Version, 10)
	stats, found := s.dashboardCache.Get(key)
	if !found {
		stats = core.ComputeDashboard(snap.Invoices)
		s.dashboardCache.Set(key, stats)
		slog.DebugContext(r.Context(), "Dashboard cached", "version", snap.Version)
	}

	writeJSON(w, http.StatusOK, stats)
}
