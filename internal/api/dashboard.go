package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"resdesk/internal/store"
)

// DashboardHandler serves aggregate counts for the landing page.
type DashboardHandler struct {
	DB *sql.DB
}

// Summary handles GET /api/dashboard.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := store.GetDashboardSummary(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to build dashboard summary", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to build dashboard summary")
		return
	}
	jsonResponse(w, http.StatusOK, summary)
}
