package httpapi

import (
	"net/http"

	"trainhub/internal/models"
)

// UserAnalytics returns account counts grouped by role. Admin only.
func (a *API) UserAnalytics(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireRole(w, r, models.RoleAdmin); !ok {
		return
	}

	counters, err := a.users.CountByRole(r.Context())
	if err != nil {
		a.logger.Error(r.Context(), "user analytics failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, counters)
}

// SessionAnalytics returns session counts grouped by status. Admin only.
func (a *API) SessionAnalytics(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireRole(w, r, models.RoleAdmin); !ok {
		return
	}

	counters, err := a.sessions.CountByStatus(r.Context())
	if err != nil {
		a.logger.Error(r.Context(), "session analytics failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, counters)
}
