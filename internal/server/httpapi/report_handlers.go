package httpapi

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"trainhub/internal/models"
)

// SessionReportCSV streams the session list as CSV for admins and trainers.
func (a *API) SessionReportCSV(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireRole(w, r, models.RoleAdmin, models.RoleTrainer); !ok {
		return
	}

	list, err := a.sessions.List(r.Context())
	if err != nil {
		a.logger.Error(r.Context(), "session report failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="sessions.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"id", "title", "trainer_id", "trainee_id", "scheduled_date", "duration_minutes", "status"})
	for _, s := range list {
		_ = cw.Write([]string{
			strconv.FormatInt(s.ID, 10),
			s.Title,
			strconv.FormatInt(s.TrainerID, 10),
			strconv.FormatInt(s.TraineeID, 10),
			s.ScheduledDate.Format(time.RFC3339),
			strconv.Itoa(s.DurationMinutes),
			string(s.Status),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		a.logger.Warn(r.Context(), "session report stream aborted", "error", err)
	}
}
