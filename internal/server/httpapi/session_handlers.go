package httpapi

import (
	"errors"
	"net/http"
	"time"

	"trainhub/internal/common"
	"trainhub/internal/models"
)

// ListSessions returns every session for admins and trainers; a trainee
// sees only the sessions they participate in.
func (a *API) ListSessions(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	list, err := a.sessions.List(r.Context())
	if err != nil {
		a.logger.Error(r.Context(), "session list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if principal.Role == models.RoleTrainee {
		own := make([]models.Session, 0, len(list))
		for _, s := range list {
			if s.TraineeID == principal.ID {
				own = append(own, s)
			}
		}
		list = own
	}
	if list == nil {
		list = []models.Session{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) GetSession(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	session, err := a.sessions.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		a.logger.Error(r.Context(), "session get failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if principal.Role == models.RoleTrainee && session.TraineeID != principal.ID {
		writeError(w, http.StatusForbidden, "not enough permissions")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// CreateSession is available to admins and trainers. The created record is
// announced in full so mirrors can adopt it wholesale.
func (a *API) CreateSession(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireRole(w, r, models.RoleAdmin, models.RoleTrainer); !ok {
		return
	}

	var in models.SessionCreate
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.Title == "" || in.TrainerID <= 0 || in.TraineeID <= 0 || in.DurationMinutes <= 0 {
		writeError(w, http.StatusBadRequest, "title, trainer, trainee and duration are required")
		return
	}
	if in.Status == "" {
		in.Status = models.StatusScheduled
	}
	if !in.Status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if in.ScheduledDate.IsZero() {
		in.ScheduledDate = time.Now()
	}

	for _, participant := range []int64{in.TrainerID, in.TraineeID} {
		if _, err := a.users.GetByID(r.Context(), participant); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				writeError(w, http.StatusBadRequest, "trainer or trainee does not exist")
				return
			}
			a.logger.Error(r.Context(), "session create lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}

	session := &models.Session{
		Title:           in.Title,
		Description:     in.Description,
		TrainerID:       in.TrainerID,
		TraineeID:       in.TraineeID,
		ScheduledDate:   in.ScheduledDate,
		DurationMinutes: in.DurationMinutes,
		Status:          in.Status,
	}

	created, err := a.sessions.Create(r.Context(), session)
	if err != nil {
		a.logger.Error(r.Context(), "session create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	a.broadcast(r.Context(), models.NewSessionCreated(*created))
	writeJSON(w, http.StatusCreated, created)
}

// UpdateSession applies a partial update for admins and trainers. Only the
// status change is announced; the rest of the record travels via reads.
func (a *API) UpdateSession(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireRole(w, r, models.RoleAdmin, models.RoleTrainer); !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	var in models.SessionUpdate
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.Status != nil && !in.Status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	current, err := a.sessions.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		a.logger.Error(r.Context(), "session update lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if in.Title != nil {
		current.Title = *in.Title
	}
	if in.Description != nil {
		current.Description = *in.Description
	}
	if in.TrainerID != nil {
		current.TrainerID = *in.TrainerID
	}
	if in.TraineeID != nil {
		current.TraineeID = *in.TraineeID
	}
	if in.ScheduledDate != nil {
		current.ScheduledDate = *in.ScheduledDate
	}
	if in.DurationMinutes != nil {
		current.DurationMinutes = *in.DurationMinutes
	}
	if in.Status != nil {
		current.Status = *in.Status
	}

	updated, err := a.sessions.Update(r.Context(), current)
	if err != nil {
		a.logger.Error(r.Context(), "session update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	a.broadcast(r.Context(), models.NewSessionUpdated(*updated))
	writeJSON(w, http.StatusOK, updated)
}

// DeleteSession is admin only.
func (a *API) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireRole(w, r, models.RoleAdmin); !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	if err := a.sessions.Delete(r.Context(), id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		a.logger.Error(r.Context(), "session delete failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	a.broadcast(r.Context(), models.NewSessionDeleted(id))
	writeJSON(w, http.StatusOK, map[string]string{"detail": "session deleted"})
}
