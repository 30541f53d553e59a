package httpapi

import (
	"errors"
	"net/http"

	"trainhub/internal/common"
	"trainhub/internal/models"
	"trainhub/internal/server/auth"
	"trainhub/internal/server/repositories/users"
)

// ListUsers is available to admins and trainers.
func (a *API) ListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireRole(w, r, models.RoleAdmin, models.RoleTrainer); !ok {
		return
	}

	list, err := a.users.List(r.Context())
	if err != nil {
		a.logger.Error(r.Context(), "user list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if list == nil {
		list = []models.User{}
	}
	writeJSON(w, http.StatusOK, list)
}

// GetUser returns a single account. Non-admins may only read themselves.
func (a *API) GetUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if principal.Role != models.RoleAdmin && principal.ID != id {
		writeError(w, http.StatusForbidden, "not enough permissions")
		return
	}

	user, err := a.users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		a.logger.Error(r.Context(), "user get failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, user.User)
}

// CreateUser is admin only. The announced record carries the full profile,
// never the password hash.
func (a *API) CreateUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireRole(w, r, models.RoleAdmin); !ok {
		return
	}

	var in models.UserCreate
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.Username == "" || in.Password == "" || !in.Role.Valid() {
		writeError(w, http.StatusBadRequest, "username, password and a valid role are required")
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		a.logger.Error(r.Context(), "password hash failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	stored := &users.StoredUser{
		User: models.User{
			Username:            in.Username,
			Email:               in.Email,
			Role:                in.Role,
			FirstName:           in.FirstName,
			LastName:            in.LastName,
			IsTemporaryPassword: in.IsTemporaryPassword,
		},
		PasswordHash: hash,
	}

	created, err := a.users.Create(r.Context(), stored)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrUsernameTaken):
			writeError(w, http.StatusBadRequest, "username already registered")
		case errors.Is(err, users.ErrEmailTaken):
			writeError(w, http.StatusBadRequest, "email already registered")
		default:
			a.logger.Error(r.Context(), "user create failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	a.broadcast(r.Context(), models.NewUserCreated(created.User))
	writeJSON(w, http.StatusCreated, created.User)
}

// UpdateUser applies a partial update. Non-admins may only update
// themselves and may not change roles.
func (a *API) UpdateUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if principal.Role != models.RoleAdmin && principal.ID != id {
		writeError(w, http.StatusForbidden, "not enough permissions")
		return
	}

	var in models.UserUpdate
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.Role != nil {
		if principal.Role != models.RoleAdmin {
			writeError(w, http.StatusForbidden, "not enough permissions")
			return
		}
		if !in.Role.Valid() {
			writeError(w, http.StatusBadRequest, "invalid role")
			return
		}
	}

	current, err := a.users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		a.logger.Error(r.Context(), "user update lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if in.Username != nil {
		current.Username = *in.Username
	}
	if in.Email != nil {
		current.Email = *in.Email
	}
	if in.Role != nil {
		current.Role = *in.Role
	}
	if in.FirstName != nil {
		current.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		current.LastName = *in.LastName
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			a.logger.Error(r.Context(), "password hash failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		current.PasswordHash = hash
		current.IsTemporaryPassword = false
	}
	if in.IsTemporaryPassword != nil {
		current.IsTemporaryPassword = *in.IsTemporaryPassword
	}

	updated, err := a.users.Update(r.Context(), current)
	if err != nil {
		a.logger.Error(r.Context(), "user update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	a.broadcast(r.Context(), models.NewUserUpdated(updated.User))
	writeJSON(w, http.StatusOK, updated.User)
}

// DeleteUser is admin only. The announcement carries just the id; clients
// whose principal matches it must log themselves out.
func (a *API) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireRole(w, r, models.RoleAdmin); !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	// users.Delete cascades to the participant's sessions. Announce those
	// first so mirrors drop them before the account itself disappears.
	cascaded, err := a.sessions.ListByParticipant(r.Context(), id)
	if err != nil {
		a.logger.Error(r.Context(), "user delete session lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := a.users.Delete(r.Context(), id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		a.logger.Error(r.Context(), "user delete failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	for _, s := range cascaded {
		a.broadcast(r.Context(), models.NewSessionDeleted(s.ID))
	}
	a.broadcast(r.Context(), models.NewUserDeleted(id))
	writeJSON(w, http.StatusOK, map[string]string{"detail": "user deleted"})
}
