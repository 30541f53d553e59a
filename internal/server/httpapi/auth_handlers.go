package httpapi

import (
	"errors"
	"net/http"

	"trainhub/internal/common"
	"trainhub/internal/models"
	"trainhub/internal/server/auth"
)

// Login verifies the credentials and issues an access token together with
// the authenticated user's profile.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := a.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusUnauthorized, "incorrect username or password")
			return
		}
		a.logger.Error(r.Context(), "login lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "incorrect username or password")
		return
	}

	token, err := auth.GenerateToken(user.Username, a.secretKey, a.tokenValidity)
	if err != nil {
		a.logger.Error(r.Context(), "token generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, models.TokenResponse{
		AccessToken:         token,
		TokenType:           "bearer",
		User:                user.User,
		ForcePasswordChange: user.IsTemporaryPassword,
	})
}
