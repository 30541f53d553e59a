// Package models defines the wire-level types shared by the server and the
// client: user and training-session records, their create/update payloads,
// and the notification envelope pushed over the live channel.
package models

import "time"

// Role is the access level assigned to a user account.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTrainer Role = "trainer"
	RoleTrainee Role = "trainee"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTrainer, RoleTrainee:
		return true
	}
	return false
}

// User is the public profile of an account as exposed by the API.
// The password hash never leaves the server.
type User struct {
	ID                  int64     `json:"id"`
	Username            string    `json:"username"`
	Email               string    `json:"email"`
	Role                Role      `json:"role"`
	FirstName           string    `json:"first_name"`
	LastName            string    `json:"last_name"`
	IsTemporaryPassword bool      `json:"is_temporary_password"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// UserCreate is the payload for creating a user.
type UserCreate struct {
	Username            string `json:"username"`
	Email               string `json:"email"`
	Role                Role   `json:"role"`
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	Password            string `json:"password"`
	IsTemporaryPassword bool   `json:"is_temporary_password"`
}

// UserUpdate is the payload for a partial user update. Nil fields are
// left unchanged by the server.
type UserUpdate struct {
	Username            *string `json:"username,omitempty"`
	Email               *string `json:"email,omitempty"`
	Role                *Role   `json:"role,omitempty"`
	FirstName           *string `json:"first_name,omitempty"`
	LastName            *string `json:"last_name,omitempty"`
	Password            *string `json:"password,omitempty"`
	IsTemporaryPassword *bool   `json:"is_temporary_password,omitempty"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is the successful login response.
type TokenResponse struct {
	AccessToken         string `json:"access_token"`
	TokenType           string `json:"token_type"`
	User                User   `json:"user"`
	ForcePasswordChange bool   `json:"force_password_change"`
}
