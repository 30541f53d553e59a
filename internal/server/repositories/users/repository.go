// Package users persists user accounts. The stored record carries the
// password hash, which is stripped before anything leaves the server.
package users

import (
	"context"
	"errors"

	"trainhub/internal/models"
)

// StoredUser is the database representation of an account.
type StoredUser struct {
	models.User
	PasswordHash string
}

// Uniqueness errors returned by Create.
var (
	ErrUsernameTaken = errors.New("username already registered")
	ErrEmailTaken    = errors.New("email already registered")
)

// Repository is the persistence surface for user accounts.
type Repository interface {
	// Create inserts the account after verifying the username and email are
	// free, returning ErrUsernameTaken or ErrEmailTaken otherwise.
	Create(ctx context.Context, user *StoredUser) (*StoredUser, error)
	GetByID(ctx context.Context, id int64) (*StoredUser, error)
	GetByUsername(ctx context.Context, username string) (*StoredUser, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *StoredUser) (*StoredUser, error)
	Delete(ctx context.Context, id int64) error
	CountByRole(ctx context.Context) (map[string]int64, error)
}
