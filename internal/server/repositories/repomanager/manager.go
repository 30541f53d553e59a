// Package repomanager constructs the concrete repositories for a database
// backend and applies schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"trainhub/internal/dbx"
	"trainhub/internal/server/repositories/sessions"
	"trainhub/internal/server/repositories/users"
)

type RepositoryManager interface {
	// Users takes the root handle rather than a DBTX because the user
	// repository opens its own transactions.
	Users(db *sql.DB) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
