package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"trainhub/internal/common"
	"trainhub/internal/dbx"
	"trainhub/internal/models"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, username, email, role, first_name, last_name, password_hash, is_temporary_password, created_at, updated_at`

func scanUser(row *sql.Row) (*StoredUser, error) {
	u := &StoredUser{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.FirstName, &u.LastName,
		&u.PasswordHash, &u.IsTemporaryPassword, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

// Create runs the uniqueness checks and the insert in one transaction. A
// concurrent duplicate that slips past the checks trips the unique constraint
// instead and is mapped to the same sentinel.
func (r *PostgresRepository) Create(ctx context.Context, user *StoredUser) (*StoredUser, error) {

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var taken bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, user.Username).Scan(&taken)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if taken {
			return ErrUsernameTaken
		}

		err = tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, user.Email).Scan(&taken)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if taken {
			return ErrEmailTaken
		}

		query :=
			`INSERT INTO users (username, email, role, first_name, last_name, password_hash, is_temporary_password)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id, created_at, updated_at
			 `

		err = tx.QueryRowContext(ctx, query,
			user.Username, user.Email, user.Role, user.FirstName, user.LastName,
			user.PasswordHash, user.IsTemporaryPassword).
			Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if pgErr.ConstraintName == "users_email_key" {
				return nil, ErrEmailTaken
			}
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*StoredUser, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*StoredUser, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, username))
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.User
	for rows.Next() {
		u := StoredUser{}
		err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.FirstName, &u.LastName,
			&u.PasswordHash, &u.IsTemporaryPassword, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, u.User)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, user *StoredUser) (*StoredUser, error) {

	query :=
		`UPDATE users
		 SET username = $1, email = $2, role = $3, first_name = $4, last_name = $5,
		     password_hash = $6, is_temporary_password = $7, updated_at = now()
		 WHERE id = $8
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.Role, user.FirstName, user.LastName,
		user.PasswordHash, user.IsTemporaryPassword, user.ID).
		Scan(&user.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) CountByRole(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT role, count(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	counters := make(map[string]int64)
	for rows.Next() {
		var role string
		var count int64
		if err := rows.Scan(&role, &count); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		counters[role] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return counters, nil
}
