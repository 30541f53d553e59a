package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"trainhub/internal/common"
	"trainhub/internal/dbx"
	"trainhub/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const sessionColumns = `id, title, description, trainer_id, trainee_id, scheduled_date, duration_minutes, status, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, session *models.Session) (*models.Session, error) {

	query :=
		`INSERT INTO sessions (title, description, trainer_id, trainee_id, scheduled_date, duration_minutes, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		session.Title, session.Description, session.TrainerID, session.TraineeID,
		session.ScheduledDate, session.DurationMinutes, session.Status).
		Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return session, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	s := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&s.ID, &s.Title, &s.Description, &s.TrainerID, &s.TraineeID,
			&s.ScheduledDate, &s.DurationMinutes, &s.Status, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Session
	for rows.Next() {
		var s models.Session
		err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.TrainerID, &s.TraineeID,
			&s.ScheduledDate, &s.DurationMinutes, &s.Status, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) ListByParticipant(ctx context.Context, userID int64) ([]models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE trainer_id = $1 OR trainee_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Session
	for rows.Next() {
		var s models.Session
		err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.TrainerID, &s.TraineeID,
			&s.ScheduledDate, &s.DurationMinutes, &s.Status, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, session *models.Session) (*models.Session, error) {

	query :=
		`UPDATE sessions
		 SET title = $1, description = $2, trainer_id = $3, trainee_id = $4,
		     scheduled_date = $5, duration_minutes = $6, status = $7, updated_at = now()
		 WHERE id = $8
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		session.Title, session.Description, session.TrainerID, session.TraineeID,
		session.ScheduledDate, session.DurationMinutes, session.Status, session.ID).
		Scan(&session.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return session, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
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

func (r *PostgresRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, count(*) FROM sessions GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	counters := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		counters[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return counters, nil
}
