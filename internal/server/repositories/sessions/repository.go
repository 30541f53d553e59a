// Package sessions persists training sessions.
package sessions

import (
	"context"

	"trainhub/internal/models"
)

// Repository is the persistence surface for training sessions.
type Repository interface {
	Create(ctx context.Context, session *models.Session) (*models.Session, error)
	GetByID(ctx context.Context, id int64) (*models.Session, error)
	List(ctx context.Context) ([]models.Session, error)
	// ListByParticipant returns the sessions where userID is the trainer
	// or the trainee.
	ListByParticipant(ctx context.Context, userID int64) ([]models.Session, error)
	Update(ctx context.Context, session *models.Session) (*models.Session, error)
	Delete(ctx context.Context, id int64) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
}
