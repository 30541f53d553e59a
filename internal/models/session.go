package models

import "time"

// SessionStatus is the lifecycle state of a training session.
type SessionStatus string

const (
	StatusScheduled SessionStatus = "scheduled"
	StatusCompleted SessionStatus = "completed"
	StatusCancelled SessionStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s SessionStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Session is a scheduled training session between a trainer and a trainee.
type Session struct {
	ID              int64         `json:"id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	TrainerID       int64         `json:"trainer_id"`
	TraineeID       int64         `json:"trainee_id"`
	ScheduledDate   time.Time     `json:"scheduled_date"`
	DurationMinutes int           `json:"duration_minutes"`
	Status          SessionStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// SessionCreate is the payload for scheduling a session.
type SessionCreate struct {
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	TrainerID       int64         `json:"trainer_id"`
	TraineeID       int64         `json:"trainee_id"`
	ScheduledDate   time.Time     `json:"scheduled_date"`
	DurationMinutes int           `json:"duration_minutes"`
	Status          SessionStatus `json:"status,omitempty"`
}

// SessionUpdate is the payload for a partial session update. Nil fields are
// left unchanged by the server.
type SessionUpdate struct {
	Title           *string        `json:"title,omitempty"`
	Description     *string        `json:"description,omitempty"`
	TrainerID       *int64         `json:"trainer_id,omitempty"`
	TraineeID       *int64         `json:"trainee_id,omitempty"`
	ScheduledDate   *time.Time     `json:"scheduled_date,omitempty"`
	DurationMinutes *int           `json:"duration_minutes,omitempty"`
	Status          *SessionStatus `json:"status,omitempty"`
}
