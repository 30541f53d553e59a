package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrUnknownEvent is returned when an envelope carries an unrecognized type.
// Receivers log and ignore such envelopes instead of failing the channel.
var ErrUnknownEvent = errors.New("unknown event type")

// EventType discriminates the payload of a notification Envelope.
type EventType string

const (
	EventUserCreated    EventType = "user_created"
	EventUserUpdated    EventType = "user_updated"
	EventUserDeleted    EventType = "user_deleted"
	EventSessionCreated EventType = "session_created"
	EventSessionUpdated EventType = "session_updated"
	EventSessionDeleted EventType = "session_deleted"
)

// Envelope is one server-side mutation as delivered over the push channel.
// Data is shaped per Type: created and user-updated events carry the full
// record, session_updated carries a SessionPatch, deleted events carry only
// the identifier.
type Envelope struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

// SessionPatch is the partial payload of a session_updated event. Only the
// status and the updated timestamp are transmitted; all other fields of the
// local copy are expected to be retained.
type SessionPatch struct {
	SessionID int64         `json:"session_id"`
	Status    SessionStatus `json:"status"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// UserRef identifies a user in a user_deleted event.
type UserRef struct {
	UserID int64 `json:"user_id"`
}

// SessionRef identifies a session in a session_deleted event.
type SessionRef struct {
	SessionID int64 `json:"session_id"`
}

func mustEnvelope(t EventType, v any) Envelope {
	data, err := json.Marshal(v)
	if err != nil {
		// All payload types marshal cleanly; reaching this is a programming error.
		panic(fmt.Sprintf("marshal %s event: %v", t, err))
	}
	return Envelope{Type: t, Data: data}
}

// NewUserCreated builds the envelope broadcast after a user is created.
func NewUserCreated(u User) Envelope { return mustEnvelope(EventUserCreated, u) }

// NewUserUpdated builds the envelope broadcast after a user is updated.
// The payload is the full record: receivers replace their copy wholesale.
func NewUserUpdated(u User) Envelope { return mustEnvelope(EventUserUpdated, u) }

// NewUserDeleted builds the envelope broadcast after a user is deleted.
func NewUserDeleted(id int64) Envelope {
	return mustEnvelope(EventUserDeleted, UserRef{UserID: id})
}

// NewSessionCreated builds the envelope broadcast after a session is created.
func NewSessionCreated(s Session) Envelope { return mustEnvelope(EventSessionCreated, s) }

// NewSessionUpdated builds the envelope broadcast after a session is updated.
// Unlike user updates, only status and updated_at travel on the wire.
func NewSessionUpdated(s Session) Envelope {
	return mustEnvelope(EventSessionUpdated, SessionPatch{
		SessionID: s.ID,
		Status:    s.Status,
		UpdatedAt: s.UpdatedAt,
	})
}

// NewSessionDeleted builds the envelope broadcast after a session is deleted.
func NewSessionDeleted(id int64) Envelope {
	return mustEnvelope(EventSessionDeleted, SessionRef{SessionID: id})
}

// DecodeUser decodes the full user record carried by user_created and
// user_updated events.
func (e Envelope) DecodeUser() (User, error) {
	var u User
	if err := json.Unmarshal(e.Data, &u); err != nil {
		return User{}, fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return u, nil
}

// DecodeSession decodes the full session record carried by session_created
// events.
func (e Envelope) DecodeSession() (Session, error) {
	var s Session
	if err := json.Unmarshal(e.Data, &s); err != nil {
		return Session{}, fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return s, nil
}

// DecodeSessionPatch decodes the partial payload of session_updated events.
func (e Envelope) DecodeSessionPatch() (SessionPatch, error) {
	var p SessionPatch
	if err := json.Unmarshal(e.Data, &p); err != nil {
		return SessionPatch{}, fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return p, nil
}

// DecodeUserRef decodes the identifier payload of user_deleted events.
func (e Envelope) DecodeUserRef() (UserRef, error) {
	var r UserRef
	if err := json.Unmarshal(e.Data, &r); err != nil {
		return UserRef{}, fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return r, nil
}

// DecodeSessionRef decodes the identifier payload of session_deleted events.
func (e Envelope) DecodeSessionRef() (SessionRef, error) {
	var r SessionRef
	if err := json.Unmarshal(e.Data, &r); err != nil {
		return SessionRef{}, fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return r, nil
}

// Known reports whether the discriminant is one this build understands.
// Unknown discriminants are expected to be logged and ignored by receivers.
func (e Envelope) Known() bool {
	switch e.Type {
	case EventUserCreated, EventUserUpdated, EventUserDeleted,
		EventSessionCreated, EventSessionUpdated, EventSessionDeleted:
		return true
	}
	return false
}
