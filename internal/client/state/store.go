// Package state holds the client's view of the authenticated session: the
// current credential and local mirrors of the server-owned user and session
// collections. The mirrors are populated by a bulk fetch after login and kept
// in sync by applying notification envelopes pushed from the server.
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"trainhub/internal/client/storage"
	"trainhub/internal/logging"
	"trainhub/internal/models"
)

// CredentialListener observes credential lifecycle transitions. The push
// reconciler registers itself here so the live channel is opened when a
// credential is acquired and closed when it is lost.
type CredentialListener interface {
	CredentialAcquired()
	CredentialLost()
}

// Store is the single writer for the credential and the two mirrors. The
// other client components never mutate them directly; all changes go through
// Restore, SetCredential, ClearCredential, Apply and the bulk Replace calls.
type Store struct {
	logger  logging.Logger
	storage storage.Storage

	mu        sync.RWMutex
	principal *models.User
	token     string
	users     map[int64]models.User
	sessions  map[int64]models.Session

	listenerMu sync.Mutex
	listener   CredentialListener
}

func New(st storage.Storage, logger logging.Logger) *Store {
	return &Store{
		logger:   logger,
		storage:  st,
		users:    make(map[int64]models.User),
		sessions: make(map[int64]models.Session),
	}
}

// SetListener registers the credential lifecycle observer. Notifications are
// delivered outside the store's lock, in the order the transitions occurred.
func (s *Store) SetListener(l CredentialListener) {
	s.listenerMu.Lock()
	s.listener = l
	s.listenerMu.Unlock()
}

func (s *Store) notifyAcquired() {
	s.listenerMu.Lock()
	l := s.listener
	s.listenerMu.Unlock()
	if l != nil {
		l.CredentialAcquired()
	}
}

func (s *Store) notifyLost() {
	s.listenerMu.Lock()
	l := s.listener
	s.listenerMu.Unlock()
	if l != nil {
		l.CredentialLost()
	}
}

// Restore adopts a previously persisted credential, if one exists and is
// well-formed. Malformed or partial persisted data is treated as absent.
// Restore never fails; the worst outcome is remaining unauthenticated.
func (s *Store) Restore(ctx context.Context) {
	raw, token, err := s.storage.Load(ctx)
	if err != nil {
		s.logger.Warn(ctx, "credential restore failed", "error", err)
		return
	}
	if len(raw) == 0 || token == "" {
		return
	}

	var principal models.User
	if err := json.Unmarshal(raw, &principal); err != nil || principal.ID == 0 {
		s.logger.Warn(ctx, "discarding malformed stored credential")
		return
	}

	s.mu.Lock()
	s.principal = &principal
	s.token = token
	s.mu.Unlock()

	s.notifyAcquired()
}

// SetCredential atomically replaces the current credential and persists it.
// A persistence failure is logged but does not fail the login: the session
// simply will not survive a restart.
func (s *Store) SetCredential(ctx context.Context, principal models.User, token string) {
	raw, err := json.Marshal(principal)
	if err == nil {
		err = s.storage.Save(ctx, raw, token)
	}
	if err != nil {
		s.logger.Warn(ctx, "credential persist failed", "error", err)
	}

	s.mu.Lock()
	s.principal = &principal
	s.token = token
	s.mu.Unlock()

	s.notifyAcquired()
}

// ClearCredential removes the credential, erases the persisted slots and
// empties both mirrors.
func (s *Store) ClearCredential(ctx context.Context) {
	s.mu.Lock()
	had := s.principal != nil
	s.clearLocked()
	s.mu.Unlock()

	if err := s.storage.Clear(ctx); err != nil {
		s.logger.Warn(ctx, "credential erase failed", "error", err)
	}
	if had {
		s.notifyLost()
	}
}

// clearLocked resets credential and mirrors. Caller holds s.mu.
func (s *Store) clearLocked() {
	s.principal = nil
	s.token = ""
	s.users = make(map[int64]models.User)
	s.sessions = make(map[int64]models.Session)
}

// Apply folds one notification envelope into the mirrors. Created and
// updated events are upserts; deletes of absent identifiers are no-ops.
// User updates replace the local entry wholesale, session updates overwrite
// only status and updated_at. A user_deleted event naming the current
// principal additionally clears the credential (forced logout).
//
// Unknown discriminants return models.ErrUnknownEvent so the caller can log
// and drop them; they never corrupt the mirrors.
func (s *Store) Apply(ctx context.Context, env models.Envelope) error {
	switch env.Type {
	case models.EventUserCreated, models.EventUserUpdated:
		u, err := env.DecodeUser()
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.users[u.ID] = u
		s.mu.Unlock()

	case models.EventUserDeleted:
		ref, err := env.DecodeUserRef()
		if err != nil {
			return err
		}
		s.mu.Lock()
		delete(s.users, ref.UserID)
		self := s.principal != nil && s.principal.ID == ref.UserID
		if self {
			s.clearLocked()
		}
		s.mu.Unlock()

		if self {
			s.logger.Info(ctx, "current principal deleted remotely, logging out", "user_id", ref.UserID)
			if err := s.storage.Clear(ctx); err != nil {
				s.logger.Warn(ctx, "credential erase failed", "error", err)
			}
			s.notifyLost()
		}

	case models.EventSessionCreated:
		sess, err := env.DecodeSession()
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.sessions[sess.ID] = sess
		s.mu.Unlock()

	case models.EventSessionUpdated:
		patch, err := env.DecodeSessionPatch()
		if err != nil {
			return err
		}
		s.mu.Lock()
		cur, ok := s.sessions[patch.SessionID]
		if !ok {
			cur = models.Session{ID: patch.SessionID}
		}
		cur.Status = patch.Status
		cur.UpdatedAt = patch.UpdatedAt
		s.sessions[patch.SessionID] = cur
		s.mu.Unlock()

	case models.EventSessionDeleted:
		ref, err := env.DecodeSessionRef()
		if err != nil {
			return err
		}
		s.mu.Lock()
		delete(s.sessions, ref.SessionID)
		s.mu.Unlock()

	default:
		return fmt.Errorf("%w: %q", models.ErrUnknownEvent, env.Type)
	}

	return nil
}

// ReplaceUsers swaps in the result of a bulk user fetch.
func (s *Store) ReplaceUsers(users []models.User) {
	m := make(map[int64]models.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	s.mu.Lock()
	s.users = m
	s.mu.Unlock()
}

// ReplaceSessions swaps in the result of a bulk session fetch.
func (s *Store) ReplaceSessions(sessions []models.Session) {
	m := make(map[int64]models.Session, len(sessions))
	for _, sess := range sessions {
		m[sess.ID] = sess
	}
	s.mu.Lock()
	s.sessions = m
	s.mu.Unlock()
}

// Authenticated reports whether a credential is currently held.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.principal != nil
}

// Principal returns the authenticated profile, if any.
func (s *Store) Principal() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.principal == nil {
		return models.User{}, false
	}
	return *s.principal, true
}

// Token returns the current bearer token. It satisfies the command gateway's
// credential source.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.principal == nil {
		return "", false
	}
	return s.token, true
}

// User returns the mirrored user with the given id.
func (s *Store) User(id int64) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok
}

// Session returns the mirrored session with the given id.
func (s *Store) Session(id int64) (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Users returns a snapshot of the user mirror ordered by id.
func (s *Store) Users() []models.User {
	s.mu.RLock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Sessions returns a snapshot of the session mirror ordered by id.
func (s *Store) Sessions() []models.Session {
	s.mu.RLock()
	out := make([]models.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
