package httpapi

import (
	"context"
	"sync"

	"trainhub/internal/common"
	"trainhub/internal/models"
	"trainhub/internal/server/repositories/users"
)

type fakeUsers struct {
	mu   sync.Mutex
	seq  int64
	byID map[int64]*users.StoredUser
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: make(map[int64]*users.StoredUser)}
}

func (f *fakeUsers) Create(ctx context.Context, user *users.StoredUser) (*users.StoredUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Username == user.Username {
			return nil, users.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return nil, users.ErrEmailTaken
		}
	}
	f.seq++
	user.ID = f.seq
	clone := *user
	f.byID[user.ID] = &clone
	return user, nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id int64) (*users.StoredUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUsers) GetByUsername(ctx context.Context, username string) (*users.StoredUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsers) List(ctx context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.User
	for i := int64(1); i <= f.seq; i++ {
		if u, ok := f.byID[i]; ok {
			result = append(result, u.User)
		}
	}
	return result, nil
}

func (f *fakeUsers) Update(ctx context.Context, user *users.StoredUser) (*users.StoredUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[user.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	clone := *user
	f.byID[user.ID] = &clone
	return user, nil
}

func (f *fakeUsers) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeUsers) CountByRole(ctx context.Context) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counters := make(map[string]int64)
	for _, u := range f.byID {
		counters[string(u.Role)]++
	}
	return counters, nil
}

type fakeSessions struct {
	mu   sync.Mutex
	seq  int64
	byID map[int64]*models.Session
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{byID: make(map[int64]*models.Session)}
}

func (f *fakeSessions) Create(ctx context.Context, session *models.Session) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	session.ID = f.seq
	clone := *session
	f.byID[session.ID] = &clone
	return session, nil
}

func (f *fakeSessions) GetByID(ctx context.Context, id int64) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	clone := *s
	return &clone, nil
}

func (f *fakeSessions) List(ctx context.Context) ([]models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Session
	for i := int64(1); i <= f.seq; i++ {
		if s, ok := f.byID[i]; ok {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (f *fakeSessions) ListByParticipant(ctx context.Context, userID int64) ([]models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Session
	for i := int64(1); i <= f.seq; i++ {
		if s, ok := f.byID[i]; ok && (s.TrainerID == userID || s.TraineeID == userID) {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (f *fakeSessions) Update(ctx context.Context, session *models.Session) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[session.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	clone := *session
	f.byID[session.ID] = &clone
	return session, nil
}

func (f *fakeSessions) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeSessions) CountByStatus(ctx context.Context) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counters := make(map[string]int64)
	for _, s := range f.byID {
		counters[string(s.Status)]++
	}
	return counters, nil
}
