package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"trainhub/internal/client/state"
	"trainhub/internal/logging"
	"trainhub/internal/models"
)

type memStorage struct {
	mu        sync.Mutex
	principal []byte
	token     string
}

func (m *memStorage) Load(ctx context.Context) ([]byte, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.principal, m.token, nil
}

func (m *memStorage) Save(ctx context.Context, principal []byte, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.principal, m.token = principal, token
	return nil
}

func (m *memStorage) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.principal, m.token = nil, ""
	return nil
}

func (m *memStorage) Close() error { return nil }

// pushServer is a test double for the server's /ws endpoint. It tracks
// connections and lets tests push raw frames to all of them.
type pushServer struct {
	t        *testing.T
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns []*websocket.Conn
	total int
}

func newPushServer(t *testing.T) (*pushServer, *httptest.Server, string) {
	ps := &pushServer{t: t}
	srv := httptest.NewServer(http.HandlerFunc(ps.handle))
	t.Cleanup(srv.Close)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	return ps, srv, wsURL
}

func (ps *pushServer) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := ps.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	ps.mu.Lock()
	ps.conns = append(ps.conns, conn)
	ps.total++
	ps.mu.Unlock()

	// Drain the reader so close frames are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (ps *pushServer) push(raw []byte) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	for _, conn := range ps.conns {
		_ = conn.WriteMessage(websocket.TextMessage, raw)
	}
}

func (ps *pushServer) pushEnvelope(env models.Envelope) {
	data, err := json.Marshal(env)
	require.NoError(ps.t, err)
	ps.push(data)
}

func (ps *pushServer) closeAll() {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	for _, conn := range ps.conns {
		_ = conn.Close()
	}
}

func (ps *pushServer) connections() int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.total
}

func newStoreAndReconciler(t *testing.T, wsURL string) (*state.Store, *Reconciler) {
	t.Helper()
	store := state.New(&memStorage{}, logging.NewDefault())
	rec := New(wsURL, store, logging.NewDefault())
	store.SetListener(rec)
	t.Cleanup(rec.Close)
	return store, rec
}

func TestCredentialAcquired_OpensChannelAndAppliesNotifications(t *testing.T) {
	ps, _, wsURL := newPushServer(t)
	store, rec := newStoreAndReconciler(t, wsURL)

	store.SetCredential(context.Background(), models.User{ID: 1, Role: models.RoleAdmin}, "tok")

	require.Eventually(t, func() bool { return rec.State() == StateOpen }, time.Second, 10*time.Millisecond)
	require.Equal(t, 1, ps.connections())

	ps.pushEnvelope(models.NewUserCreated(models.User{ID: 2, Username: "bob"}))

	require.Eventually(t, func() bool {
		_, ok := store.User(2)
		return ok
	}, time.Second, 10*time.Millisecond)
}

func TestMalformedMessage_DroppedWithoutClosingChannel(t *testing.T) {
	ps, _, wsURL := newPushServer(t)
	store, rec := newStoreAndReconciler(t, wsURL)

	store.SetCredential(context.Background(), models.User{ID: 1}, "tok")
	require.Eventually(t, func() bool { return rec.State() == StateOpen }, time.Second, 10*time.Millisecond)

	ps.push([]byte("this is not json"))
	ps.push([]byte(`{"type":"user_promoted","data":{}}`))
	ps.pushEnvelope(models.NewUserCreated(models.User{ID: 3, Username: "carol"}))

	require.Eventually(t, func() bool {
		_, ok := store.User(3)
		return ok
	}, time.Second, 10*time.Millisecond)
	require.Equal(t, StateOpen, rec.State())
}

func TestCredentialLost_ClosesChannel(t *testing.T) {
	_, _, wsURL := newPushServer(t)
	store, rec := newStoreAndReconciler(t, wsURL)

	store.SetCredential(context.Background(), models.User{ID: 1}, "tok")
	require.Eventually(t, func() bool { return rec.State() == StateOpen }, time.Second, 10*time.Millisecond)

	store.ClearCredential(context.Background())

	require.Eventually(t, func() bool { return rec.State() == StateClosed }, time.Second, 10*time.Millisecond)
}

func TestReLogin_NeverHoldsTwoConnections(t *testing.T) {
	ps, _, wsURL := newPushServer(t)
	store, rec := newStoreAndReconciler(t, wsURL)
	ctx := context.Background()

	store.SetCredential(ctx, models.User{ID: 1}, "tok-1")
	require.Eventually(t, func() bool { return rec.State() == StateOpen }, time.Second, 10*time.Millisecond)

	store.SetCredential(ctx, models.User{ID: 1}, "tok-2")
	require.Eventually(t, func() bool { return rec.State() == StateOpen }, time.Second, 10*time.Millisecond)

	require.Equal(t, 2, ps.connections(), "each acquisition dials once")

	// The first connection must be closed: pushing on it errors, and only
	// one live connection applies messages.
	ps.pushEnvelope(models.NewUserCreated(models.User{ID: 9}))
	require.Eventually(t, func() bool {
		_, ok := store.User(9)
		return ok
	}, time.Second, 10*time.Millisecond)
}

func TestRemoteClose_LeavesChannelClosedWithoutRetry(t *testing.T) {
	ps, _, wsURL := newPushServer(t)
	store, rec := newStoreAndReconciler(t, wsURL)

	store.SetCredential(context.Background(), models.User{ID: 1}, "tok")
	require.Eventually(t, func() bool { return rec.State() == StateOpen }, time.Second, 10*time.Millisecond)

	ps.closeAll()

	require.Eventually(t, func() bool { return rec.State() == StateClosed }, time.Second, 10*time.Millisecond)
	require.Equal(t, 1, ps.connections(), "no reconnect dial")
}

func TestDialFailure_LeavesReconcilerClosedWithoutRetry(t *testing.T) {
	store := state.New(&memStorage{}, logging.NewDefault())
	rec := New("ws://127.0.0.1:1/ws", store, logging.NewDefault())
	store.SetListener(rec)

	store.SetCredential(context.Background(), models.User{ID: 1}, "tok")

	require.Eventually(t, func() bool { return rec.State() == StateClosed }, time.Second, 10*time.Millisecond)
}

func TestSelfDeleteNotification_TearsDownChannel(t *testing.T) {
	ps, _, wsURL := newPushServer(t)
	store, rec := newStoreAndReconciler(t, wsURL)

	store.SetCredential(context.Background(), models.User{ID: 5, Username: "eva"}, "tok")
	require.Eventually(t, func() bool { return rec.State() == StateOpen }, time.Second, 10*time.Millisecond)

	ps.pushEnvelope(models.NewUserDeleted(5))

	require.Eventually(t, func() bool { return rec.State() == StateClosed }, time.Second, 10*time.Millisecond)
	require.False(t, store.Authenticated())
}

// The command gateway does not touch the mirrors: a created session is
// invisible locally until its broadcast echo arrives.
func TestStalenessWindow_CreateVisibleOnlyAfterEcho(t *testing.T) {
	ps, _, wsURL := newPushServer(t)
	store, rec := newStoreAndReconciler(t, wsURL)

	store.SetCredential(context.Background(), models.User{ID: 1, Role: models.RoleAdmin}, "tok")
	require.Eventually(t, func() bool { return rec.State() == StateOpen }, time.Second, 10*time.Millisecond)

	// Command succeeded server-side and returned the assigned id, but no
	// echo has been delivered yet.
	created := models.Session{ID: 77, Title: "evac drill", Status: models.StatusScheduled}
	_, ok := store.Session(created.ID)
	require.False(t, ok, "mirror must not contain the session before the echo")

	ps.pushEnvelope(models.NewSessionCreated(created))

	require.Eventually(t, func() bool {
		sess, ok := store.Session(created.ID)
		return ok && sess.Title == "evac drill"
	}, time.Second, 10*time.Millisecond)
}
