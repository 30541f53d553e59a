// Package realtime maintains the push channel: one WebSocket connection per
// credential lifetime, whose inbound notifications are folded into the
// session state store.
package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"trainhub/internal/client/state"
	"trainhub/internal/logging"
	"trainhub/internal/models"
)

// ConnState is the reconciler's connection lifecycle state.
type ConnState int

const (
	// StateClosed: no connection and no attempt in progress. Initial state,
	// and terminal for a credential after a transport error or remote close;
	// there is no automatic reconnect.
	StateClosed ConnState = iota
	// StateConnecting: a dial is in progress.
	StateConnecting
	// StateOpen: the channel is established and the read loop is running.
	StateOpen
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	default:
		return "closed"
	}
}

// Reconciler implements state.CredentialListener: acquiring a credential
// opens the channel, losing it closes the channel. Envelope decode failures
// are logged and dropped without closing the channel.
type Reconciler struct {
	endpoint string
	store    *state.Store
	dialer   *websocket.Dialer
	logger   logging.Logger

	mu    sync.Mutex
	state ConnState
	conn  *websocket.Conn
	gen   uint64 // connection generation, read loops from stale connections are ignored
}

func New(endpoint string, store *state.Store, logger logging.Logger) *Reconciler {
	return &Reconciler{
		endpoint: endpoint,
		store:    store,
		dialer:   websocket.DefaultDialer,
		logger:   logger,
	}
}

// State returns the current lifecycle state.
func (r *Reconciler) State() ConnState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// CredentialAcquired opens the push channel. An already open channel for a
// previous credential is closed first so at most one connection exists.
// A failed dial leaves the reconciler Closed; it does not retry.
func (r *Reconciler) CredentialAcquired() {
	ctx := context.Background()

	r.mu.Lock()
	r.closeLocked()
	r.state = StateConnecting
	gen := r.gen
	r.mu.Unlock()

	conn, _, err := r.dialer.Dial(r.endpoint, nil)

	r.mu.Lock()
	if r.gen != gen {
		// The credential changed while dialing; this connection is obsolete.
		r.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		return
	}
	if err != nil {
		r.state = StateClosed
		r.mu.Unlock()
		r.logger.Error(ctx, "push channel dial failed", "endpoint", r.endpoint, "error", err)
		return
	}
	r.conn = conn
	r.state = StateOpen
	r.mu.Unlock()

	r.logger.Info(ctx, "push channel open", "endpoint", r.endpoint)
	go r.readLoop(conn, gen)
}

// CredentialLost tears the channel down.
func (r *Reconciler) CredentialLost() {
	r.mu.Lock()
	r.closeLocked()
	r.mu.Unlock()
}

// Close releases the connection, if any. Safe to call at shutdown.
func (r *Reconciler) Close() {
	r.CredentialLost()
}

// closeLocked closes the active connection and bumps the generation so any
// read loop still attached to it exits quietly. Caller holds r.mu.
func (r *Reconciler) closeLocked() {
	if r.conn != nil {
		_ = r.conn.Close()
		r.conn = nil
	}
	r.state = StateClosed
	r.gen++
}

func (r *Reconciler) readLoop(conn *websocket.Conn, gen uint64) {
	ctx := context.Background()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			r.mu.Lock()
			current := r.gen == gen
			if current {
				// Transport error or remote close: stay down until the
				// credential changes again.
				_ = conn.Close()
				r.conn = nil
				r.state = StateClosed
				r.gen++
			}
			r.mu.Unlock()

			if current && websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				r.logger.Warn(ctx, "push channel lost", "error", err)
			}
			return
		}

		var env models.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			r.logger.Warn(ctx, "discarding undecodable push message", "error", err)
			continue
		}

		if err := r.store.Apply(ctx, env); err != nil {
			// Unknown discriminants and malformed payloads are dropped;
			// the feed stays up.
			r.logger.Warn(ctx, "discarding unapplicable notification", "type", env.Type, "error", err)
		}
	}
}
