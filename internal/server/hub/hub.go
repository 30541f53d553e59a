// Package hub fans change notifications out to the connected push clients.
// Every client receives every notification; filtering is the client's job.
package hub

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"trainhub/internal/logging"
)

// Client is one connected push subscriber. Send is drained by the
// connection's writer goroutine.
type Client struct {
	ID   string
	Send chan []byte
}

// NewClient allocates a subscriber with a buffered send queue.
func NewClient() *Client {
	return &Client{
		ID:   uuid.NewString(),
		Send: make(chan []byte, 32),
	}
}

type Hub struct {
	logger logging.Logger

	mu      sync.RWMutex
	clients map[string]*Client
}

func New(logger logging.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[string]*Client),
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	delete(h.clients, client.ID)
	close(client.Send)
}

// Broadcast queues payload for every connected client. A client whose queue
// is full misses the message rather than stalling the rest.
func (h *Hub) Broadcast(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		select {
		case client.Send <- payload:
		default:
			h.logger.Warn(context.Background(), "dropping notification for slow client", "client", client.ID)
		}
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
