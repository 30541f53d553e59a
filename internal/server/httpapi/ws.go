package httpapi

import (
	"net/http"

	"github.com/gorilla/websocket"

	"trainhub/internal/server/hub"
	"trainhub/internal/server/obs"
)

// ServeWS upgrades the connection and streams change notifications until the
// peer goes away. Incoming frames are drained and discarded; the channel is
// one-way.
func (a *API) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.logger.Warn(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	client := hub.NewClient()
	a.hub.Register(client)
	obs.PushClientConnected()
	a.logger.Info(r.Context(), "push client connected", "client", client.ID)

	// Reader: detect disconnects and process close frames.
	go func() {
		defer func() {
			a.hub.Unregister(client)
			_ = conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Writer: drain the send queue until the hub closes it.
	go func() {
		defer func() {
			obs.PushClientDisconnected()
			_ = conn.Close()
			a.logger.Info(r.Context(), "push client disconnected", "client", client.ID)
		}()
		for payload := range client.Send {
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				a.hub.Unregister(client)
				return
			}
		}
	}()
}
