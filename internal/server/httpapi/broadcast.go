package httpapi

import (
	"context"
	"encoding/json"

	"trainhub/internal/models"
	"trainhub/internal/server/obs"
)

// broadcast fans a change notification out to every push client.
func (a *API) broadcast(ctx context.Context, env models.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		a.logger.Error(ctx, "notification marshal failed", "type", env.Type, "error", err)
		return
	}
	a.hub.Broadcast(data)
	obs.BroadcastSent(string(env.Type))
}
