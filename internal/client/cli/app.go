package cli

import (
	"bufio"
	"context"
	"errors"
	"os"

	"trainhub/internal/client/api"
	"trainhub/internal/client/config"
	"trainhub/internal/client/realtime"
	"trainhub/internal/client/state"
	"trainhub/internal/client/storage"
	"trainhub/internal/logging"
)

// App wires the client together: the credential storage, the mirror store,
// the command gateway and the push reconciler.
type App struct {
	config     *config.Config
	logger     logging.Logger
	storage    storage.Storage
	store      *state.Store
	gateway    *api.Client
	reconciler *realtime.Reconciler
	reader     *bufio.Reader
}

func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	st, err := storage.Open(ctx, cfg.StoragePath)
	if err != nil {
		return nil, err
	}

	store := state.New(st, logger)
	gateway := api.New(cfg.ServerURL, store, logger)
	reconciler := realtime.New(cfg.PushURL, store, logger)
	store.SetListener(reconciler)

	return &App{
		config:     cfg,
		logger:     logger,
		storage:    st,
		store:      store,
		gateway:    gateway,
		reconciler: reconciler,
		reader:     bufio.NewReader(os.Stdin),
	}, nil
}

// Run restores a persisted credential, refreshes the mirrors when one is
// present, and enters the command loop. It returns when the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.reconciler.Close()
	defer func() { _ = a.storage.Close() }()

	a.store.Restore(ctx)
	if a.store.Authenticated() {
		a.refreshMirrors(ctx)
	}

	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.store.Authenticated()
}

// refreshMirrors bulk-fetches the collections the principal may read. A
// trainee is not allowed to list users; that refusal is expected and the
// user mirror simply stays empty.
func (a *App) refreshMirrors(ctx context.Context) {
	users, err := a.gateway.ListUsers(ctx)
	if err != nil {
		var remote *api.RemoteError
		if !errors.As(err, &remote) || remote.StatusCode != 403 {
			a.logger.Warn(ctx, "user list refresh failed", "error", err)
		}
	} else {
		a.store.ReplaceUsers(users)
	}

	sessions, err := a.gateway.ListSessions(ctx)
	if err != nil {
		a.logger.Warn(ctx, "session list refresh failed", "error", err)
		return
	}
	a.store.ReplaceSessions(sessions)
}
