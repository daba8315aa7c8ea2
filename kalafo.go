// Package kalafo assembles the client core of the Kalafo telemedicine
// application: credential store, API client, session service and route
// guard, wired together the way the pieces depend on each other.
//
//	cfg := config.Load()
//	log := logger.Init(logger.Options{Level: cfg.LogLevel})
//	app, err := kalafo.New(ctx, cfg, log)
//
// On construction the persisted session (if any) is rehydrated, so the
// first outbound request already carries the restored credential.
package kalafo

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/kalafo/kalafo-go/internal/api"
	"github.com/kalafo/kalafo-go/internal/core/ports"
	"github.com/kalafo/kalafo-go/internal/core/service"
	"github.com/kalafo/kalafo-go/internal/infrastructure/credstore"
	"github.com/kalafo/kalafo-go/internal/infrastructure/db/redis"
	"github.com/kalafo/kalafo-go/internal/pkg/config"
)

// App is the assembled client core.
type App struct {
	Config    *config.Config
	Store     ports.CredentialStore
	Client    *api.Client
	Sessions  *service.SessionService
	Navigator *service.Navigator

	rdb *goredis.Client
}

// New wires the client core from configuration. The credential backend is
// selected by cfg.Store.Backend (file, redis, memory); a redis backend
// that cannot be reached is a construction error, not a degraded mode;
// degradation is only for backends that break later.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	policy := service.DefaultRoutePolicy()
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	app := &App{Config: cfg}

	switch cfg.Store.Backend {
	case "file", "":
		app.Store = credstore.NewFileStore(cfg.Store.Dir, log)
	case "redis":
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Store.Redis.Addr, DB: cfg.Store.Redis.DB})
		if err != nil {
			return nil, fmt.Errorf("credential store: %w", err)
		}
		app.rdb = rdb
		app.Store = credstore.NewRedisStore(rdb, log)
	case "memory":
		app.Store = credstore.NewMemoryStore()
	default:
		return nil, fmt.Errorf("credential store: unknown backend %q", cfg.Store.Backend)
	}

	app.Client = api.NewClient(cfg.BaseURL, cfg.RequestTimeout, app.Store, log)
	app.Sessions = service.NewSessionService(app.Store, app.Client, log)
	app.Navigator = service.NewNavigator(policy, app.Sessions, log)

	app.Sessions.Rehydrate()

	return app, nil
}

// ErrorMessage reduces any error raised by the client core to its single
// user-facing message. Safe on errors from any component.
func ErrorMessage(err error) string {
	return api.ErrorMessage(err)
}

// Close releases backend connections and detaches the navigator.
func (a *App) Close() error {
	a.Navigator.Close()
	if a.rdb != nil {
		return a.rdb.Close()
	}
	return nil
}
