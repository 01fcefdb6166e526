// Package app assembles a session from the environment. The web server, the
// CLI and the seeder share it.
package app

import (
	"context"
	"fmt"

	"github.com/mdayat/nur-ramadan/configs"
	"github.com/mdayat/nur-ramadan/internal/catalog"
	"github.com/mdayat/nur-ramadan/internal/kvstore"
	"github.com/mdayat/nur-ramadan/internal/persistence"
	"github.com/mdayat/nur-ramadan/internal/remote"
	"github.com/mdayat/nur-ramadan/internal/services"
	"github.com/rs/zerolog/log"
)

type App struct {
	Configs configs.Configs
	Store   kvstore.Store
	Session *services.Session
	db      *configs.Db
}

// OpenStore opens the device store named by STORE_DRIVER. The returned Db is
// nil unless the driver is postgres.
func OpenStore(ctx context.Context, env configs.Env) (kvstore.Store, *configs.Db, error) {
	switch env.StoreDriver {
	case "memory":
		return kvstore.NewMemoryStore(), nil, nil
	case "sqlite":
		store, err := kvstore.NewSQLiteStore(ctx, env.StorePath)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	case "postgres":
		db, err := configs.NewDb(ctx, env.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}

		store, err := kvstore.NewPostgresStore(ctx, db.Conn)
		if err != nil {
			db.Conn.Close()
			return nil, nil, err
		}
		return store, &db, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", env.StoreDriver)
	}
}

// Open builds the adapter for env.Mode and loads the session once.
func Open(ctx context.Context, env configs.Env) (*App, error) {
	logger := log.Ctx(ctx).With().Str("mode", string(env.Mode)).Str("store", env.StoreDriver).Logger()

	loc, err := env.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}

	store, db, err := OpenStore(ctx, env)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	app := &App{
		Configs: configs.NewConfigs(env),
		Store:   store,
		db:      db,
	}

	var adapter persistence.Adapter
	switch env.Mode {
	case configs.Connected:
		token, err := persistence.EnsureToken(ctx, store)
		if err != nil {
			app.Close()
			return nil, err
		}
		adapter = persistence.NewRemoteAdapter(remote.NewClient(env.APIBaseURL, token, env.APITimeout))
	case configs.Disconnected:
		duas, err := catalog.Duas(app.Configs.Validate)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to load dua catalog: %w", err)
		}
		adapter = persistence.NewLocalAdapter(store, duas)
	default:
		app.Close()
		return nil, fmt.Errorf("unknown MODE %q", env.Mode)
	}

	app.Session = services.NewSession(app.Configs, adapter, store, services.NewSystemClock(loc))
	if err := app.Session.Load(ctx); err != nil {
		app.Close()
		return nil, err
	}

	logger.Info().Msg("successfully opened app")
	return app, nil
}

func (a *App) Close() {
	if a.Session != nil {
		a.Session.Close()
	}

	if err := a.Store.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close store")
	}

	if a.db != nil {
		a.db.Conn.Close()
	}
}
