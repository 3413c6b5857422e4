// Package app wires the stores, services and router from configuration.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/shrink-ray/pkg/adapters/handler"
	"github.com/wadjakorntonsri/shrink-ray/pkg/adapters/password"
	"github.com/wadjakorntonsri/shrink-ray/pkg/adapters/repository"
	"github.com/wadjakorntonsri/shrink-ray/pkg/adapters/session"
	"github.com/wadjakorntonsri/shrink-ray/pkg/config"
	"github.com/wadjakorntonsri/shrink-ray/pkg/core/services"
	"github.com/wadjakorntonsri/shrink-ray/pkg/ports"
)

type App struct {
	Handler http.Handler
	Store   ports.Store

	closers []func() error
}

// New opens the configured store and session backend. Callers must Close
// the returned App.
func New(cfg *config.Config, log *zerolog.Logger) (*App, error) {
	store, err := repository.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a := &App{Store: store, closers: []func() error{store.Close}}

	sessions, err := a.sessionStore(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	hasher := password.NewArgon2Hasher(password.DefaultParams)
	a.Handler = handler.NewRouter(log,
		services.NewAccountService(store, hasher),
		services.NewLinkService(store, store),
		sessions,
		store,
	)

	log.Info().
		Bool("postgres", repository.IsPostgres(cfg.DatabaseURL)).
		Str("sessions", cfg.SessionStore).
		Msg("application wired")
	return a, nil
}

func (a *App) sessionStore(cfg *config.Config) (ports.SessionStore, error) {
	if cfg.SessionStore != config.SessionStoreRedis {
		return session.NewCookieStore(cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction()), nil
	}

	client, err := session.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Close)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return session.NewRedisStore(client, cfg.SessionTTL, cfg.IsProduction()), nil
}

func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}
