// Package agent собирает и запускает устройство-агент Trakio: локальное
// хранилище, координатор сохранения, наблюдатель сети и loopback API для UI.
package agent

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/trakio/trakio/internal/agent/coordinator"
	"github.com/trakio/trakio/internal/agent/localstore"
	"github.com/trakio/trakio/internal/agent/netwatch"
	"github.com/trakio/trakio/internal/agent/remote"
	"github.com/trakio/trakio/internal/config"
	"github.com/trakio/trakio/internal/http/handlers/local/flush"
	"github.com/trakio/trakio/internal/http/handlers/local/load"
	"github.com/trakio/trakio/internal/http/handlers/local/save"
	"github.com/trakio/trakio/internal/http/handlers/local/syncup"
)

type App struct {
	server *http.Server
	probe  *netwatch.Probe
	store  *localstore.Store
	logger *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, err := localstore.Open(cfg.Agent.StorePath, logger)
	if err != nil {
		return nil, err
	}

	client := remote.New(cfg.Agent.RemoteURL, cfg.Agent.Token)
	probe := netwatch.NewProbe(cfg.Agent.RemoteURL+"/health",
		cfg.Agent.ProbeInterval, cfg.Agent.ProbeTimeout, logger)
	coord := coordinator.New(store, client, probe, logger)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
	)

	email := cfg.Agent.Email
	router.Get("/load", load.New(logger, coord, email).ServeHTTP)
	router.Post("/persist", save.New(logger, coord, email).ServeHTTP)
	router.Post("/flush", flush.New(logger, coord).ServeHTTP)
	router.Post("/sync", syncup.New(logger, coord, email).ServeHTTP)

	srv := &http.Server{
		Addr:    cfg.Agent.AddressLocal,
		Handler: router,
	}

	return &App{
		server: srv,
		probe:  probe,
		store:  store,
		logger: logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	go a.probe.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("local API starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down local API gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.store.Close()
		return err
	}
}
