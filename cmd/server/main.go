// Command server runs the outreach manager HTTP API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/reachforge/outreach/internal/config"
	"github.com/reachforge/outreach/internal/core"
	"github.com/reachforge/outreach/internal/database"
	"github.com/reachforge/outreach/internal/logging"
	"github.com/reachforge/outreach/internal/repository/memory"
	"github.com/reachforge/outreach/internal/repository/postgres"
	"github.com/reachforge/outreach/internal/web"
	"github.com/reachforge/outreach/migrations"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, cleanup, err := buildRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	service := core.NewService(repos)
	service.SetImportWorkers(cfg.Import.Workers)

	server := web.NewServer(service, cfg)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting",
			"addr", cfg.Server.Addr(),
			"storage", cfg.Storage.Driver,
			"auth_disabled", cfg.Auth.Disabled,
		)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildRepositories constructs the storage backend selected by
// STORAGE_DRIVER. The postgres path runs embedded migrations before
// handing out the pool.
func buildRepositories(ctx context.Context, cfg *config.Config) (core.Repositories, func(), error) {
	noop := func() {}

	switch cfg.Storage.Driver {
	case "postgres":
		if err := database.RunMigrations(migrations.FS, cfg.Database.URL); err != nil {
			return core.Repositories{}, noop, err
		}

		pool, err := postgres.NewPool(ctx, cfg.Database.URL,
			int32(cfg.Database.MaxConns), int32(cfg.Database.MinConns),
			cfg.Database.MaxConnLifetime, cfg.Database.MaxConnIdleTime)
		if err != nil {
			return core.Repositories{}, noop, err
		}

		store := postgres.NewStore(pool)
		return core.Repositories{
			Lists:      store,
			Contacts:   store,
			Templates:  store,
			Activities: store,
		}, pool.Close, nil

	default:
		store := memory.NewStore()
		return core.Repositories{
			Lists:      store,
			Contacts:   store,
			Templates:  store,
			Activities: store,
		}, noop, nil
	}
}
