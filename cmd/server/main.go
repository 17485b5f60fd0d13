package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pscheid92/watchlist/internal/adapter/httpserver"
	"github.com/pscheid92/watchlist/internal/adapter/postgres"
	"github.com/pscheid92/watchlist/internal/metrics"
	"github.com/pscheid92/watchlist/internal/platform/config"
	"github.com/pscheid92/watchlist/internal/platform/logging"
	"github.com/pscheid92/watchlist/internal/platform/version"
)

func runGracefulShutdown(srv *httpserver.Server, db *postgres.DB) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		db.Close()
		close(done)
	}()

	return done
}

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *postgres.DB {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.Database())
	if err != nil {
		slog.Error("Invalid database configuration", "error", err)
		os.Exit(1)
	}
	if !db.Configured() {
		slog.Warn("Starting without a database; persistence calls will report not_configured")
	}
	return db
}

func main() {
	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)

	info := version.Get()
	metrics.BuildInfo.WithLabelValues(info.Version, info.Commit, info.BuildTime, info.GoVersion).Set(1)
	slog.Info("Application starting", "config", cfg, "build", info)

	db := setupDB(cfg)

	srv := httpserver.NewServer(cfg, db)
	done := runGracefulShutdown(srv, db)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
