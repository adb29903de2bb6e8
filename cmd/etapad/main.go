// Command etapad serves the board API as a long-running service, for hosts
// where it is supervised by systemd or a container runtime.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/thenoetrevino/etapa/internal/app"
	"github.com/thenoetrevino/etapa/internal/config"
	"github.com/thenoetrevino/etapa/internal/logging"
)

func main() {
	// Set up signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancel()

	// Services log to stderr for the supervisor's journal
	logger := logging.New(os.Stderr, logging.ParseLevel(os.Getenv("ETAPA_LOG_LEVEL")))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.API.BaseURL != "" {
		slog.Error("api.base_url is set; etapad must own the database")
		os.Exit(1)
	}

	a, err := app.New(ctx, cfg, app.WithLogger(logger))
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Error("error during shutdown", "error", err)
		}
	}()

	server, err := a.APIServer()
	if err != nil {
		slog.Error("failed to create api server", "error", err)
		os.Exit(1)
	}

	slog.Info("etapad starting", "addr", cfg.API.Addr, "driver", cfg.Database.Driver, "pid", os.Getpid())

	// Blocks until a signal cancels ctx
	if err := server.Run(ctx, cfg.API.Addr); err != nil {
		slog.Error("server error", "error", err)
		return
	}

	slog.Info("etapad shutting down gracefully")
}
