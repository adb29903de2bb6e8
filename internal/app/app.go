// Package app is the application container: it builds the store or remote,
// the session cache, metrics and notification sinks from the configuration,
// and hands out board controllers wired to them.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/thenoetrevino/etapa/internal/api"
	"github.com/thenoetrevino/etapa/internal/board"
	"github.com/thenoetrevino/etapa/internal/cache"
	"github.com/thenoetrevino/etapa/internal/config"
	"github.com/thenoetrevino/etapa/internal/database"
	"github.com/thenoetrevino/etapa/internal/metrics"
	"github.com/thenoetrevino/etapa/internal/notify"
)

// ErrRemoteMode is returned when an operation needs the local database but
// the application is configured against an API server.
var ErrRemoteMode = errors.New("not available when api.base_url is set")

// App holds all application services and provides dependency injection.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	// Store is nil when the board talks to an API server
	Store  *database.Repository
	Remote board.Remote

	Cache    *cache.BoardCache
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry

	db    *sql.DB
	redis *notify.RedisSink
}

// New creates a new App with all services initialized.
// This is the single entry point for creating the application container.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	options := appConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&options)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	a := &App{
		Config:   cfg,
		Logger:   options.logger,
		Cache:    cache.New(m),
		Metrics:  m,
		Registry: reg,
	}

	if err := a.initRemote(ctx, options); err != nil {
		return nil, err
	}

	if cfg.Notify.RedisURL != "" {
		sink, err := notify.NewRedisSink(cfg.Notify.RedisURL, cfg.Notify.ChannelPrefix, cfg.Notify.History)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.redis = sink
	}

	return a, nil
}

func (a *App) initRemote(ctx context.Context, options appConfig) error {
	cfg := a.Config
	if cfg.API.BaseURL != "" {
		client, err := api.NewClient(cfg.API.BaseURL, api.WithToken(cfg.API.Token))
		if err != nil {
			return err
		}
		a.Remote = client
		return nil
	}

	dialect, err := database.ParseDialect(cfg.Database.Driver)
	if err != nil {
		return err
	}

	db := options.db
	if db == nil {
		db, err = database.Open(ctx, dialect, cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("open %s store: %w", dialect, err)
		}
		a.db = db
	}

	repoOpts := []database.Option{
		database.WithDialect(dialect),
		database.WithArchivePolicy(cfg.ArchivePolicy()),
		database.WithLogger(a.Logger),
	}
	if options.clock != nil {
		repoOpts = append(repoOpts, database.WithClock(options.clock))
	}
	a.Store = database.NewRepository(db, repoOpts...)
	a.Remote = a.Store
	return nil
}

// Sink returns where controller notifications go: the redis sink when
// configured, plus any extra sinks such as a view's toast queue.
func (a *App) Sink(extra ...notify.Sink) notify.Sink {
	sinks := notify.Multi{}
	if a.redis != nil {
		sinks = append(sinks, a.redis)
	}
	sinks = append(sinks, extra...)
	if len(sinks) == 0 {
		return notify.NewLogSink(a.Logger)
	}
	return sinks
}

// Redis returns the redis sink, or nil when notifications stay in process
func (a *App) Redis() *notify.RedisSink {
	return a.redis
}

// Controller creates a board controller for tenantID sharing the
// application cache and metrics
func (a *App) Controller(tenantID string, extra ...notify.Sink) (*board.Controller, error) {
	return board.New(tenantID, a.Remote,
		board.WithCache(a.Cache),
		board.WithSink(a.Sink(extra...)),
		board.WithMetrics(a.Metrics),
		board.WithLogger(a.Logger),
		board.WithArchivePolicy(a.Config.ArchivePolicy()),
		board.WithAdjacentOnly(a.Config.Board.AdjacentOnly),
	)
}

// APIServer builds the HTTP surface over the local store
func (a *App) APIServer() (*api.Server, error) {
	if a.Store == nil {
		return nil, fmt.Errorf("serve api: %w", ErrRemoteMode)
	}
	return api.NewServer(a.Store,
		api.WithTokens(a.Config.API.Tokens),
		api.WithMetrics(a.Metrics, a.Registry),
		api.WithLogger(a.Logger),
	), nil
}

// Close releases the database and redis connections the App opened
func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
