// Package cli holds what every etapa subcommand shares: the application
// handle, output formatting and exit codes.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/etapa/internal/app"
	"github.com/thenoetrevino/etapa/internal/board"
	"github.com/thenoetrevino/etapa/internal/config"
	"github.com/thenoetrevino/etapa/internal/notify"
)

type contextKey string

const appKey contextKey = "etapa.app"

// CLI represents the CLI application context
type CLI struct {
	App  *app.App
	owns bool
}

// WithApp stores an already built App in ctx; commands then use it instead
// of building their own and leave closing it to the caller.
func WithApp(ctx context.Context, a *app.App) context.Context {
	return context.WithValue(ctx, appKey, a)
}

// GetCLIFromContext returns the App carried by ctx, or builds one from the
// user's configuration.
func GetCLIFromContext(ctx context.Context) (*CLI, error) {
	if a, ok := ctx.Value(appKey).(*app.App); ok && a != nil {
		return &CLI{App: a}, nil
	}
	return NewCLI(ctx)
}

// NewCLI initializes the CLI from the configuration file and environment
func NewCLI(ctx context.Context) (*CLI, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	a, err := app.New(ctx, cfg, app.WithLogger(slog.Default()))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return &CLI{App: a, owns: true}, nil
}

// Close cleans up CLI resources
func (c *CLI) Close() error {
	if !c.owns {
		return nil
	}
	return c.App.Close()
}

// Tenant resolves the --tenant flag, falling back to board.tenant
func (c *CLI) Tenant(cmd *cobra.Command) string {
	if f := cmd.Flags().Lookup("tenant"); f != nil && f.Changed {
		return f.Value.String()
	}
	return c.App.Config.Board.Tenant
}

// LoadedController returns a controller for tenant with its board loaded.
// Notifications are logged and, when configured, published to redis.
func (c *CLI) LoadedController(ctx context.Context, tenant string, sinks ...notify.Sink) (*board.Controller, error) {
	ctrl, err := c.App.Controller(tenant, sinks...)
	if err != nil {
		return nil, err
	}
	if _, err := ctrl.Load(ctx); err != nil {
		return nil, err
	}
	return ctrl, nil
}

// Open returns the CLI for cmd and a formatter for its output flags. On
// failure the error is already reported.
func Open(cmd *cobra.Command) (*CLI, *OutputFormatter, error) {
	formatter := FormatterFor(cmd)
	c, err := GetCLIFromContext(cmd.Context())
	if err != nil {
		return nil, formatter, formatter.Fail("INITIALIZATION_ERROR", err)
	}
	return c, formatter, nil
}

// CloseQuietly closes c, logging any error
func CloseQuietly(c *CLI) {
	if err := c.Close(); err != nil {
		slog.Error("Error closing CLI", "error", err)
	}
}

// AddTenantFlag registers --tenant on cmd
func AddTenantFlag(cmd *cobra.Command) {
	cmd.Flags().String("tenant", "", "Tenant whose board to use (defaults to board.tenant)")
}

// AddOutputFlags registers the agent-friendly --json and --quiet flags
func AddOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (ID only)")
}
