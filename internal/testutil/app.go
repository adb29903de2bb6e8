// Package testutil builds in-memory applications and runs CLI commands
// against them.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/etapa/internal/app"
	"github.com/thenoetrevino/etapa/internal/cli"
	"github.com/thenoetrevino/etapa/internal/config"
	"github.com/thenoetrevino/etapa/internal/models"
)

// Config returns the default configuration backed by an in-memory SQLite store
func Config() *config.Config {
	cfg := config.Default()
	cfg.Database.DSN = ":memory:"
	return cfg
}

// SetupApp creates an App over a fresh in-memory store. Cleanup is automatic
// via t.Cleanup().
func SetupApp(t *testing.T) *app.App {
	t.Helper()
	return SetupAppWithConfig(t, Config())
}

// SetupAppWithConfig is SetupApp with a caller-supplied configuration
func SetupAppWithConfig(t *testing.T, cfg *config.Config) *app.App {
	t.Helper()

	a, err := app.New(context.Background(), cfg,
		app.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		app.WithClock(TickingClock(time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC), time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to create test app: %v", err)
	}
	t.Cleanup(func() {
		if err := a.Close(); err != nil {
			t.Logf("Warning: app close error during cleanup: %v", err)
		}
	})
	return a
}

// TickingClock returns a clock that starts at start and advances by step on
// every call, so rows created in a row get distinct timestamps
func TickingClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := next
		next = next.Add(step)
		return now
	}
}

// ExecuteCommand runs cmd with args against a and returns what it wrote to
// stdout and stderr
func ExecuteCommand(t *testing.T, a *app.App, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	SetupCobraCommand(cmd, args)

	err := cmd.ExecuteContext(cli.WithApp(context.Background(), a))
	return stdout.String(), stderr.String(), err
}

// ParseJSON parses JSON output from CLI commands
func ParseJSON(t *testing.T, output string) map[string]any {
	t.Helper()

	var result map[string]any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\nOutput: %s", err, output)
	}
	return result
}

// SetupCobraCommand sets up a cobra command with args for testing
func SetupCobraCommand(cmd *cobra.Command, args []string) {
	cmd.SetArgs(args)
	// Disable usage output on error for cleaner test output
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
}

// SeedStage creates a stage straight in the store
func SeedStage(t *testing.T, a *app.App, tenant, label string) *models.Stage {
	t.Helper()

	s, err := a.Store.CreateColumn(context.Background(), tenant, label, "")
	if err != nil {
		t.Fatalf("Failed to seed stage %q: %v", label, err)
	}
	return s
}

// SeedDeal creates a deal straight in the store
func SeedDeal(t *testing.T, a *app.App, stageID, title string, amount int64) *models.Deal {
	t.Helper()

	d, err := a.Store.CreateCard(context.Background(), stageID, models.DealDraft{Title: title, Amount: amount})
	if err != nil {
		t.Fatalf("Failed to seed deal %q: %v", title, err)
	}
	return d
}
