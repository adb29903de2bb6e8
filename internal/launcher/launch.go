// Package launcher runs the interactive board until the user quits or the
// process is signalled.
package launcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/thenoetrevino/etapa/internal/app"
	"github.com/thenoetrevino/etapa/internal/board"
	"github.com/thenoetrevino/etapa/internal/notify"
	"github.com/thenoetrevino/etapa/internal/tui"
)

// DrainTimeout bounds how long shutdown waits for in-flight writes. It
// matches the bound each write runs under.
const DrainTimeout = tui.WriteTimeout

// Launch opens the board of tenant in the terminal
func Launch(ctx context.Context, a *app.App, tenant string) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	toasts := notify.NewMemorySink()
	ctrl, err := a.Controller(tenant, toasts)
	if err != nil {
		return fmt.Errorf("failed to create board controller: %w", err)
	}

	model := tui.New(ctx, ctrl, toasts, a.Config)
	p := tea.NewProgram(model, tea.WithContext(ctx))

	// goroutine to monitor cancellation
	errChan := make(chan error, 1)
	go func() {
		_, err := p.Run()
		errChan <- err
	}()

	select {
	case err := <-errChan:
		drain(ctrl, DrainTimeout)
		if err != nil && ctx.Err() == nil {
			return fmt.Errorf("error running program: %w", err)
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received, cleaning up")
		ctrl.Detach()
		drain(ctrl, DrainTimeout)
	}
	return nil
}

// drain waits until ctrl has no write in flight or timeout elapses
func drain(ctrl *board.Controller, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for ctrl.InFlight() > 0 {
		if time.Now().After(deadline) {
			slog.Warn("drain period elapsed with writes in flight", "in_flight", ctrl.InFlight())
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
}
