package notify

import (
	"context"
	"log/slog"
	"time"
)

// PublishWithRetry attempts to deliver a notification with retry logic.
// It makes up to maxRetries attempts with exponential backoff and gives up
// early when ctx ends. Returns the error from the final attempt.
//
// Notifications are never critical: callers log the error and carry on.
func PublishWithRetry(ctx context.Context, sink Sink, n Notification, maxRetries int) error {
	if sink == nil {
		return nil
	}
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	baseDelay := 50 * time.Millisecond

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := sink.Notify(ctx, n)
		if err == nil {
			if attempt > 0 {
				slog.Debug("notification delivered after retry",
					"attempt", attempt+1,
					"kind", n.Kind,
					"tenant", n.TenantID)
			}
			return nil
		}

		lastErr = err

		// Don't sleep after the last attempt
		if attempt < maxRetries-1 {
			// Exponential backoff: 50ms, 100ms, 200ms
			delay := baseDelay * (1 << attempt)
			slog.Debug("notification delivery failed, retrying",
				"attempt", attempt+1,
				"max_retries", maxRetries,
				"retry_delay", delay,
				"error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	slog.Warn("notification delivery failed after all retries",
		"attempts", maxRetries,
		"kind", n.Kind,
		"tenant", n.TenantID,
		"error", lastErr)

	return lastErr
}
