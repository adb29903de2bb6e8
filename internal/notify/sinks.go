package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// LogSink writes notifications to a structured logger
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink; a nil logger means slog.Default()
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(ctx context.Context, n Notification) error {
	level := slog.LevelInfo
	if n.Kind == KindError {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, n.Message,
		"kind", n.Kind,
		"tenant", n.TenantID,
		"op", n.Op,
		"seq", n.SequenceID)
	return nil
}

// MemorySink buffers notifications until drained. The terminal board renders
// its toasts from one.
type MemorySink struct {
	mu    sync.Mutex
	items []Notification
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Notify(_ context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, n)
	return nil
}

// Drain returns the buffered notifications and empties the buffer
func (s *MemorySink) Drain() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.items
	s.items = nil
	return out
}

// Len returns the number of buffered notifications
func (s *MemorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Multi fans a notification out to every sink. All sinks are tried; their
// errors are joined.
type Multi []Sink

func (m Multi) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
