package notify

import (
	"context"
	"errors"
	"testing"
	"time"
)

// mockRetrySink fails until a given attempt
type mockRetrySink struct {
	sendAttempts int
	failUntil    int // Fail until this attempt number (0-indexed)
	last         Notification
}

func (m *mockRetrySink) Notify(_ context.Context, n Notification) error {
	m.last = n
	currentAttempt := m.sendAttempts
	m.sendAttempts++

	if currentAttempt < m.failUntil {
		return errors.New("simulated send failure")
	}
	return nil
}

func TestPublishWithRetry_Success(t *testing.T) {
	mock := &mockRetrySink{failUntil: 0}
	n := Notification{Kind: KindSuccess, TenantID: "acme"}

	if err := PublishWithRetry(context.Background(), mock, n, 3); err != nil {
		t.Errorf("Expected success, got error: %v", err)
	}
	if mock.sendAttempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", mock.sendAttempts)
	}
	if mock.last.TenantID != "acme" {
		t.Errorf("Expected tenant acme, got %q", mock.last.TenantID)
	}
}

func TestPublishWithRetry_SuccessAfterRetries(t *testing.T) {
	// Fail first 2 attempts, succeed on 3rd
	mock := &mockRetrySink{failUntil: 2}

	if err := PublishWithRetry(context.Background(), mock, Notification{Kind: KindError}, 3); err != nil {
		t.Errorf("Expected success after retries, got error: %v", err)
	}
	if mock.sendAttempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", mock.sendAttempts)
	}
}

func TestPublishWithRetry_FailureAfterAllRetries(t *testing.T) {
	mock := &mockRetrySink{failUntil: 999}

	start := time.Now()
	err := PublishWithRetry(context.Background(), mock, Notification{}, 3)
	elapsed := time.Since(start)

	if err == nil {
		t.Error("Expected error after all retries, got nil")
	}
	if mock.sendAttempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", mock.sendAttempts)
	}
	// 50ms + 100ms of backoff between the three attempts
	if elapsed < 150*time.Millisecond {
		t.Errorf("Expected at least 150ms of backoff, got %v", elapsed)
	}
}

func TestPublishWithRetry_ContextCancelled(t *testing.T) {
	mock := &mockRetrySink{failUntil: 999}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := PublishWithRetry(ctx, mock, Notification{}, 5)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if mock.sendAttempts != 1 {
		t.Errorf("Expected 1 attempt before giving up, got %d", mock.sendAttempts)
	}
}

func TestPublishWithRetry_NilSink(t *testing.T) {
	if err := PublishWithRetry(context.Background(), nil, Notification{}, 3); err != nil {
		t.Errorf("Expected nil error for nil sink, got %v", err)
	}
}
