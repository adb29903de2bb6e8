// Package notify carries the short success/error messages the board emits
// after every committed or rolled-back mutation. How they are rendered is up
// to the sink.
package notify

import (
	"context"
	"time"
)

// Kind is the semantic kind of a notification
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is one toast-worthy message
type Notification struct {
	Kind       Kind      `json:"kind"`
	TenantID   string    `json:"tenant_id"`
	Op         string    `json:"op"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
	SequenceID int64     `json:"sequence_id"` // monotonically increasing per controller
}

// Sink receives notifications. Implementations must be safe for concurrent use.
type Sink interface {
	Notify(ctx context.Context, n Notification) error
}

// Compile-time verification that every sink implements Sink
var (
	_ Sink = (*LogSink)(nil)
	_ Sink = (*MemorySink)(nil)
	_ Sink = (*RedisSink)(nil)
	_ Sink = Multi(nil)
)
