package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultChannelPrefix namespaces the per-tenant channels and history lists
const DefaultChannelPrefix = "etapa:notify:"

// RedisSink publishes notifications on a per-tenant channel and keeps the
// latest ones in a capped list so an out-of-process shell can replay them.
type RedisSink struct {
	client  *redis.Client
	prefix  string
	history int64
}

// NewRedisSink connects to redisURL and checks the connection
func NewRedisSink(redisURL, prefix string, history int) (*RedisSink, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisSinkWithClient(client, prefix, history), nil
}

// NewRedisSinkWithClient creates a sink from an existing Redis client
func NewRedisSinkWithClient(client *redis.Client, prefix string, history int) *RedisSink {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	if history <= 0 {
		history = 50
	}
	return &RedisSink{client: client, prefix: prefix, history: int64(history)}
}

// Channel is the pub/sub channel of a tenant
func (s *RedisSink) Channel(tenantID string) string {
	return s.prefix + tenantID
}

func (s *RedisSink) historyKey(tenantID string) string {
	return s.prefix + tenantID + ":history"
}

func (s *RedisSink) Notify(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	key := s.historyKey(n.TenantID)
	_, err = s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		p.Publish(ctx, s.Channel(n.TenantID), payload)
		p.LPush(ctx, key, payload)
		p.LTrim(ctx, key, 0, s.history-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

// History returns up to limit of the tenant's latest notifications, newest first
func (s *RedisSink) History(ctx context.Context, tenantID string, limit int) ([]Notification, error) {
	if limit <= 0 {
		limit = int(s.history)
	}
	raw, err := s.client.LRange(ctx, s.historyKey(tenantID), 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read notification history: %w", err)
	}
	out := make([]Notification, 0, len(raw))
	for _, r := range raw {
		var n Notification
		if err := json.Unmarshal([]byte(r), &n); err != nil {
			return nil, fmt.Errorf("unmarshal notification: %w", err)
		}
		out = append(out, n)
	}
	return out, nil
}

// Ping checks if Redis is reachable
func (s *RedisSink) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *RedisSink) Close() error {
	return s.client.Close()
}
