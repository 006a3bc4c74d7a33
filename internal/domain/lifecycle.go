package domain

import (
	"context"
	"time"
)

// LifecycleEventType is the routing key of an account lifecycle event.
type LifecycleEventType string

const (
	EventUserRegistered LifecycleEventType = "user.registered"
	EventUserVerified   LifecycleEventType = "user.verified"
)

// LifecycleEvent is published after an account changes state.
type LifecycleEvent struct {
	EventID       string             `json:"eventId"`
	CorrelationID string             `json:"correlationId"`
	Type          LifecycleEventType `json:"type"`
	Timestamp     time.Time          `json:"timestamp"`
	User          PublicUser         `json:"user"`
}

// EventPublisher publishes lifecycle events to a message broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, body []byte, correlationID string) error
}

type correlationIDKey struct{}

// WithCorrelationID returns a context carrying the request correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationIDFromContext returns the correlation ID stored in ctx, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}
