package domain

import (
	"context"
	"time"
)

// MessageType names a notification published after a write commits.
type MessageType string

const (
	MessageEventCreated   MessageType = "event.created"
	MessageEventUpdated   MessageType = "event.updated"
	MessageBookingCreated MessageType = "booking.created"
)

// Message is the envelope published to downstream consumers.
type Message struct {
	ID            string      `json:"message_id"`
	CorrelationID string      `json:"correlation_id"`
	Type          MessageType `json:"type"`
	Timestamp     time.Time   `json:"timestamp"`
	Data          any         `json:"data"`
}

// Publisher sends notifications about committed writes. Delivery is best-effort.
type Publisher interface {
	Publish(ctx context.Context, msgType MessageType, data any) error
}

type requestIDKey struct{}

// WithRequestID returns a context carrying the request id used to correlate logs and messages.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request id set by WithRequestID, if any.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}
