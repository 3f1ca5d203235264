// Package broker publishes write notifications to RabbitMQ.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"devevents/internal/domain"
)

// ExchangeName is the topic exchange notifications are published to. The routing key is the
// message type, e.g. "booking.created".
const ExchangeName = "devevents"

const publishTimeout = 5 * time.Second

type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitPublisher publishes domain.Message envelopes to the topic exchange.
type RabbitPublisher struct {
	conn    *amqp.Connection
	channel amqpChannel
	logger  *slog.Logger
	now     func() time.Time
}

// Dial connects to url, retrying up to attempts times with a fixed backoff, and declares the
// exchange.
func Dial(ctx context.Context, url string, attempts int, backoff time.Duration, logger *slog.Logger) (*RabbitPublisher, error) {
	var conn *amqp.Connection
	var err error
	for i := 0; i < attempts; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		logger.WarnContext(ctx, "rabbitmq connect failed, retrying", "attempt", i+1, "err", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("could not connect to RabbitMQ after %d attempts: %w", attempts, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	p, err := newRabbitPublisher(ch, logger)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	logger.InfoContext(ctx, "connected to RabbitMQ", "exchange", ExchangeName)
	return p, nil
}

func newRabbitPublisher(ch amqpChannel, logger *slog.Logger) (*RabbitPublisher, error) {
	err := ch.ExchangeDeclare(
		ExchangeName,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &RabbitPublisher{channel: ch, logger: logger, now: time.Now}, nil
}

// Publish wraps data in a Message and publishes it with msgType as the routing key. The request
// id carried by ctx becomes the correlation id.
func (p *RabbitPublisher) Publish(ctx context.Context, msgType domain.MessageType, data any) error {
	msg := domain.Message{
		ID:        uuid.NewString(),
		Type:      msgType,
		Timestamp: p.now().UTC(),
		Data:      data,
	}
	msg.CorrelationID = msg.ID
	if id, ok := domain.RequestIDFromContext(ctx); ok {
		msg.CorrelationID = id
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal %s message: %w", msgType, err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.logger.DebugContext(ctx, "publishing message", "routing_key", string(msgType), "correlation_id", msg.CorrelationID)
	return p.channel.PublishWithContext(
		ctx,
		ExchangeName,
		string(msgType),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			MessageId:     msg.ID,
			CorrelationId: msg.CorrelationID,
			Type:          string(msgType),
			Body:          body,
			DeliveryMode:  amqp.Persistent,
			Timestamp:     msg.Timestamp,
		},
	)
}

// Close closes the channel and the connection.
func (p *RabbitPublisher) Close() error {
	var err error
	if p.channel != nil {
		err = p.channel.Close()
	}
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// NoopPublisher drops every message. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, msgType domain.MessageType, data any) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
