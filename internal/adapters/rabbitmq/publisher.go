package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"eventrsvp/internal/domain"
)

// ExchangeName is the topic exchange that receives account lifecycle events.
const ExchangeName = "account.lifecycle"

// channel is the subset of *amqp.Channel used by the publisher.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher publishes messages to the lifecycle topic exchange.
type Publisher struct {
	channel channel
	logger  *slog.Logger
	now     func() time.Time
}

// Dial connects to the broker at url and returns a publisher with the exchange declared.
// The returned close function releases both channel and connection.
func Dial(url string, logger *slog.Logger) (*Publisher, func() error, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open amqp channel: %w", err)
	}
	p, err := NewPublisher(ch, logger)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	closeFn := func() error {
		_ = p.Close()
		return conn.Close()
	}
	return p, closeFn, nil
}

// NewPublisher declares the durable topic exchange on ch.
func NewPublisher(ch channel, logger *slog.Logger) (*Publisher, error) {
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
		return nil, fmt.Errorf("declare exchange %q: %w", ExchangeName, err)
	}
	return &Publisher{channel: ch, logger: logger, now: time.Now}, nil
}

// Publish sends a persistent JSON message with the given routing key.
func (p *Publisher) Publish(ctx context.Context, routingKey string, body []byte, correlationID string) error {
	p.logger.DebugContext(ctx, "publishing lifecycle event", "routing_key", routingKey, "correlation_id", correlationID)
	err := p.channel.PublishWithContext(
		ctx,
		ExchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			CorrelationId: correlationID,
			Body:          body,
			DeliveryMode:  amqp.Persistent,
			Timestamp:     p.now(),
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

// Close closes the publisher channel.
func (p *Publisher) Close() error {
	if p.channel != nil {
		return p.channel.Close()
	}
	return nil
}

type noopPublisher struct{}

// NewNoopPublisher returns an EventPublisher that drops every event. Used when no broker is configured.
func NewNoopPublisher() domain.EventPublisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, string, []byte, string) error {
	return nil
}
