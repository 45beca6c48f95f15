package notifier

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Exchange is the durable topic exchange the email dispatcher consumes.
const Exchange = "nucleus.notifications"

// Routing keys for the three notification payload shapes.
const (
	RouteTransaction = "notify.transaction"
	RouteKYC         = "notify.kyc"
	RouteAdmin       = "notify.admin"
)

// Publisher delivers a serialized notification payload to the exchange.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
	Close() error
}

// AMQPPublisher publishes outbox messages to a RabbitMQ topic exchange.
type AMQPPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *zap.Logger
}

// NewAMQPPublisher dials RabbitMQ and declares the notification exchange.
func NewAMQPPublisher(url string, logger *zap.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{Dial: amqp.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", Exchange, err)
	}

	return &AMQPPublisher{conn: conn, channel: ch, logger: logger}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	err := p.channel.PublishWithContext(ctx,
		Exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		// One-shot channel reopen covers a broker-side channel close.
		ch, chErr := p.conn.Channel()
		if chErr != nil {
			return fmt.Errorf("publish %s: %w", routingKey, err)
		}
		p.channel = ch
		if err := p.channel.PublishWithContext(ctx, Exchange, routingKey, false, false, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		}); err != nil {
			return fmt.Errorf("publish %s: %w", routingKey, err)
		}
		p.logger.Warn("published after channel reopen", zap.String("routing_key", routingKey))
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
