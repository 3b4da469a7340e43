package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"user-service/internal/data/entity"
	"user-service/pkg/metrics"
	"user-service/pkg/utils"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ErrPublish wraps every failure to hand an event to the broker,
// serialization included.
var ErrPublish = errors.New("publish event")

var errChannelUnavailable = errors.New("rabbitmq channel not available")

type EventPublisher interface {
	PublishUserCreated(ctx context.Context, user *entity.User) error
	PublishUserDeactivated(ctx context.Context, user *entity.User) error
}

// Channel is the subset of *amqp.Channel the publisher needs.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitPublisher sends user events to a topic exchange.
type RabbitPublisher struct {
	mu       sync.Mutex // amqp channels are not safe for concurrent publishes
	conn     *amqp.Connection
	channel  Channel
	exchange string
	marshal  func(any) ([]byte, error)
	now      func() time.Time
	log      *zap.Logger
}

// NewRabbitPublisher dials the broker and declares the exchange. If the
// broker cannot be reached the returned publisher is still usable but every
// publish fails; the service keeps serving reads and writes.
func NewRabbitPublisher(config utils.RabbitMQConfig, log *zap.Logger) *RabbitPublisher {
	exchange := config.Exchange
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(config.URL())
	if err != nil {
		log.Warn("Failed to connect to RabbitMQ, events will not be published",
			zap.Error(err), zap.String("host", config.Host))
		return newRabbitPublisher(nil, nil, exchange, log)
	}

	channel, err := conn.Channel()
	if err != nil {
		log.Warn("Failed to open RabbitMQ channel", zap.Error(err))
		conn.Close()
		return newRabbitPublisher(nil, nil, exchange, log)
	}

	p, err := NewChannelPublisher(channel, exchange, log)
	if err != nil {
		log.Warn("Failed to declare exchange", zap.Error(err), zap.String("exchange", exchange))
		channel.Close()
		conn.Close()
		return newRabbitPublisher(nil, nil, exchange, log)
	}
	p.conn = conn

	log.Info("RabbitMQ connected", zap.String("exchange", exchange))
	return p
}

// NewChannelPublisher declares a durable topic exchange on channel and
// publishes to it.
func NewChannelPublisher(channel Channel, exchange string, log *zap.Logger) (*RabbitPublisher, error) {
	if err := channel.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return newRabbitPublisher(nil, channel, exchange, log), nil
}

func newRabbitPublisher(conn *amqp.Connection, channel Channel, exchange string, log *zap.Logger) *RabbitPublisher {
	return &RabbitPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		marshal:  json.Marshal,
		now:      time.Now,
		log:      log,
	}
}

func (p *RabbitPublisher) PublishUserCreated(ctx context.Context, user *entity.User) error {
	return p.publish(ctx, RoutingKeyUserCreated, UserCreatedEvent{
		EventType: EventUserCreated,
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Timestamp: p.now().UnixMilli(),
	})
}

func (p *RabbitPublisher) PublishUserDeactivated(ctx context.Context, user *entity.User) error {
	return p.publish(ctx, RoutingKeyUserDeactivated, UserDeactivatedEvent{
		EventType: EventUserDeactivated,
		UserID:    user.ID,
		Username:  user.Username,
		Timestamp: p.now().UnixMilli(),
	})
}

func (p *RabbitPublisher) publish(ctx context.Context, routingKey string, event any) error {
	err := p.send(ctx, routingKey, event)
	if err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(routingKey, "error").Inc()
		p.log.Error("Failed to publish event",
			zap.Error(err),
			zap.String("exchange", p.exchange),
			zap.String("routing_key", routingKey),
		)
		return err
	}

	metrics.EventsPublishedTotal.WithLabelValues(routingKey, "ok").Inc()
	p.log.Debug("Event published",
		zap.String("exchange", p.exchange),
		zap.String("routing_key", routingKey),
	)
	return nil
}

func (p *RabbitPublisher) send(ctx context.Context, routingKey string, event any) error {
	body, err := p.marshal(event)
	if err != nil {
		return fmt.Errorf("%w %s: marshal: %w", ErrPublish, routingKey, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		return fmt.Errorf("%w %s: %w", ErrPublish, routingKey, errChannelUnavailable)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    p.now(),
		Body:         body,
	}

	if err := p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("%w %s: %w", ErrPublish, routingKey, err)
	}
	return nil
}

// Close releases the channel and the connection.
func (p *RabbitPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.log.Warn("Failed to close RabbitMQ channel", zap.Error(err))
		}
		p.channel = nil
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			p.log.Warn("Failed to close RabbitMQ connection", zap.Error(err))
		}
		p.conn = nil
	}
}
