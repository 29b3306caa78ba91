package rabbitmq

import (
	"catalog/pkg/events"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

var ErrConnectionClosed = errors.New("rabbitmq connection closed")

// RabbitMQPublisher implements the events.Publisher interface
type RabbitMQPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	service  string
	declared sync.Map
}

// NewRabbitMQPublisher connects and declares the given exchanges up front.
// Exchanges first seen in Publish are declared lazily.
func NewRabbitMQPublisher(url, service string, exchanges ...string) (*RabbitMQPublisher, error) {
	conn, err := dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	p := &RabbitMQPublisher{
		conn:    conn,
		channel: channel,
		service: service,
	}

	for _, exchange := range exchanges {
		if err := p.DeclareExchange(exchange); err != nil {
			p.Close()
			return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
		}
	}

	zap.L().Info("RabbitMQ publisher connected successfully", zap.Strings("exchanges", exchanges))

	return p, nil
}

// DeclareExchange declares a durable topic exchange once per publisher.
func (p *RabbitMQPublisher) DeclareExchange(exchange string) error {
	if _, ok := p.declared.Load(exchange); ok {
		return nil
	}
	if err := declareTopicExchange(p.channel, exchange); err != nil {
		return err
	}
	p.declared.Store(exchange, struct{}{})
	return nil
}

// Publish sends event to exchange with its routing key and waits for the
// broker to confirm it.
func (p *RabbitMQPublisher) Publish(ctx context.Context, exchange string, event *events.Event, headers events.Headers) error {
	if err := p.DeclareExchange(exchange); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	msg, err := newMessage(event, headers, p.service)
	if err != nil {
		return err
	}
	routingKey := event.GetRoutingKey()

	// Each publish gets its own confirm channel so confirmations cannot be
	// attributed to the wrong message.
	publishCh, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to create publish channel: %w", err)
	}
	defer publishCh.Close()

	if err := publishCh.Confirm(false); err != nil {
		return fmt.Errorf("failed to enable confirms: %w", err)
	}
	confirms := publishCh.NotifyPublish(make(chan amqp.Confirmation, 1))

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := publishCh.PublishWithContext(publishCtx, exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	select {
	case confirm := <-confirms:
		if !confirm.Ack {
			return errors.New("message was not acknowledged by broker")
		}
	case <-publishCtx.Done():
		return errors.New("publish confirmation timeout")
	}

	zap.L().Info("Event published successfully",
		zap.String("exchange", exchange),
		zap.String("routingKey", routingKey),
		zap.String("event", event.Event),
		zap.String("traceId", headers.TraceID),
	)

	return nil
}

func newMessage(event *events.Event, headers events.Headers, service string) (amqp.Publishing, error) {
	body, err := event.ToJSON()
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to serialize event: %w", err)
	}

	if headers.Service != "" {
		service = headers.Service
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.Timestamp,
		Headers: amqp.Table{
			"x-trace-id":       headers.TraceID,
			"x-correlation-id": headers.CorrelationID,
			"x-service":        service,
		},
	}, nil
}

// IsHealthy checks if the RabbitMQ connection is healthy
func (p *RabbitMQPublisher) IsHealthy() bool {
	if p == nil || p.conn == nil || p.channel == nil {
		return false
	}
	return !p.conn.IsClosed() && !p.channel.IsClosed()
}

// Check reports IsHealthy as an error for the /health endpoint.
func (p *RabbitMQPublisher) Check(context.Context) error {
	if !p.IsHealthy() {
		return ErrConnectionClosed
	}
	return nil
}

// Close closes the RabbitMQ connection
func (p *RabbitMQPublisher) Close() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			zap.L().Error("Failed to close channel", zap.Error(err))
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			zap.L().Error("Failed to close connection", zap.Error(err))
			return err
		}
	}
	zap.L().Info("RabbitMQ publisher closed")
	return nil
}

var _ events.Publisher = (*RabbitMQPublisher)(nil)
