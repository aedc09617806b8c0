package mq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/solverhub/apiserver/config"
)

const eventContentType = "application/json"

// RabbitBackend publishes events to per-channel RabbitMQ queues. The
// event kind rides in the AMQP Type property and the occurrence time in
// the message timestamp, so consumers outside this codebase can route
// without decoding the body.
type RabbitBackend struct {
	conn    *amqp.Connection
	channel *amqp.Channel

	durable    bool
	autoDelete bool

	mu       sync.Mutex
	declared map[string]bool
}

// NewRabbitBackend dials the broker and opens a publishing channel.
func NewRabbitBackend(cfg config.RabbitMQConfig) (*RabbitBackend, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("rabbitmq url is required")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if cfg.PrefetchCount > 0 {
		if err := ch.Qos(cfg.PrefetchCount, 0, false); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, err
		}
	}

	return &RabbitBackend{
		conn:       conn,
		channel:    ch,
		durable:    cfg.QueueDurable,
		autoDelete: cfg.QueueAutoDelete,
		declared:   make(map[string]bool),
	}, nil
}

// Publish sends an event to the queue named after the channel.
func (r *RabbitBackend) Publish(ctx context.Context, channel string, evt Event) (string, error) {
	if strings.TrimSpace(channel) == "" {
		return "", errors.New("rabbitmq channel is required")
	}
	if err := r.ensureQueue(channel); err != nil {
		return "", err
	}

	id := evt.ID
	if id == "" {
		id = uuid.NewString()
	}
	err := r.channel.PublishWithContext(ctx, "", channel, false, false, amqp.Publishing{
		ContentType: eventContentType,
		MessageId:   id,
		Type:        evt.Kind,
		Timestamp:   evt.OccurredAt,
		Body:        evt.Body,
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Subscribe consumes events from the queue named after the channel.
// Handler errors nack the delivery back onto the queue.
func (r *RabbitBackend) Subscribe(ctx context.Context, channel string, handler Handler) error {
	if strings.TrimSpace(channel) == "" {
		return errors.New("rabbitmq channel is required")
	}
	if err := r.ensureQueue(channel); err != nil {
		return err
	}

	tag := fmt.Sprintf("consumer-%s", uuid.NewString())
	deliveries, err := r.channel.Consume(channel, tag, false, false, false, false, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = r.channel.Cancel(tag, false)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("rabbitmq delivery channel closed")
			}
			evt := Event{
				ID:         delivery.MessageId,
				Kind:       delivery.Type,
				Body:       delivery.Body,
				OccurredAt: delivery.Timestamp,
			}
			if err := handler(ctx, evt); err != nil {
				_ = delivery.Nack(false, true)
				continue
			}
			_ = delivery.Ack(false)
		}
	}
}

// Close closes the channel and connection.
func (r *RabbitBackend) Close() error {
	if r.channel != nil {
		_ = r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

func (r *RabbitBackend) ensureQueue(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.declared[name] {
		return nil
	}
	if _, err := r.channel.QueueDeclare(name, r.durable, r.autoDelete, false, false, nil); err != nil {
		return err
	}
	r.declared[name] = true
	return nil
}
