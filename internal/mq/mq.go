// Package mq carries marketplace lifecycle events to a message broker.
// Two backends are supported, RabbitMQ and Google Pub/Sub, behind one
// Backend interface so the rest of the app never touches an SDK type.
package mq

import (
	"context"
	"time"
)

// Event is the unit published to a channel. Kind names the lifecycle
// transition (for example "proposal.approved") and Body carries the
// JSON-encoded aggregate snapshot.
type Event struct {
	ID         string
	Kind       string
	Body       []byte
	OccurredAt time.Time
}

// Handler processes a delivered event. Return an error to nack the
// delivery so the broker redelivers it.
type Handler func(ctx context.Context, evt Event) error

// Backend is implemented per broker.
type Backend interface {
	Publish(ctx context.Context, channel string, evt Event) (string, error)
	Subscribe(ctx context.Context, channel string, handler Handler) error
	Close() error
}

// Broker fronts a backend with a stable API.
type Broker struct {
	backend Backend
}

// NewBroker wraps the provided backend.
func NewBroker(backend Backend) *Broker {
	return &Broker{backend: backend}
}

// Publish sends an event on the named channel and returns the broker
// message id.
func (b *Broker) Publish(ctx context.Context, channel string, evt Event) (string, error) {
	return b.backend.Publish(ctx, channel, evt)
}

// Subscribe consumes events from the named channel until ctx is done.
func (b *Broker) Subscribe(ctx context.Context, channel string, handler Handler) error {
	return b.backend.Subscribe(ctx, channel, handler)
}

// Close releases the backend's connections.
func (b *Broker) Close() error {
	return b.backend.Close()
}
