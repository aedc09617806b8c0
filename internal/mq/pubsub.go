package mq

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/solverhub/apiserver/config"
	"google.golang.org/api/option"
)

// Attribute keys used to carry event metadata on Pub/Sub messages.
const (
	attrKind       = "kind"
	attrOccurredAt = "occurred_at"
)

// PubSubBackend publishes events to per-channel Pub/Sub topics. Event
// metadata travels in message attributes since Pub/Sub has no typed
// header fields.
type PubSubBackend struct {
	client             *pubsub.Client
	subscriptionSuffix string
}

// NewPubSubBackend constructs a Pub/Sub backend from config.
func NewPubSubBackend(ctx context.Context, cfg config.PubSubConfig) (*PubSubBackend, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, errors.New("pubsub project id is required")
	}

	var opts []option.ClientOption
	if strings.TrimSpace(cfg.CredentialsFile) != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := pubsub.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, err
	}

	suffix := cfg.SubscriptionSuffix
	if suffix == "" {
		suffix = "-sub"
	}

	return &PubSubBackend{
		client:             client,
		subscriptionSuffix: suffix,
	}, nil
}

// Publish sends an event to the topic named after the channel, creating
// the topic on first use.
func (p *PubSubBackend) Publish(ctx context.Context, channel string, evt Event) (string, error) {
	if strings.TrimSpace(channel) == "" {
		return "", errors.New("pubsub channel is required")
	}

	topic, err := p.ensureTopic(ctx, channel)
	if err != nil {
		return "", err
	}

	attrs := map[string]string{attrKind: evt.Kind}
	if !evt.OccurredAt.IsZero() {
		attrs[attrOccurredAt] = evt.OccurredAt.UTC().Format(time.RFC3339)
	}
	result := topic.Publish(ctx, &pubsub.Message{Data: evt.Body, Attributes: attrs})
	return result.Get(ctx)
}

// Subscribe consumes events from the channel's topic through a durable
// subscription named with the configured suffix.
func (p *PubSubBackend) Subscribe(ctx context.Context, channel string, handler Handler) error {
	if strings.TrimSpace(channel) == "" {
		return errors.New("pubsub channel is required")
	}

	topic, err := p.ensureTopic(ctx, channel)
	if err != nil {
		return err
	}

	sub, err := p.ensureSubscription(ctx, channel+p.subscriptionSuffix, topic)
	if err != nil {
		return err
	}

	return sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		evt := Event{
			ID:   msg.ID,
			Kind: msg.Attributes[attrKind],
			Body: msg.Data,
		}
		if ts, err := time.Parse(time.RFC3339, msg.Attributes[attrOccurredAt]); err == nil {
			evt.OccurredAt = ts
		}
		if err := handler(ctx, evt); err != nil {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

// Close closes the underlying Pub/Sub client.
func (p *PubSubBackend) Close() error {
	return p.client.Close()
}

func (p *PubSubBackend) ensureTopic(ctx context.Context, name string) (*pubsub.Topic, error) {
	topic := p.client.Topic(name)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return p.client.CreateTopic(ctx, name)
	}
	return topic, nil
}

func (p *PubSubBackend) ensureSubscription(ctx context.Context, name string, topic *pubsub.Topic) (*pubsub.Subscription, error) {
	sub := p.client.Subscription(name)
	exists, err := sub.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return p.client.CreateSubscription(ctx, name, pubsub.SubscriptionConfig{Topic: topic})
	}
	return sub, nil
}
