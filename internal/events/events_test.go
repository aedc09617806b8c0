package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/solverhub/apiserver/internal/mq"
)

type captureBackend struct {
	channel string
	event   mq.Event
}

func (c *captureBackend) Publish(ctx context.Context, channel string, evt mq.Event) (string, error) {
	c.channel = channel
	c.event = evt
	return "msg-1", nil
}

func (c *captureBackend) Subscribe(ctx context.Context, channel string, handler mq.Handler) error {
	return nil
}

func (c *captureBackend) Close() error { return nil }

func TestNilNotifierIsNoOp(t *testing.T) {
	var notifier *Notifier
	notifier.Publish(context.Background(), ChannelUsers, UserRegistered, map[string]string{"k": "v"})

	NewNotifier(nil).Publish(context.Background(), ChannelUsers, UserRegistered, nil)
}

func TestPublishCarriesKindAndBody(t *testing.T) {
	backend := &captureBackend{}
	notifier := NewNotifier(mq.NewBroker(backend))

	payload := map[string]string{"uuid": "abc"}
	notifier.Publish(context.Background(), ChannelProposals, ProposalApproved, payload)

	if backend.channel != ChannelProposals {
		t.Fatalf("published to %q, want %q", backend.channel, ChannelProposals)
	}
	if backend.event.Kind != ProposalApproved {
		t.Fatalf("event kind %q, want %q", backend.event.Kind, ProposalApproved)
	}
	if backend.event.OccurredAt.IsZero() {
		t.Errorf("occurred_at not stamped")
	}

	var decoded map[string]string
	if err := json.Unmarshal(backend.event.Body, &decoded); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if decoded["uuid"] != "abc" {
		t.Errorf("unexpected body: %v", decoded)
	}
}
