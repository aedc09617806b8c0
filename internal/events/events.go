// Package events publishes marketplace lifecycle events to a message
// broker. Publishing is best-effort: the services that emit events treat
// broker failures as non-fatal and the notifier is safe to leave nil.
package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/solverhub/apiserver/internal/mq"
)

// Channel names, one per aggregate.
const (
	ChannelUsers       = "marketplace.users"
	ChannelProposals   = "marketplace.proposals"
	ChannelSubmissions = "marketplace.submissions"
	ChannelCompletions = "marketplace.completions"
)

// Event kinds carried in the message attributes.
const (
	UserRegistered      = "user.registered"
	UserDeleted         = "user.deleted"
	ProposalApproved    = "proposal.approved"
	ProposalRejected    = "proposal.rejected"
	SubmissionCreated   = "submission.created"
	SubmissionReviewed  = "submission.reviewed"
	CompletionRequested = "completion.requested"
	CompletionApproved  = "completion.approved"
)

// Notifier publishes domain events over a broker backend.
type Notifier struct {
	broker *mq.Broker
}

// NewNotifier constructs a Notifier over the provided broker.
func NewNotifier(broker *mq.Broker) *Notifier {
	return &Notifier{broker: broker}
}

// Publish serializes the payload and sends it on the channel with the
// event kind attached. A nil notifier or broker is a no-op so the core
// works without a broker configured.
func (n *Notifier) Publish(ctx context.Context, channel, kind string, payload any) {
	if n == nil || n.broker == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("events: marshal %s: %v", kind, err)
		return
	}

	evt := mq.Event{
		Kind:       kind,
		Body:       data,
		OccurredAt: time.Now().UTC(),
	}
	if _, err := n.broker.Publish(ctx, channel, evt); err != nil {
		log.Printf("events: publish %s: %v", kind, err)
	}
}
