package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the execution engine.
const (
	TypeCallDispatched = "call.dispatched"
	TypeDispatchFailed = "call.dispatch_failed"
	TypeCallCompleted  = "call.completed"
	TypeCallTimedOut   = "call.timed_out"
	TypeCampaignDone   = "campaign.finished"
)

// Event is one engine observation, published for external monitoring.
// Losing an event never affects scheduling.
type Event struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	CampaignID     int       `json:"campaign_id"`
	ContactID      int       `json:"contact_id,omitempty"`
	ProviderCallID string    `json:"provider_call_id,omitempty"`
	Outcome        string    `json:"outcome,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// NewEvent stamps id and time; callers fill the rest.
func NewEvent(eventType string, campaignID int) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		CampaignID: campaignID,
		OccurredAt: time.Now(),
	}
}

// Publisher sends events to an external sink.
type Publisher interface {
	Publish(ev Event) error
}

// InMemoryPublisher keeps events in memory. Used in tests and as the
// fallback when RabbitMQ is not configured.
type InMemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

func NewInMemoryPublisher() *InMemoryPublisher {
	return &InMemoryPublisher{}
}

func (p *InMemoryPublisher) Publish(ev Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

// Events returns a copy of everything published so far.
func (p *InMemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

var _ Publisher = (*InMemoryPublisher)(nil)
