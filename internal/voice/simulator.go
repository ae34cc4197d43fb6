// internal/voice/simulator.go
package voice

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Simulator stands in for the provider when VOICE_PROVIDER_URL is unset.
// It answers every create-call request with a fresh call id and, after a
// short delay, delivers a synthetic completion through the same path real
// webhooks use.
type Simulator struct {
	// Deliver receives the synthetic completion. Wired to the campaign
	// manager's event handler in cmd/server.
	Deliver func(ev CallEvent)

	// MinRing/MaxRing bound the simulated call length.
	MinRing time.Duration
	MaxRing time.Duration

	// AnswerRate is the fraction of calls that complete normally (default 0.9).
	AnswerRate float64
}

func NewSimulator(deliver func(ev CallEvent)) *Simulator {
	return &Simulator{
		Deliver:    deliver,
		MinRing:    1 * time.Second,
		MaxRing:    4 * time.Second,
		AnswerRate: 0.9,
	}
}

func (s *Simulator) CreateCall(req *CreateCallRequest) (*CreateCallResponse, error) {
	callID := uuid.NewString()

	ring := s.MinRing
	if s.MaxRing > s.MinRing {
		ring += time.Duration(rand.Int63n(int64(s.MaxRing - s.MinRing)))
	}

	answered := rand.Float64() < s.AnswerRate

	time.AfterFunc(ring, func() {
		if s.Deliver == nil {
			return
		}
		ev := CallEvent{CallID: callID}
		if answered {
			ev.Status = "ended"
			ev.EndedReason = "customer-ended-call"
			ev.DurationSeconds = int(ring / time.Second)
			ev.Cost = float64(ev.DurationSeconds) * 0.002
		} else {
			ev.Status = "ended"
			ev.EndedReason = "no-answer"
		}
		s.Deliver(ev)
	})

	return &CreateCallResponse{ID: callID}, nil
}

var _ Client = (*Simulator)(nil)
