// internal/model/call.go
package model

import "time"

// Call outcomes. A call is created as "in-progress" at successful dispatch
// and finalized exactly once to one of the terminal outcomes.
const (
    CallOutcomeInProgress = "in-progress"
    CallOutcomeCompleted  = "completed"
    CallOutcomeFailed     = "failed"
    CallOutcomeNoAnswer   = "no-answer"
    CallOutcomeTimeout    = "timeout"
)

const (
    CallDirectionOutbound = "outbound"
    CallDirectionInbound  = "inbound"
)

type Call struct {
    ID         int    `db:"id" json:"id"`
    AgentID    int    `db:"agent_id" json:"agent_id"`
    FromNumber string `db:"from_number" json:"from_number"`
    ToNumber   string `db:"to_number" json:"to_number"`
    Direction  string `db:"direction" json:"direction"`
    // ProviderCallID correlates the record to the provider and its webhooks.
    ProviderCallID  string     `db:"provider_call_id" json:"provider_call_id"`
    Outcome         string     `db:"outcome" json:"outcome"`
    EndedReason     string     `db:"ended_reason" json:"ended_reason,omitempty"`
    DurationSeconds int        `db:"duration_seconds" json:"duration_seconds"`
    Cost            float64    `db:"cost" json:"cost"`
    RecordingURL    string     `db:"recording_url" json:"recording_url,omitempty"`
    StartedAt       time.Time  `db:"started_at" json:"started_at"`
    EndedAt         *time.Time `db:"ended_at" json:"ended_at,omitempty"`
    CreatedAt       time.Time  `db:"created_at" json:"created_at"`
    UpdatedAt       *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
