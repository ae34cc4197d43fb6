// internal/model/campaign.go
package model

import "time"

// Campaign statuses. Transitions are monotonic:
// draft -> active -> {completed, failed, canceled}.
const (
    CampaignStatusDraft     = "draft"
    CampaignStatusActive    = "active"
    CampaignStatusCompleted = "completed"
    CampaignStatusFailed    = "failed"
    CampaignStatusCanceled  = "canceled"
)

type Campaign struct {
    ID              int        `db:"id" json:"id"`
    Name            string     `db:"name" json:"name"`
    AgentID         int        `db:"agent_id" json:"agent_id"`
    ContactGroupID  int        `db:"contact_group_id" json:"contact_group_id"`
    PhoneNumberID   int        `db:"phone_number_id" json:"phone_number_id"`
    ConcurrentCalls int        `db:"concurrent_calls" json:"concurrent_calls"`
    Status          string     `db:"status" json:"status"`
    CreatedAt       time.Time  `db:"created_at" json:"created_at"`
    UpdatedAt       *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// IsTerminal reports whether the campaign can no longer change status.
func (c *Campaign) IsTerminal() bool {
    switch c.Status {
    case CampaignStatusCompleted, CampaignStatusFailed, CampaignStatusCanceled:
        return true
    }
    return false
}
