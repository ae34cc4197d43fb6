// internal/model/agent.go
package model

type Agent struct {
    ID   int    `db:"id" json:"id"`
    Name string `db:"name" json:"name"`
    // ProviderAssistantID is the voice provider's assistant identity.
    // Required before any campaign using this agent can start.
    ProviderAssistantID string `db:"provider_assistant_id" json:"provider_assistant_id"`
}
