// internal/model/phone_number.go
package model

type PhoneNumber struct {
    ID      int    `db:"id" json:"id"`
    AgentID int    `db:"agent_id" json:"agent_id"`
    Number  string `db:"number" json:"number"`
    // ProviderNumberID is the voice provider's identity for this number.
    // Calls originate from it; dispatch requires it to be present.
    ProviderNumberID string `db:"provider_number_id" json:"provider_number_id"`
}
