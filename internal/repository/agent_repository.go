package repository

import (
	"database/sql"

	"github.com/unclebandit/voiceleopard-backend/internal/model"
)

type AgentRepositoryInterface interface {
	GetByID(id int) (*model.Agent, error)
}

type AgentRepository struct {
	DB *sql.DB
}

func (r *AgentRepository) GetByID(id int) (*model.Agent, error) {
	query := `
        SELECT id, name, COALESCE(provider_assistant_id, '')
        FROM agents
        WHERE id = $1
    `
	var a model.Agent
	err := r.DB.QueryRow(query, id).Scan(&a.ID, &a.Name, &a.ProviderAssistantID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}
	return &a, nil
}

var _ AgentRepositoryInterface = (*AgentRepository)(nil)
