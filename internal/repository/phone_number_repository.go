package repository

import (
	"database/sql"

	"github.com/unclebandit/voiceleopard-backend/internal/model"
)

type PhoneNumberRepositoryInterface interface {
	GetByID(id int) (*model.PhoneNumber, error)
	GetByAgentID(agentID int) ([]model.PhoneNumber, error)
}

type PhoneNumberRepository struct {
	DB *sql.DB
}

func (r *PhoneNumberRepository) GetByID(id int) (*model.PhoneNumber, error) {
	query := `
        SELECT id, agent_id, number, COALESCE(provider_number_id, '')
        FROM phone_numbers
        WHERE id = $1
    `
	var p model.PhoneNumber
	err := r.DB.QueryRow(query, id).Scan(&p.ID, &p.AgentID, &p.Number, &p.ProviderNumberID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}
	return &p, nil
}

func (r *PhoneNumberRepository) GetByAgentID(agentID int) ([]model.PhoneNumber, error) {
	query := `
        SELECT id, agent_id, number, COALESCE(provider_number_id, '')
        FROM phone_numbers
        WHERE agent_id = $1
        ORDER BY id
    `
	rows, err := r.DB.Query(query, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	numbers := []model.PhoneNumber{}
	for rows.Next() {
		var p model.PhoneNumber
		if err := rows.Scan(&p.ID, &p.AgentID, &p.Number, &p.ProviderNumberID); err != nil {
			return nil, err
		}
		numbers = append(numbers, p)
	}
	return numbers, rows.Err()
}

var _ PhoneNumberRepositoryInterface = (*PhoneNumberRepository)(nil)
