package repository

import (
	"database/sql"

	"github.com/unclebandit/voiceleopard-backend/internal/model"
)

// ContactRepositoryInterface defines methods used by the service layer
type ContactRepositoryInterface interface {
	GetGroupByID(id int) (*model.ContactGroup, error)
	ListByGroupID(groupID int) ([]model.Contact, error)
}

// ContactRepository is the concrete implementation
type ContactRepository struct {
	DB *sql.DB
}

// GetGroupByID fetches a contact group by ID
func (r *ContactRepository) GetGroupByID(id int) (*model.ContactGroup, error) {
	query := `
        SELECT id, name, created_at
        FROM contact_groups
        WHERE id = $1
    `
	row := r.DB.QueryRow(query, id)

	var g model.ContactGroup
	if err := row.Scan(&g.ID, &g.Name, &g.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}
	return &g, nil
}

// ListByGroupID fetches all contacts in a group, in insertion order.
// The scheduler dispatches in exactly this order.
func (r *ContactRepository) ListByGroupID(groupID int) ([]model.Contact, error) {
	query := `
        SELECT id, group_id, phone, first_name, last_name, do_not_call
        FROM contacts
        WHERE group_id = $1
        ORDER BY id
    `
	rows, err := r.DB.Query(query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []model.Contact{}
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.ID, &c.GroupID, &c.Phone, &c.FirstName, &c.LastName, &c.DoNotCall); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

var _ ContactRepositoryInterface = (*ContactRepository)(nil)
