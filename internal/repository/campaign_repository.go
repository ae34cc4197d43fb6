package repository

import (
    "database/sql"
    "fmt"
    "time"

    appErrors "github.com/unclebandit/voiceleopard-backend/internal/errors"
    "github.com/unclebandit/voiceleopard-backend/internal/model"
)

type CampaignRepositoryInterface interface {
    Create(c *model.Campaign) error
    GetByID(id int) (*model.Campaign, error)
    ListCampaigns(offset, limit int, status string) ([]*model.Campaign, int, error)
    UpdateStatus(campaignID int, status string) error
    // TransitionStatus writes the new status only when the campaign is still
    // in the expected one. Returns false when another writer got there first,
    // which is how terminal transitions stay single-shot.
    TransitionStatus(campaignID int, from, to string) (bool, error)
    ListByStatus(status string) ([]*model.Campaign, error)
}

type CampaignRepository struct {
    DB *sql.DB
}

// ====================== Campaign CRUD ======================

func (r *CampaignRepository) Create(c *model.Campaign) error {
    c.CreatedAt = time.Now()
    if c.Status == "" {
        c.Status = model.CampaignStatusDraft
    }
    query := `
        INSERT INTO campaigns (name, agent_id, contact_group_id, phone_number_id, concurrent_calls, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `
    return r.DB.QueryRow(query, c.Name, c.AgentID, c.ContactGroupID, c.PhoneNumberID, c.ConcurrentCalls, c.Status, c.CreatedAt).Scan(&c.ID)
}

func (r *CampaignRepository) GetByID(id int) (*model.Campaign, error) {
    query := `
        SELECT id, name, agent_id, contact_group_id, phone_number_id, concurrent_calls, status, created_at, updated_at
        FROM campaigns WHERE id=$1
    `
    var c model.Campaign
    err := r.DB.QueryRow(query, id).Scan(&c.ID, &c.Name, &c.AgentID, &c.ContactGroupID, &c.PhoneNumberID, &c.ConcurrentCalls, &c.Status, &c.CreatedAt, &c.UpdatedAt)
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, appErrors.NewCampaignNotFound(id)
        }
        return nil, err
    }
    return &c, nil
}

func (r *CampaignRepository) ListCampaigns(offset, limit int, status string) ([]*model.Campaign, int, error) {
    campaigns := []*model.Campaign{}
    query := `SELECT id, name, agent_id, contact_group_id, phone_number_id, concurrent_calls, status, created_at, updated_at FROM campaigns WHERE 1=1`
    args := []interface{}{}
    argPos := 1

    if status != "" {
        query += fmt.Sprintf(" AND status=$%d", argPos)
        args = append(args, status)
        argPos++
    }

    query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
    args = append(args, limit, offset)

    rows, err := r.DB.Query(query, args...)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()

    for rows.Next() {
        c := &model.Campaign{}
        if err := rows.Scan(&c.ID, &c.Name, &c.AgentID, &c.ContactGroupID, &c.PhoneNumberID, &c.ConcurrentCalls, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
            return nil, 0, err
        }
        campaigns = append(campaigns, c)
    }

    countQuery := `SELECT COUNT(*) FROM campaigns WHERE 1=1`
    argsCount := []interface{}{}
    if status != "" {
        countQuery += " AND status=$1"
        argsCount = append(argsCount, status)
    }

    var total int
    if err := r.DB.QueryRow(countQuery, argsCount...).Scan(&total); err != nil {
        return nil, 0, err
    }

    return campaigns, total, nil
}

func (r *CampaignRepository) UpdateStatus(campaignID int, status string) error {
    query := `UPDATE campaigns SET status=$1, updated_at=$2 WHERE id=$3`
    _, err := r.DB.Exec(query, status, time.Now(), campaignID)
    return err
}

func (r *CampaignRepository) TransitionStatus(campaignID int, from, to string) (bool, error) {
    query := `UPDATE campaigns SET status=$1, updated_at=$2 WHERE id=$3 AND status=$4`
    res, err := r.DB.Exec(query, to, time.Now(), campaignID, from)
    if err != nil {
        return false, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    return n == 1, nil
}

func (r *CampaignRepository) ListByStatus(status string) ([]*model.Campaign, error) {
    query := `
        SELECT id, name, agent_id, contact_group_id, phone_number_id, concurrent_calls, status, created_at, updated_at
        FROM campaigns WHERE status=$1 ORDER BY id
    `
    rows, err := r.DB.Query(query, status)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    campaigns := []*model.Campaign{}
    for rows.Next() {
        c := &model.Campaign{}
        if err := rows.Scan(&c.ID, &c.Name, &c.AgentID, &c.ContactGroupID, &c.PhoneNumberID, &c.ConcurrentCalls, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
            return nil, err
        }
        campaigns = append(campaigns, c)
    }
    return campaigns, rows.Err()
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
