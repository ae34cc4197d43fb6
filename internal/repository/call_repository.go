package repository

import (
    "database/sql"
    "time"

    "github.com/unclebandit/voiceleopard-backend/internal/model"
)

type CallRepositoryInterface interface {
    Create(call *model.Call) error
    GetByProviderID(providerCallID string) (*model.Call, error)
    // Finalize writes the terminal fields of a call exactly once. The update
    // is guarded on outcome='in-progress', so replaying the same completion
    // event cannot double-count duration or cost. Returns false when the call
    // was already finalized (or never existed).
    Finalize(providerCallID, outcome, endedReason string, durationSeconds int, cost float64, recordingURL string) (bool, error)
    StatsByAgentID(agentID int) (map[string]int, error)
}

type CallRepository struct {
    DB *sql.DB
}

func (r *CallRepository) Create(call *model.Call) error {
    now := time.Now()
    call.CreatedAt = now
    if call.StartedAt.IsZero() {
        call.StartedAt = now
    }
    if call.Outcome == "" {
        call.Outcome = model.CallOutcomeInProgress
    }
    if call.Direction == "" {
        call.Direction = model.CallDirectionOutbound
    }
    query := `
        INSERT INTO calls
        (agent_id, from_number, to_number, direction, provider_call_id, outcome, duration_seconds, cost, started_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id
    `
    return r.DB.QueryRow(
        query,
        call.AgentID,
        call.FromNumber,
        call.ToNumber,
        call.Direction,
        call.ProviderCallID,
        call.Outcome,
        call.DurationSeconds,
        call.Cost,
        call.StartedAt,
        call.CreatedAt,
    ).Scan(&call.ID)
}

func (r *CallRepository) GetByProviderID(providerCallID string) (*model.Call, error) {
    query := `
        SELECT id, agent_id, from_number, to_number, direction, provider_call_id,
               outcome, COALESCE(ended_reason, ''), duration_seconds, cost,
               COALESCE(recording_url, ''), started_at, ended_at, created_at, updated_at
        FROM calls
        WHERE provider_call_id=$1
    `
    var c model.Call
    err := r.DB.QueryRow(query, providerCallID).Scan(
        &c.ID, &c.AgentID, &c.FromNumber, &c.ToNumber, &c.Direction, &c.ProviderCallID,
        &c.Outcome, &c.EndedReason, &c.DurationSeconds, &c.Cost,
        &c.RecordingURL, &c.StartedAt, &c.EndedAt, &c.CreatedAt, &c.UpdatedAt,
    )
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, nil
        }
        return nil, err
    }
    return &c, nil
}

func (r *CallRepository) Finalize(providerCallID, outcome, endedReason string, durationSeconds int, cost float64, recordingURL string) (bool, error) {
    query := `
        UPDATE calls
        SET outcome=$2, ended_reason=$3, duration_seconds=$4, cost=$5, recording_url=$6, ended_at=NOW(), updated_at=NOW()
        WHERE provider_call_id=$1 AND outcome=$7
    `
    res, err := r.DB.Exec(query, providerCallID, outcome, endedReason, durationSeconds, cost, recordingURL, model.CallOutcomeInProgress)
    if err != nil {
        return false, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    return n == 1, nil
}

func (r *CallRepository) StatsByAgentID(agentID int) (map[string]int, error) {
    query := `SELECT outcome, COUNT(*) FROM calls WHERE agent_id=$1 GROUP BY outcome`
    rows, err := r.DB.Query(query, agentID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    stats := map[string]int{
        model.CallOutcomeInProgress: 0,
        model.CallOutcomeCompleted:  0,
        model.CallOutcomeFailed:     0,
        model.CallOutcomeNoAnswer:   0,
        model.CallOutcomeTimeout:    0,
    }
    for rows.Next() {
        var outcome string
        var count int
        if err := rows.Scan(&outcome, &count); err != nil {
            return nil, err
        }
        stats[outcome] = count
    }
    return stats, rows.Err()
}

var _ CallRepositoryInterface = (*CallRepository)(nil)
