// internal/service/manager.go
package service

import (
    "log"
    "sync"
    "time"

    appErrors "github.com/unclebandit/voiceleopard-backend/internal/errors"
    "github.com/unclebandit/voiceleopard-backend/internal/events"
    "github.com/unclebandit/voiceleopard-backend/internal/model"
    "github.com/unclebandit/voiceleopard-backend/internal/repository"
    "github.com/unclebandit/voiceleopard-backend/internal/voice"
)

// CampaignManager owns the campaign lifecycle state machine and every live
// CampaignExecution, keyed by campaign id. It is constructed once in main
// and injected into the HTTP layer; nothing else holds execution state.
type CampaignManager struct {
    CampaignRepo repository.CampaignRepositoryInterface
    ContactRepo  repository.ContactRepositoryInterface
    AgentRepo    repository.AgentRepositoryInterface
    PhoneRepo    repository.PhoneNumberRepositoryInterface
    CallRepo     repository.CallRepositoryInterface
    Dispatcher   ContactDispatcher
    Events       events.Publisher
    // Watchdog is how long a call may stay in flight without a webhook
    // before the tracker synthesizes a timeout completion.
    Watchdog time.Duration

    mu      sync.Mutex
    running map[int]*CampaignExecution
}

// StartResult is the synchronous acknowledgment returned by Start.
type StartResult struct {
    CampaignID      int `json:"campaign_id"`
    TotalContacts   int `json:"total_contacts"`
    ConcurrentCalls int `json:"concurrent_calls"`
}

// Start validates the campaign's preconditions, transitions draft -> active
// and begins dispatching. Any precondition failure returns a ValidationError
// and leaves the campaign in draft with zero calls placed.
func (m *CampaignManager) Start(campaignID int) (*StartResult, error) {
    campaign, err := m.CampaignRepo.GetByID(campaignID)
    if err != nil {
        return nil, err
    }
    if campaign.Status != model.CampaignStatusDraft {
        return nil, appErrors.NewInvalidStatus(campaignID, campaign.Status, "start")
    }
    if campaign.ConcurrentCalls < 1 {
        return nil, appErrors.NewValidation("concurrent_calls", "must be at least 1")
    }

    agent, err := m.AgentRepo.GetByID(campaign.AgentID)
    if err != nil {
        return nil, err
    }
    if agent == nil || agent.ProviderAssistantID == "" {
        return nil, appErrors.NewValidation("agent", "agent has no provider assistant id")
    }

    number, err := m.PhoneRepo.GetByID(campaign.PhoneNumberID)
    if err != nil {
        return nil, err
    }
    if number == nil || number.ProviderNumberID == "" {
        return nil, appErrors.NewValidation("phone_number", "phone number has no provider id")
    }

    contacts, err := m.ContactRepo.ListByGroupID(campaign.ContactGroupID)
    if err != nil {
        return nil, err
    }
    callable := 0
    for _, c := range contacts {
        if !c.DoNotCall {
            callable++
        }
    }
    if callable == 0 {
        return nil, appErrors.NewValidation("contact_group", "group has no callable contacts")
    }

    ok, err := m.CampaignRepo.TransitionStatus(campaignID, model.CampaignStatusDraft, model.CampaignStatusActive)
    if err != nil {
        return nil, err
    }
    if !ok {
        // Lost a race with another start() on the same campaign.
        return nil, appErrors.NewInvalidStatus(campaignID, campaign.Status, "start")
    }

    exec, err := newCampaignExecution(
        campaign, agent, number, contacts,
        m.Dispatcher, m.CallRepo, m.Events, m.Watchdog,
        func(canceled bool) { m.onExecutionFinished(campaignID, canceled) },
    )
    if err != nil {
        // Activated but unable to run: this is the one path into "failed".
        log.Printf("❌ campaign %d: execution setup failed: %v", campaignID, err)
        if _, terr := m.CampaignRepo.TransitionStatus(campaignID, model.CampaignStatusActive, model.CampaignStatusFailed); terr != nil {
            log.Printf("⚠️ campaign %d: could not mark failed: %v", campaignID, terr)
        }
        return nil, err
    }

    m.mu.Lock()
    if m.running == nil {
        m.running = map[int]*CampaignExecution{}
    }
    m.running[campaignID] = exec
    m.mu.Unlock()

    log.Printf("🚀 campaign %d started: %d contacts, concurrency %d", campaignID, callable, campaign.ConcurrentCalls)
    exec.Start()

    return &StartResult{
        CampaignID:      campaignID,
        TotalContacts:   callable,
        ConcurrentCalls: campaign.ConcurrentCalls,
    }, nil
}

// Cancel stops further admissions for the campaign. Calls already in flight
// run to completion and their terminal state is still recorded.
func (m *CampaignManager) Cancel(campaignID int) error {
    campaign, err := m.CampaignRepo.GetByID(campaignID)
    if err != nil {
        return err
    }
    if campaign.Status != model.CampaignStatusActive {
        return appErrors.NewInvalidStatus(campaignID, campaign.Status, "cancel")
    }

    ok, err := m.CampaignRepo.TransitionStatus(campaignID, model.CampaignStatusActive, model.CampaignStatusCanceled)
    if err != nil {
        return err
    }
    if !ok {
        return appErrors.NewInvalidStatus(campaignID, campaign.Status, "cancel")
    }

    m.mu.Lock()
    exec := m.running[campaignID]
    m.mu.Unlock()

    if exec != nil {
        exec.Cancel()
    }
    log.Printf("🛑 campaign %d canceled", campaignID)
    return nil
}

// HandleProviderEvent routes a completion event to the execution whose
// active set contains its call id. Duplicate and late events match nothing
// and are dropped, which is what makes webhook replays safe.
func (m *CampaignManager) HandleProviderEvent(ev voice.CallEvent) bool {
    m.mu.Lock()
    execs := make([]*CampaignExecution, 0, len(m.running))
    for _, e := range m.running {
        execs = append(execs, e)
    }
    m.mu.Unlock()

    for _, e := range execs {
        if e.HandleCompletion(ev, CompletionSourceWebhook) {
            return true
        }
    }
    log.Printf("ignoring call event for unknown or finished call %s", ev.CallID)
    return false
}

// Execution returns the live execution for a campaign, if any.
func (m *CampaignManager) Execution(campaignID int) (*CampaignExecution, bool) {
    m.mu.Lock()
    defer m.mu.Unlock()
    exec, ok := m.running[campaignID]
    return exec, ok
}

// RecoverStalled marks campaigns persisted as active with no live execution
// as failed. Runs once at boot: an "active" row surviving a restart has no
// scheduler behind it and would otherwise look healthy forever.
func (m *CampaignManager) RecoverStalled() error {
    stalled, err := m.CampaignRepo.ListByStatus(model.CampaignStatusActive)
    if err != nil {
        return err
    }
    for _, c := range stalled {
        m.mu.Lock()
        _, live := m.running[c.ID]
        m.mu.Unlock()
        if live {
            continue
        }
        ok, err := m.CampaignRepo.TransitionStatus(c.ID, model.CampaignStatusActive, model.CampaignStatusFailed)
        if err != nil {
            log.Printf("⚠️ could not mark stalled campaign %d failed: %v", c.ID, err)
            continue
        }
        if ok {
            log.Printf("♻️ campaign %d was active with no execution, marked failed", c.ID)
        }
    }
    return nil
}

func (m *CampaignManager) onExecutionFinished(campaignID int, canceled bool) {
    m.mu.Lock()
    delete(m.running, campaignID)
    m.mu.Unlock()

    outcome := model.CampaignStatusCanceled
    if !canceled {
        ok, err := m.CampaignRepo.TransitionStatus(campaignID, model.CampaignStatusActive, model.CampaignStatusCompleted)
        if err != nil {
            log.Printf("⚠️ campaign %d: could not mark completed: %v", campaignID, err)
            return
        }
        if !ok {
            // Status changed under us (e.g. a cancel racing the last
            // completion); whoever won wrote the terminal state.
            return
        }
        outcome = model.CampaignStatusCompleted
    }

    if m.Events != nil {
        ev := events.NewEvent(events.TypeCampaignDone, campaignID)
        ev.Outcome = outcome
        if err := m.Events.Publish(ev); err != nil {
            log.Printf("⚠️ failed to publish campaign finish event: %v", err)
        }
    }
    log.Printf("🏁 campaign %d finished: %s", campaignID, outcome)
}
