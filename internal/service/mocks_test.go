package service

import (
	"fmt"
	"sync"

	appErrors "github.com/unclebandit/voiceleopard-backend/internal/errors"
	"github.com/unclebandit/voiceleopard-backend/internal/model"
)

// In-memory repositories shared by the engine tests.

type mockCampaignRepo struct {
	mu        sync.Mutex
	campaigns map[int]*model.Campaign
	// transitions records every successful guarded transition as "from->to".
	transitions []string
}

func newMockCampaignRepo(campaigns ...*model.Campaign) *mockCampaignRepo {
	m := &mockCampaignRepo{campaigns: map[int]*model.Campaign{}}
	for _, c := range campaigns {
		m.campaigns[c.ID] = c
	}
	return m
}

func (m *mockCampaignRepo) Create(c *model.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = len(m.campaigns) + 1
	m.campaigns[c.ID] = c
	return nil
}

func (m *mockCampaignRepo) GetByID(id int) (*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	cp := *c
	return &cp, nil
}

func (m *mockCampaignRepo) ListCampaigns(offset, limit int, status string) ([]*model.Campaign, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := []*model.Campaign{}
	for _, c := range m.campaigns {
		if status == "" || c.Status == status {
			cp := *c
			all = append(all, &cp)
		}
	}
	return all, len(all), nil
}

func (m *mockCampaignRepo) UpdateStatus(campaignID int, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.campaigns[campaignID]; ok {
		c.Status = status
	}
	return nil
}

func (m *mockCampaignRepo) TransitionStatus(campaignID int, from, to string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[campaignID]
	if !ok || c.Status != from {
		return false, nil
	}
	c.Status = to
	m.transitions = append(m.transitions, from+"->"+to)
	return true, nil
}

func (m *mockCampaignRepo) ListByStatus(status string) ([]*model.Campaign, error) {
	list, _, err := m.ListCampaigns(0, 0, status)
	return list, err
}

func (m *mockCampaignRepo) status(id int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.campaigns[id].Status
}

func (m *mockCampaignRepo) transitionCount(transition string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.transitions {
		if t == transition {
			n++
		}
	}
	return n
}

type mockContactRepo struct {
	groups   map[int]*model.ContactGroup
	contacts map[int][]model.Contact
}

func (m *mockContactRepo) GetGroupByID(id int) (*model.ContactGroup, error) {
	g, ok := m.groups[id]
	if !ok {
		return nil, nil
	}
	return g, nil
}

func (m *mockContactRepo) ListByGroupID(groupID int) ([]model.Contact, error) {
	return m.contacts[groupID], nil
}

type mockAgentRepo struct {
	agents map[int]*model.Agent
}

func (m *mockAgentRepo) GetByID(id int) (*model.Agent, error) {
	return m.agents[id], nil
}

type mockPhoneRepo struct {
	numbers map[int]*model.PhoneNumber
}

func (m *mockPhoneRepo) GetByID(id int) (*model.PhoneNumber, error) {
	return m.numbers[id], nil
}

func (m *mockPhoneRepo) GetByAgentID(agentID int) ([]model.PhoneNumber, error) {
	out := []model.PhoneNumber{}
	for _, n := range m.numbers {
		if n.AgentID == agentID {
			out = append(out, *n)
		}
	}
	return out, nil
}

type mockCallRepo struct {
	mu    sync.Mutex
	calls map[string]*model.Call
}

func newMockCallRepo() *mockCallRepo {
	return &mockCallRepo{calls: map[string]*model.Call{}}
}

func (m *mockCallRepo) Create(call *model.Call) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	call.ID = len(m.calls) + 1
	if call.Outcome == "" {
		call.Outcome = model.CallOutcomeInProgress
	}
	m.calls[call.ProviderCallID] = call
	return nil
}

func (m *mockCallRepo) GetByProviderID(providerCallID string) (*model.Call, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.calls[providerCallID]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *mockCallRepo) Finalize(providerCallID, outcome, endedReason string, durationSeconds int, cost float64, recordingURL string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.calls[providerCallID]
	if !ok || c.Outcome != model.CallOutcomeInProgress {
		return false, nil
	}
	c.Outcome = outcome
	c.EndedReason = endedReason
	c.DurationSeconds = durationSeconds
	c.Cost = cost
	c.RecordingURL = recordingURL
	return true, nil
}

func (m *mockCallRepo) StatsByAgentID(agentID int) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := map[string]int{}
	for _, c := range m.calls {
		if c.AgentID == agentID {
			stats[c.Outcome]++
		}
	}
	return stats, nil
}

func (m *mockCallRepo) outcomeCounts() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int{}
	for _, c := range m.calls {
		counts[c.Outcome]++
	}
	return counts
}

// fakeDispatcher records admissions and lets tests fail chosen contacts.
// Provider call ids are derived from the contact id so completions are easy
// to synthesize.
type fakeDispatcher struct {
	mu         sync.Mutex
	order      []int         // contact ids in admission order
	failFor    map[int]error // contact id -> permanent dispatch error
	dispatched chan int      // receives each contact id as it is dispatched
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{
		failFor:    map[int]error{},
		dispatched: make(chan int, 64),
	}
}

func (d *fakeDispatcher) Dispatch(contact *model.Contact, agent *model.Agent, number *model.PhoneNumber) (*DispatchResult, error) {
	d.mu.Lock()
	d.order = append(d.order, contact.ID)
	err := d.failFor[contact.ID]
	d.mu.Unlock()

	d.dispatched <- contact.ID
	if err != nil {
		return nil, err
	}
	return &DispatchResult{
		CallID:   providerID(contact.ID),
		ToNumber: contact.Phone,
	}, nil
}

func (d *fakeDispatcher) dispatchOrder() []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]int, len(d.order))
	copy(out, d.order)
	return out
}

func providerID(contactID int) string {
	return fmt.Sprintf("prov-call-%d", contactID)
}
