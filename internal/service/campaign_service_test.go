package service

import (
	"testing"

	appErrors "github.com/unclebandit/voiceleopard-backend/internal/errors"
	"github.com/unclebandit/voiceleopard-backend/internal/model"
)

// paginationRepo serves a fixed descending list the way the SQL layer does.
type paginationRepo struct {
	*mockCampaignRepo
	all []*model.Campaign
}

func (m *paginationRepo) ListCampaigns(offset, limit int, status string) ([]*model.Campaign, int, error) {
	start := offset
	end := offset + limit
	if start >= len(m.all) {
		return []*model.Campaign{}, len(m.all), nil
	}
	if end > len(m.all) {
		end = len(m.all)
	}
	return m.all[start:end], len(m.all), nil
}

func TestListCampaignsPagination(t *testing.T) {
	all := []*model.Campaign{
		{ID: 5, Name: "C5"},
		{ID: 4, Name: "C4"},
		{ID: 3, Name: "C3"},
		{ID: 2, Name: "C2"},
		{ID: 1, Name: "C1"},
	}
	svc := &CampaignService{
		CampaignRepo: &paginationRepo{mockCampaignRepo: newMockCampaignRepo(), all: all},
	}

	pageSize := 2

	page1, pagination1, err := svc.ListCampaigns(1, pageSize, "")
	if err != nil {
		t.Fatal(err)
	}
	page2, _, _ := svc.ListCampaigns(2, pageSize, "")

	if pagination1["total_count"] != 5 {
		t.Errorf("expected total_count 5, got %d", pagination1["total_count"])
	}
	if pagination1["total_pages"] != 3 {
		t.Errorf("expected total_pages 3, got %d", pagination1["total_pages"])
	}
	if len(page1) != 2 || len(page2) != 2 {
		t.Fatalf("expected full pages, got %d and %d", len(page1), len(page2))
	}
	if page1[1].ID == page2[0].ID {
		t.Errorf("duplicate entry between pages: %v", page1[1].ID)
	}

	page3, pagination3, _ := svc.ListCampaigns(3, pageSize, "")
	if len(page3) != 1 {
		t.Errorf("expected last page to have 1 item, got %d", len(page3))
	}
	if pagination3["total_count"] != 5 {
		t.Errorf("expected total_count 5, got %d", pagination3["total_count"])
	}
}

func TestCreateCampaignValidatesReferences(t *testing.T) {
	svc := &CampaignService{
		CampaignRepo: newMockCampaignRepo(),
		ContactRepo: &mockContactRepo{
			groups:   map[int]*model.ContactGroup{1: {ID: 1, Name: "Group"}},
			contacts: map[int][]model.Contact{},
		},
		AgentRepo: &mockAgentRepo{agents: map[int]*model.Agent{1: testAgent()}},
		PhoneRepo: &mockPhoneRepo{numbers: map[int]*model.PhoneNumber{
			1: testNumber(),
			2: {ID: 2, AgentID: 9, Number: "+254700000002", ProviderNumberID: "num_2"},
		}},
	}

	if _, err := svc.CreateCampaign("Ok", 1, 1, 1, 3); err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}

	cases := []struct {
		name                            string
		campaignName                    string
		agentID, groupID, phoneID, conc int
	}{
		{"empty name", "", 1, 1, 1, 3},
		{"zero concurrency", "X", 1, 1, 1, 0},
		{"unknown agent", "X", 9, 1, 1, 3},
		{"unknown group", "X", 1, 9, 1, 3},
		{"unknown number", "X", 1, 1, 9, 3},
		{"number owned by other agent", "X", 1, 1, 2, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateCampaign(tc.campaignName, tc.agentID, tc.groupID, tc.phoneID, tc.conc)
			if !appErrors.IsValidation(err) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestGetCampaignDetailsWithStats(t *testing.T) {
	campaign := testCampaign(2)
	calls := newMockCallRepo()
	calls.Create(&model.Call{AgentID: 1, ProviderCallID: "a", Outcome: model.CallOutcomeCompleted})
	calls.Create(&model.Call{AgentID: 1, ProviderCallID: "b", Outcome: model.CallOutcomeNoAnswer})
	calls.Create(&model.Call{AgentID: 1, ProviderCallID: "c", Outcome: model.CallOutcomeCompleted})

	svc := &CampaignService{
		CampaignRepo: newMockCampaignRepo(campaign),
		ContactRepo: &mockContactRepo{
			contacts: map[int][]model.Contact{1: testContacts(5)},
		},
		CallRepo: calls,
	}

	details, err := svc.GetCampaignDetailsWithStats(1)
	if err != nil {
		t.Fatalf("details failed: %v", err)
	}
	if details.TotalContacts != 5 {
		t.Errorf("expected 5 contacts, got %d", details.TotalContacts)
	}
	if details.CallStats[model.CallOutcomeCompleted] != 2 {
		t.Errorf("expected 2 completed calls, got %+v", details.CallStats)
	}
	if details.CallStats["total"] != 3 {
		t.Errorf("expected total 3, got %+v", details.CallStats)
	}
}
