// internal/service/campaign_service.go
package service

import (
    "log"
    "time"

    appErrors "github.com/unclebandit/voiceleopard-backend/internal/errors"
    "github.com/unclebandit/voiceleopard-backend/internal/model"
    "github.com/unclebandit/voiceleopard-backend/internal/repository"
)

type CampaignService struct {
    CampaignRepo repository.CampaignRepositoryInterface
    ContactRepo  repository.ContactRepositoryInterface
    AgentRepo    repository.AgentRepositoryInterface
    PhoneRepo    repository.PhoneNumberRepositoryInterface
    CallRepo     repository.CallRepositoryInterface
}

type CampaignDetails struct {
    ID              int            `json:"id"`
    Name            string         `json:"name"`
    AgentID         int            `json:"agent_id"`
    ContactGroupID  int            `json:"contact_group_id"`
    PhoneNumberID   int            `json:"phone_number_id"`
    ConcurrentCalls int            `json:"concurrent_calls"`
    Status          string         `json:"status"`
    CreatedAt       time.Time      `json:"created_at"`
    UpdatedAt       *time.Time     `json:"updated_at"`
    TotalContacts   int            `json:"total_contacts"`
    CallStats       map[string]int `json:"call_stats"`
}

func (s *CampaignService) CreateCampaign(name string, agentID, contactGroupID, phoneNumberID, concurrentCalls int) (*model.Campaign, error) {
    if name == "" {
        return nil, appErrors.NewValidation("name", "must not be empty")
    }
    if concurrentCalls < 1 {
        return nil, appErrors.NewValidation("concurrent_calls", "must be at least 1")
    }

    agent, err := s.AgentRepo.GetByID(agentID)
    if err != nil {
        return nil, err
    }
    if agent == nil {
        return nil, appErrors.NewValidation("agent_id", "agent does not exist")
    }

    group, err := s.ContactRepo.GetGroupByID(contactGroupID)
    if err != nil {
        return nil, err
    }
    if group == nil {
        return nil, appErrors.NewValidation("contact_group_id", "contact group does not exist")
    }

    number, err := s.PhoneRepo.GetByID(phoneNumberID)
    if err != nil {
        return nil, err
    }
    if number == nil {
        return nil, appErrors.NewValidation("phone_number_id", "phone number does not exist")
    }
    if number.AgentID != agentID {
        return nil, appErrors.NewValidation("phone_number_id", "phone number belongs to a different agent")
    }

    c := &model.Campaign{
        Name:            name,
        AgentID:         agentID,
        ContactGroupID:  contactGroupID,
        PhoneNumberID:   phoneNumberID,
        ConcurrentCalls: concurrentCalls,
        Status:          model.CampaignStatusDraft,
    }
    if err := s.CampaignRepo.Create(c); err != nil {
        return nil, err
    }
    return c, nil
}

// ListCampaigns fetches campaigns with pagination
func (s *CampaignService) ListCampaigns(page, pageSize int, status string) ([]model.Campaign, map[string]int, error) {
    if page < 1 {
        page = 1
    }
    if pageSize < 1 {
        pageSize = 20
    }
    if pageSize > 100 {
        pageSize = 100
    }
    offset := (page - 1) * pageSize

    ptrs, total, err := s.CampaignRepo.ListCampaigns(offset, pageSize, status)
    if err != nil {
        return nil, nil, err
    }

    campaigns := make([]model.Campaign, len(ptrs))
    for i, c := range ptrs {
        campaigns[i] = *c
    }

    totalPages := (total + pageSize - 1) / pageSize
    pagination := map[string]int{
        "page":        page,
        "page_size":   pageSize,
        "total_count": total,
        "total_pages": totalPages,
    }

    return campaigns, pagination, nil
}

func (s *CampaignService) GetCampaignDetailsWithStats(campaignID int) (*CampaignDetails, error) {
    campaign, err := s.CampaignRepo.GetByID(campaignID)
    if err != nil {
        return nil, err
    }

    contacts, err := s.ContactRepo.ListByGroupID(campaign.ContactGroupID)
    if err != nil {
        log.Println("Failed to count contacts:", err)
        return nil, err
    }

    stats, err := s.CallRepo.StatsByAgentID(campaign.AgentID)
    if err != nil {
        log.Println("Failed to query call stats:", err)
        return nil, err
    }

    total := 0
    for _, n := range stats {
        total += n
    }
    stats["total"] = total

    return &CampaignDetails{
        ID:              campaign.ID,
        Name:            campaign.Name,
        AgentID:         campaign.AgentID,
        ContactGroupID:  campaign.ContactGroupID,
        PhoneNumberID:   campaign.PhoneNumberID,
        ConcurrentCalls: campaign.ConcurrentCalls,
        Status:          campaign.Status,
        CreatedAt:       campaign.CreatedAt,
        UpdatedAt:       campaign.UpdatedAt,
        TotalContacts:   len(contacts),
        CallStats:       stats,
    }, nil
}
