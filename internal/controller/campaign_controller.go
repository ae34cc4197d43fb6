// internal/controller/campaign_controller.go
package controller

import (
    "encoding/json"
    "errors"
    "net/http"
    "strconv"

    appErrors "github.com/unclebandit/voiceleopard-backend/internal/errors"
    "github.com/unclebandit/voiceleopard-backend/internal/service"

    "github.com/go-chi/chi/v5"
)

type CampaignController struct {
    CampaignService *service.CampaignService
    Manager         *service.CampaignManager
}

func writeError(w http.ResponseWriter, err error) {
    var notFound *appErrors.ErrCampaignNotFound
    var invalidStatus *appErrors.ErrInvalidStatus
    switch {
    case appErrors.IsValidation(err):
        http.Error(w, err.Error(), http.StatusUnprocessableEntity)
    case errors.As(err, &notFound):
        http.Error(w, err.Error(), http.StatusNotFound)
    case errors.As(err, &invalidStatus):
        http.Error(w, err.Error(), http.StatusConflict)
    default:
        http.Error(w, err.Error(), http.StatusInternalServerError)
    }
}

func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
    var body struct {
        Name            string `json:"name"`
        AgentID         int    `json:"agent_id"`
        ContactGroupID  int    `json:"contact_group_id"`
        PhoneNumberID   int    `json:"phone_number_id"`
        ConcurrentCalls int    `json:"concurrent_calls"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }

    campaign, err := c.CampaignService.CreateCampaign(body.Name, body.AgentID, body.ContactGroupID, body.PhoneNumberID, body.ConcurrentCalls)
    if err != nil {
        writeError(w, err)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(campaign)
}

func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
    page, _ := strconv.Atoi(r.URL.Query().Get("page"))
    pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
    status := r.URL.Query().Get("status")

    if page < 1 {
        page = 1
    }
    if pageSize < 1 {
        pageSize = 20
    }

    campaigns, pagination, err := c.CampaignService.ListCampaigns(page, pageSize, status)
    if err != nil {
        writeError(w, err)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(map[string]interface{}{
        "data":       campaigns,
        "pagination": pagination,
    })
}

// StartCampaign activates a draft campaign and begins dispatching. The
// acknowledgment is synchronous; dispatching continues in the background.
func (c *CampaignController) StartCampaign(w http.ResponseWriter, r *http.Request) {
    idStr := chi.URLParam(r, "id")
    id, err := strconv.Atoi(idStr)
    if err != nil {
        http.Error(w, "invalid campaign id", http.StatusBadRequest)
        return
    }

    result, err := c.Manager.Start(id)
    if err != nil {
        writeError(w, err)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(result)
}

func (c *CampaignController) CancelCampaign(w http.ResponseWriter, r *http.Request) {
    idStr := chi.URLParam(r, "id")
    id, err := strconv.Atoi(idStr)
    if err != nil {
        http.Error(w, "invalid campaign id", http.StatusBadRequest)
        return
    }

    if err := c.Manager.Cancel(id); err != nil {
        writeError(w, err)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(map[string]interface{}{
        "campaign_id": id,
        "status":      "canceled",
    })
}
