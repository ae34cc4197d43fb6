// internal/handler/campaign_handler.go
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	appErrors "github.com/unclebandit/voiceleopard-backend/internal/errors"
	"github.com/unclebandit/voiceleopard-backend/internal/service"
)

// CampaignHandler serves campaign detail reads.
type CampaignHandler struct {
	Service *service.CampaignService
	Manager *service.CampaignManager
}

// GetCampaignWithStats returns persisted campaign details plus, when the
// campaign is currently running, the live in-flight and queued counts.
func (h *CampaignHandler) GetCampaignWithStats(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}

	details, err := h.Service.GetCampaignDetailsWithStats(id)
	if err != nil {
		var notFound *appErrors.ErrCampaignNotFound
		if errors.As(err, &notFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "failed to fetch campaign: "+err.Error(), http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"campaign": details,
	}
	if exec, ok := h.Manager.Execution(id); ok {
		response["execution"] = map[string]int{
			"active_calls":    exec.ActiveCount(),
			"queued_contacts": exec.QueuedCount(),
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
