// internal/handler/webhook_handler.go
package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/unclebandit/voiceleopard-backend/internal/service"
	"github.com/unclebandit/voiceleopard-backend/internal/voice"
)

// WebhookHandler receives call lifecycle events from the voice provider.
type WebhookHandler struct {
	Manager *service.CampaignManager
}

// ProviderEvent handles POST /webhooks/provider. Delivery is at-least-once:
// duplicates and events for already-finalized calls are acknowledged with
// 200 and otherwise ignored, so the provider never retries them forever.
func (h *WebhookHandler) ProviderEvent(w http.ResponseWriter, r *http.Request) {
	var ev voice.CallEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if ev.CallID == "" {
		http.Error(w, "missing callId", http.StatusBadRequest)
		return
	}

	handled := h.Manager.HandleProviderEvent(ev)
	if !handled {
		log.Println("webhook for unknown call id:", ev.CallID)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"received": true,
		"handled":  handled,
	})
}
