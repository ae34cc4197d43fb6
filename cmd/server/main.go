// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/unclebandit/voiceleopard-backend/internal/controller"
	"github.com/unclebandit/voiceleopard-backend/internal/db"
	"github.com/unclebandit/voiceleopard-backend/internal/events"
	"github.com/unclebandit/voiceleopard-backend/internal/handler"
	"github.com/unclebandit/voiceleopard-backend/internal/repository"
	"github.com/unclebandit/voiceleopard-backend/internal/service"
	"github.com/unclebandit/voiceleopard-backend/internal/voice"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	// Init DB
	db.Init()

	campaignRepo := &repository.CampaignRepository{DB: db.DB}
	contactRepo := &repository.ContactRepository{DB: db.DB}
	agentRepo := &repository.AgentRepository{DB: db.DB}
	phoneRepo := &repository.PhoneNumberRepository{DB: db.DB}
	callRepo := &repository.CallRepository{DB: db.DB}

	// Event sink: RabbitMQ when configured, in-memory otherwise.
	var publisher events.Publisher
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		amqpPub, err := events.NewAMQPPublisher(url)
		if err != nil {
			log.Println("⚠️ RabbitMQ not available, keeping events in memory:", err)
			publisher = events.NewInMemoryPublisher()
		} else {
			defer amqpPub.Close()
			publisher = amqpPub
			log.Println("✅ Connected to RabbitMQ")
		}
	} else {
		publisher = events.NewInMemoryPublisher()
	}

	campaignManager := &service.CampaignManager{
		CampaignRepo: campaignRepo,
		ContactRepo:  contactRepo,
		AgentRepo:    agentRepo,
		PhoneRepo:    phoneRepo,
		CallRepo:     callRepo,
		Events:       publisher,
		Watchdog:     watchdogFromEnv(),
	}

	// Voice provider: real API when configured, simulator otherwise. The
	// simulator feeds completions through the same handler real webhooks use.
	var client voice.Client
	if base := os.Getenv("VOICE_PROVIDER_URL"); base != "" {
		client = voice.NewHTTPClient(base, os.Getenv("VOICE_PROVIDER_API_KEY"))
	} else {
		log.Println("⚠️ VOICE_PROVIDER_URL not set, running with simulated provider")
		client = voice.NewSimulator(func(ev voice.CallEvent) {
			campaignManager.HandleProviderEvent(ev)
		})
	}
	campaignManager.Dispatcher = service.NewCallDispatcher(client, os.Getenv("DEFAULT_COUNTRY_CODE"))

	campaignService := &service.CampaignService{
		CampaignRepo: campaignRepo,
		ContactRepo:  contactRepo,
		AgentRepo:    agentRepo,
		PhoneRepo:    phoneRepo,
		CallRepo:     callRepo,
	}

	campaignController := &controller.CampaignController{
		CampaignService: campaignService,
		Manager:         campaignManager,
	}

	campaignHandler := &handler.CampaignHandler{
		Service: campaignService,
		Manager: campaignManager,
	}

	webhookHandler := &handler.WebhookHandler{
		Manager: campaignManager,
	}

	// Campaigns recorded active before a restart have no scheduler behind
	// them anymore; mark them failed before accepting traffic.
	if err := campaignManager.RecoverStalled(); err != nil {
		log.Println("⚠️ stalled campaign sweep failed:", err)
	}

	r := chi.NewRouter()

	// Campaign routes
	r.Post("/campaigns", campaignController.CreateCampaign)
	r.Get("/campaigns", campaignController.ListCampaigns)
	r.Get("/campaigns/{id}", campaignHandler.GetCampaignWithStats)
	r.Post("/campaigns/{id}/start", campaignController.StartCampaign)
	r.Post("/campaigns/{id}/cancel", campaignController.CancelCampaign)

	// Provider webhook ingress
	r.Post("/webhooks/provider", webhookHandler.ProviderEvent)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("🚀 Server running on :" + port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}

// watchdogFromEnv is the ringing-duration limit plus a safety margin: if no
// webhook arrives within it, the tracker synthesizes a timeout completion.
func watchdogFromEnv() time.Duration {
	ringing := 90
	if v := os.Getenv("RINGING_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ringing = n
		}
	}
	return time.Duration(ringing)*time.Second + 30*time.Second
}
