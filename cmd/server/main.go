package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"partyfox/internal/audio"
	"partyfox/internal/bot"
	"partyfox/internal/config"
	"partyfox/internal/database"
	"partyfox/internal/handlers"
	"partyfox/internal/repository"
	"partyfox/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize storage. DB_TYPE=memory keeps everything in process,
	// which is handy for local development and demos.
	var store repository.PartyStore
	if cfg.DatabaseType == "memory" {
		store = repository.NewMemStore()
		log.Println("Using in-memory store; parties are lost on restart")
	} else {
		db, err := database.InitializeWithConfig(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()

		log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

		if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}

		log.Println("Migrations completed successfully")

		store = repository.NewPartyRepository(db)
	}

	// Initialize services
	partyService := service.NewPartyService(store, cfg.PublicBaseURL)
	claimService := service.NewClaimService(store)

	shareService, err := service.NewShareService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName)
	if err != nil {
		log.Fatalf("Failed to initialize share service: %v", err)
	}
	if !shareService.IsEnabled() {
		log.Println("Share-by-email disabled (SES_FROM_EMAIL not set)")
	}

	synthesizer := audio.NewSynthesizer(cfg.ElevenLabsAPIKey, cfg.ElevenLabsVoiceID, cfg.ElevenLabsBaseURL, cfg.AudioCachePath)

	// Initialize handlers
	middleware := handlers.NewMiddleware(cfg.AdminTokenSecret)
	partyHandler := handlers.NewPartyHandler(partyService, claimService, shareService)
	audioHandler := handlers.NewAudioHandler(synthesizer)
	adminHandler := handlers.NewAdminHandler(partyService, cfg.AdminPasswordHash, cfg.AdminTokenSecret)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/parties", partyHandler.CreateParty)
	mux.HandleFunc("GET /api/parties/{partyId}", partyHandler.GetParty)
	mux.HandleFunc("POST /api/claims", partyHandler.ClaimGuest)
	mux.HandleFunc("POST /api/parties/{partyId}/share", partyHandler.ShareParty)
	mux.HandleFunc("POST /api/generate-audio", audioHandler.GenerateAudio)

	// Operator routes
	mux.HandleFunc("POST /api/admin/login", adminHandler.Login)
	mux.HandleFunc("GET /api/admin/parties", middleware.RequireAdmin(adminHandler.ListParties))

	// The webhook route only exists when a bot token is configured
	if cfg.BotToken != "" {
		sender := bot.NewClient(cfg.BotToken, cfg.BotAPIBase)
		dispatcher := bot.NewDispatcher(partyService, sender)
		webhookHandler := handlers.NewWebhookHandler(dispatcher)
		mux.HandleFunc("POST /telegram/webhook", webhookHandler.HandleUpdate)
		log.Println("Telegram webhook registered at /telegram/webhook")
	}

	// Wrap with middleware
	handler := handlers.Logging(handlers.CORS(mux))

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
