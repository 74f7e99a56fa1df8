package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/recipe-collection-be/internal/api"
	"github.com/isdelr/recipe-collection-be/internal/assistant"
	"github.com/isdelr/recipe-collection-be/internal/auth"
	"github.com/isdelr/recipe-collection-be/internal/config"
	"github.com/isdelr/recipe-collection-be/internal/database"
	"github.com/isdelr/recipe-collection-be/internal/logger"
	"github.com/isdelr/recipe-collection-be/internal/monitoring"
	"github.com/isdelr/recipe-collection-be/internal/services"
	"github.com/isdelr/recipe-collection-be/internal/session"
	"github.com/isdelr/recipe-collection-be/internal/store"
	"github.com/isdelr/recipe-collection-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrMissingAPIKey) {
			log.Fatal().Err(err).Msg("Please check your .env file")
		}
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel, cfg.IsProduction())

	// Set up the credential store
	var userStore store.UserStore
	switch cfg.UserStore {
	case config.StoreSQLite:
		db, err := database.New(cfg.DatabasePath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize database")
		}
		defer db.Close()
		userStore = store.NewSQLiteStore(db)
	default:
		userStore = store.NewCSVStore(cfg.UserDataFile)
	}
	if err := userStore.Init(); err != nil {
		log.Fatal().Err(err).Str("store", cfg.UserStore).Msg("Failed to initialize user store")
	}

	// Set up the model client
	llm, err := assistant.NewClient(assistant.Options{
		APIKey:  cfg.GroqAPIKey,
		BaseURL: cfg.GroqBaseURL,
		Model:   cfg.GroqModel,
	})
	if err != nil {
		// Chat and recommendations answer with an apology until restarted.
		log.Error().Err(err).Msg("Error initializing model client")
	}

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		log.Warn().Msg("JWT_SECRET not set, sessions will not survive a restart")
		jwtSecret = uuid.NewString() + uuid.NewString()
	}
	// Tokens outlive the idle window so the sweep decides when a session ends.
	tokens := auth.NewTokenIssuer(jwtSecret, 2*cfg.SessionIdleTimeout)

	// Set up sessions and their sweeper
	sessions := session.NewManager()
	sweeper, err := monitoring.NewSweeper(sessions, cfg.SessionSweepSchedule, cfg.SessionIdleTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create session sweeper")
	}
	go sweeper.Run()

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	userService := services.NewUserService(userStore)
	chatService := services.NewChatService(llm, cfg.LLMTimeout)
	recommendationService := services.NewRecommendationService(llm, cfg.LLMTimeout)
	plannerService := services.NewPlannerService()

	// Set up router
	router := api.NewRouter(api.Dependencies{
		Hub:             hub,
		Sessions:        sessions,
		Tokens:          tokens,
		Users:           userService,
		Chat:            chatService,
		Recommendations: recommendationService,
		Planner:         plannerService,
		AllowedOrigins:  cfg.AllowedOrigins,
		SecureCookies:   cfg.IsProduction(),
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("store", cfg.UserStore).Str("model", llm.Model()).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	hub.Stop()

	log.Info().Msg("Server exiting")
}
