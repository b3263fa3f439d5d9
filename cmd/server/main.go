package main

import (
	"context"
	"encoding/gob"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"brainifi/internal/api"
	"brainifi/internal/api/handlers"
	"brainifi/internal/config"
	"brainifi/internal/db"
	"brainifi/internal/llm"
	"brainifi/internal/notify"
	"brainifi/internal/r2"
	"brainifi/internal/study"
	"brainifi/internal/youtube"

	"github.com/gin-contrib/sessions"
	gsessions "github.com/gin-contrib/sessions/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const storeName = "brainifi_session"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("FATAL: Invalid configuration: %v", err)
	}

	// Gob needs the concrete type stored in the session.
	gob.Register(handlers.UserProfile{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	database, err := db.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := db.Migrate(ctx, database.Pool); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	provider, err := llm.NewProvider(ctx, cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize LLM provider: %v", err)
	}
	defer func() {
		if err := llm.Close(provider); err != nil {
			log.Printf("WARN: Failed to close LLM provider: %v", err)
		}
	}()
	log.Printf("INFO: Using %s model %s", cfg.LLM.Provider, provider.ModelID())

	storage, err := r2.NewClient(ctx, cfg.R2)
	if err != nil {
		log.Fatalf("Failed to initialize R2 client: %v", err)
	}

	notifier := notify.NewDiscord(cfg.DiscordWebhookURL)
	defer notifier.Wait()

	oauthConfig := &oauth2.Config{
		RedirectURL:  cfg.GoogleRedirectURL,
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	router := gin.Default()

	// --- Session Configuration ---
	sessionDB := stdlib.OpenDBFromPool(database.Pool)
	defer sessionDB.Close()

	store, err := gsessions.NewStore(sessionDB, []byte(cfg.SessionSecret))
	if err != nil {
		log.Fatalf("Failed to create postgres session store: %v", err)
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		Secure:   strings.HasPrefix(cfg.FrontendURL, "https://"),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(storeName, store))

	handler := handlers.NewHandler(oauthConfig, database,
		study.NewGenerator(provider, study.GeneratorOptions{
			ChunkSize: cfg.ChunkSize,
			MaxChunks: cfg.MaxChunks,
			Workers:   cfg.GenerationWorkers,
		}),
		study.NewValidator(provider),
	)
	handler.Storage = storage
	handler.Transcripts = youtube.New(nil)
	handler.Notifier = notifier
	handler.MaxUploadBytes = cfg.MaxUploadBytes
	handler.FrontendURL = cfg.FrontendURL
	api.SetupRoutes(router, handler)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("INFO: Server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("INFO: Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown: %v", err)
	}
	log.Println("INFO: Server exited properly")
}
