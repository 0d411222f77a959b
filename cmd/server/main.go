package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"papermorph/internal/assistant"
	"papermorph/internal/assistant/openrouter"
	"papermorph/internal/assistant/prompt"
	"papermorph/internal/auth"
	"papermorph/internal/config"
	"papermorph/internal/domain/services"
	"papermorph/internal/export"
	"papermorph/internal/handler"
	"papermorph/internal/importer"
	"papermorph/internal/middleware"
	"papermorph/internal/repository/postgres"
	"papermorph/internal/service"
	"papermorph/internal/template"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logOutput := io.Writer(os.Stdout)
	if cfg.Debug {
		if logFile, err := config.SetupLogFile("logs", 10); err == nil {
			defer logFile.Close()
			logOutput = io.MultiWriter(os.Stdout, logFile)
		} else {
			log.Printf("warning: file logging disabled: %v", err)
		}
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"default_model", cfg.DefaultModel,
	)

	if cfg.OpenRouterAPIKey == "" {
		logger.Warn("OPENROUTER_API_KEY is not set; assistant requests will fail upstream")
	}

	// Session verifier for the shared-secret auth scheme
	verifier := auth.NewStaticVerifier(cfg.SessionToken)

	// User preferences persistence. An empty DATABASE_URL disables the
	// preferences endpoints but leaves the rest of the editor working.
	var userPrefsService services.UserPreferencesService
	if cfg.DatabaseURL != "" {
		ctx := context.Background()
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()

		tables := postgres.NewTableNames(cfg.TablePrefix)
		userPrefsRepo := postgres.NewUserPreferencesRepository(&postgres.RepositoryConfig{
			Pool:   pool,
			Tables: tables,
			Logger: logger,
		})
		userPrefsService = service.NewUserPreferencesService(userPrefsRepo, logger)

		logger.Info("database connected", "table_prefix", cfg.TablePrefix)
	} else {
		logger.Warn("DATABASE_URL is not set; user preferences endpoints disabled")
	}

	// Prompt use case registry (embedded config)
	promptRegistry, err := prompt.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize prompt registry: %v", err)
	}

	// Template catalog (embedded config)
	templateRegistry, err := template.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize template registry: %v", err)
	}

	// Assistant: completion client + conversation service
	completionClient := openrouter.NewClient(
		cfg.OpenRouterBaseURL,
		cfg.OpenRouterAPIKey,
		time.Duration(cfg.RequestTimeoutSeconds)*time.Second,
		logger,
	)
	assistantService := assistant.NewService(completionClient, promptRegistry, cfg.DefaultModel, logger)

	// Export and import services
	exportManager := export.NewManager(logger)
	importService := importer.NewService(logger)

	// Handlers
	assistantHandler := handler.NewAssistantHandler(assistantService, userPrefsService, logger)
	exportHandler := handler.NewExportHandler(exportManager, logger)
	importHandler := handler.NewImportHandler(importService, logger)
	templatesHandler := handler.NewTemplatesHandler(templateRegistry, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Conversation routes
	mux.HandleFunc("POST /api/conversations", assistantHandler.CreateConversation)
	mux.HandleFunc("GET /api/conversations/{id}", assistantHandler.GetConversation)
	mux.HandleFunc("DELETE /api/conversations/{id}", assistantHandler.DeleteConversation)
	mux.HandleFunc("GET /api/conversations/{id}/messages", assistantHandler.ListMessages)
	mux.HandleFunc("POST /api/conversations/{id}/messages", assistantHandler.SendMessage)
	mux.HandleFunc("DELETE /api/conversations/{id}/messages", assistantHandler.ClearMessages)

	// Export and import routes
	mux.HandleFunc("POST /api/export", exportHandler.Export)
	mux.HandleFunc("POST /api/import", importHandler.Import)

	// Template routes
	mux.HandleFunc("GET /api/templates", templatesHandler.List)
	mux.HandleFunc("GET /api/templates/{id}", templatesHandler.Get)

	// User preferences routes
	if userPrefsService != nil {
		userPrefsHandler := handler.NewUserPreferencesHandler(userPrefsService, logger)
		mux.HandleFunc("GET /api/users/me/preferences", userPrefsHandler.GetPreferences)
		mux.HandleFunc("PATCH /api/users/me/preferences", userPrefsHandler.UpdatePreferences)
	}

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	root = middleware.Auth(verifier)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// A chat turn blocks until the upstream stream completes, so the write
	// timeout stays disabled; the completion client enforces its own.
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
