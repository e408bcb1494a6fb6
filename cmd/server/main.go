package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/writewise/content-engine/internal/ai"
	"github.com/writewise/content-engine/internal/ai/anthropic"
	"github.com/writewise/content-engine/internal/ai/mistral"
	"github.com/writewise/content-engine/internal/ai/mock"
	"github.com/writewise/content-engine/internal/ai/openai"
	"github.com/writewise/content-engine/internal/api"
	"github.com/writewise/content-engine/internal/config"
	"github.com/writewise/content-engine/internal/conversation"
	"github.com/writewise/content-engine/internal/service/chat"
	"github.com/writewise/content-engine/internal/settings"
	"github.com/writewise/content-engine/internal/storage/sqlite"
	"github.com/writewise/content-engine/internal/types"
	"github.com/writewise/content-engine/internal/voice"
	"github.com/writewise/content-engine/internal/voice/elevenlabs"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	// Load configuration; a missing default provider key fails here.
	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("failed to load configuration")
	}

	if cfg.LogFormat == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	}

	logger.Info("starting content-engine server")

	// Open local device storage
	storagePath := cfg.Storage.Path
	if storagePath == "" {
		storagePath, err = sqlite.DefaultPath()
		if err != nil {
			logger.WithError(err).Fatal("failed to resolve storage path")
		}
	}
	db, err := sqlite.Open(storagePath)
	if err != nil {
		logger.WithError(err).Fatal("failed to open local storage")
	}
	defer db.Close()

	// Build the provider registry
	providers := ai.NewRegistry(
		mistral.NewClient(cfg.Mistral.APIKey),
		openai.NewClient(cfg.OpenAI.APIKey),
		anthropic.NewClient(cfg.Anthropic.APIKey),
		mock.New(),
	)

	// Load persisted model settings
	settingsMgr, err := settings.NewManager(sqlite.NewSettingsRepository(db))
	if err != nil {
		logger.WithError(err).Fatal("failed to load model settings")
	}

	// Restore the transcript, seeding the welcome turn on first run
	store, err := conversation.NewStore(sqlite.NewTranscriptRepository(db), logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to load transcript")
	}
	if store.Len() == 0 {
		store.Append(types.NewTurn(types.RoleAssistant, chat.WelcomeMessage))
	}

	// Initialize services
	chatService := chat.NewService(providers, store, settingsMgr, logger)
	transcriber := elevenlabs.NewClient(cfg.ElevenLabs.APIKey, elevenlabs.WithModel(cfg.ElevenLabs.Model))
	pipeline := voice.NewPipeline(transcriber, providers, settingsMgr, logger)

	// Initialize API server
	server := api.NewServer(chatService, store, pipeline, providers, settingsMgr, logger)

	// Create Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Add middleware
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.WithFields(logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
			}).Info("request")
			return nil
		},
	}))

	// Health check endpoint
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	// Engine routes
	e.GET("/chat/transcript", server.GetTranscript)
	e.POST("/chat/messages", server.SendMessage)
	e.POST("/chat/messages/:id/feedback", server.SetFeedback)
	e.POST("/chat/messages/:id/regenerate", server.RegenerateMessage)
	e.POST("/content/generate", server.GenerateContent)
	e.POST("/voice/transcriptions", server.TranscribeVoice)
	e.GET("/settings/model", server.GetModelSettings)
	e.PUT("/settings/model", server.UpdateModelSettings)

	// Start server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	go func() {
		logger.WithField("addr", addr).Info("server listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("server shutdown error")
	}

	logger.Info("server stopped")
}
