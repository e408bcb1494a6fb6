// Package api exposes the engine to the site widget over HTTP.
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/writewise/content-engine/internal/ai"
	"github.com/writewise/content-engine/internal/conversation"
	"github.com/writewise/content-engine/internal/service/chat"
	"github.com/writewise/content-engine/internal/settings"
	"github.com/writewise/content-engine/internal/voice"
)

// Server holds API dependencies.
type Server struct {
	chatService *chat.Service
	store       *conversation.Store
	pipeline    *voice.Pipeline
	providers   *ai.Registry
	settings    *settings.Manager
	logger      *logrus.Logger
}

// NewServer creates a new API server.
func NewServer(chatService *chat.Service, store *conversation.Store, pipeline *voice.Pipeline, providers *ai.Registry, mgr *settings.Manager, logger *logrus.Logger) *Server {
	return &Server{
		chatService: chatService,
		store:       store,
		pipeline:    pipeline,
		providers:   providers,
		settings:    mgr,
		logger:      logger,
	}
}

// generationError maps engine errors to HTTP responses. Provider-side
// failures are bad-gateway; everything the caller can fix is bad-request.
func (s *Server) generationError(c echo.Context, err error) error {
	var apiErr *ai.APIError
	var malformed *ai.MalformedResponseError

	switch {
	case errors.Is(err, ai.ErrMissingCredential):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing api key for selected provider"})
	case errors.Is(err, ai.ErrUnknownProvider), errors.Is(err, ai.ErrUnknownModel):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.As(err, &apiErr), errors.As(err, &malformed):
		s.logger.WithError(err).Error("provider request failed")
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "provider request failed"})
	default:
		s.logger.WithError(err).Error("generation failed")
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "generation failed"})
	}
}
