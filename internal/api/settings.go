package api

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/writewise/content-engine/internal/ai"
	"github.com/writewise/content-engine/internal/settings"
)

// ModelSettingsRequest is the request body for updating model settings.
type ModelSettingsRequest struct {
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	APIKey       string `json:"api_key"`
	UseCustomKey bool   `json:"use_custom_key"`
}

// ModelSettingsResponse describes the active settings. The stored API key
// is reported as present or absent, never echoed back.
type ModelSettingsResponse struct {
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	UseCustomKey bool   `json:"use_custom_key"`
	HasAPIKey    bool   `json:"has_api_key"`
}

// GetModelSettings returns the active model configuration.
func (s *Server) GetModelSettings(c echo.Context) error {
	cfg := s.settings.Current()
	return c.JSON(http.StatusOK, ModelSettingsResponse{
		Provider:     string(cfg.Provider),
		Model:        cfg.Model,
		UseCustomKey: cfg.UseCustomKey,
		HasAPIKey:    cfg.APIKey != "",
	})
}

// UpdateModelSettings validates and stores a new model configuration.
func (s *Server) UpdateModelSettings(c echo.Context) error {
	var req ModelSettingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	provider, ok := s.providers.Get(ai.ProviderName(req.Provider))
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown provider"})
	}
	if req.Model != "" && !slices.Contains(provider.Models(), req.Model) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "model not offered by provider"})
	}
	if req.UseCustomKey && req.APIKey == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "api key is required when use_custom_key is set"})
	}

	cfg := settings.ModelConfig{
		Provider:     provider.Name(),
		Model:        req.Model,
		APIKey:       req.APIKey,
		UseCustomKey: req.UseCustomKey,
	}
	if err := s.settings.Update(cfg); err != nil {
		s.logger.WithError(err).Error("failed to save model settings")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to save settings"})
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
