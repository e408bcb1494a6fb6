package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/writewise/content-engine/internal/service/chat"
	"github.com/writewise/content-engine/internal/types"
)

// GenerateContentRequest is the request body for the form-based generator.
type GenerateContentRequest struct {
	Topic          string `json:"topic"`
	ContentType    string `json:"content_type"`
	Tone           string `json:"tone"`
	Keywords       string `json:"keywords"`
	AdditionalInfo string `json:"additional_info"`
}

// GenerateContent produces a single block of content from form fields.
func (s *Server) GenerateContent(c echo.Context) error {
	var req GenerateContentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	cmd := types.ExtractedVoiceCommand{
		Topic:          req.Topic,
		ContentType:    req.ContentType,
		Tone:           req.Tone,
		Keywords:       req.Keywords,
		AdditionalInfo: req.AdditionalInfo,
	}
	if cmd.ContentType == "" {
		cmd.ContentType = types.DefaultContentType
	}
	if cmd.Tone == "" {
		cmd.Tone = types.DefaultTone
	}

	text, err := s.chatService.GenerateContent(c.Request().Context(), cmd)
	if errors.Is(err, chat.ErrMissingTopic) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "topic is required"})
	}
	if err != nil {
		return s.generationError(c, err)
	}
	return c.JSON(http.StatusOK, TextResponse{Text: text})
}
