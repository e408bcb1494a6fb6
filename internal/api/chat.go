package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/writewise/content-engine/internal/conversation"
	"github.com/writewise/content-engine/internal/service/chat"
	"github.com/writewise/content-engine/internal/types"
)

// SendMessageRequest is the request body for sending a chat message.
type SendMessageRequest struct {
	Content string `json:"content"`
}

// TurnResponse wraps a single conversation turn.
type TurnResponse struct {
	Turn types.ConversationTurn `json:"turn"`
}

// TranscriptResponse is the full ordered transcript.
type TranscriptResponse struct {
	Turns []types.ConversationTurn `json:"turns"`
}

// FeedbackRequest is the request body for rating an assistant turn.
type FeedbackRequest struct {
	Feedback string `json:"feedback"`
}

// GetTranscript returns the conversation transcript in order.
func (s *Server) GetTranscript(c echo.Context) error {
	turns := s.store.Turns()
	if turns == nil {
		turns = []types.ConversationTurn{}
	}
	return c.JSON(http.StatusOK, TranscriptResponse{Turns: turns})
}

// SendMessage appends a user turn and returns the generated assistant turn.
func (s *Server) SendMessage(c echo.Context) error {
	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if strings.TrimSpace(req.Content) == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "content is required"})
	}

	turn, err := s.chatService.Send(c.Request().Context(), req.Content)
	if err != nil {
		return s.generationError(c, err)
	}
	return c.JSON(http.StatusOK, TurnResponse{Turn: turn})
}

// SetFeedback records one-shot feedback on an assistant turn.
func (s *Server) SetFeedback(c echo.Context) error {
	var req FeedbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	err := s.store.SetFeedback(c.Param("id"), types.Feedback(req.Feedback))
	switch {
	case errors.Is(err, conversation.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "turn not found"})
	case errors.Is(err, conversation.ErrInvalidFeedback):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "feedback must be positive or negative"})
	case errors.Is(err, conversation.ErrFeedbackNotAssistant), errors.Is(err, conversation.ErrFeedbackAlreadySet):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case err != nil:
		s.logger.WithError(err).Error("failed to set feedback")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to set feedback"})
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// RegenerateMessage replaces an assistant turn in place with a fresh reply.
func (s *Server) RegenerateMessage(c echo.Context) error {
	turn, err := s.chatService.Regenerate(c.Request().Context(), c.Param("id"))
	switch {
	case errors.Is(err, chat.ErrInvalidRegenerationTarget):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "turn cannot be regenerated"})
	case errors.Is(err, chat.ErrRegenerationInFlight):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "regeneration already in progress"})
	case err != nil:
		return s.generationError(c, err)
	}
	return c.JSON(http.StatusOK, TurnResponse{Turn: turn})
}
