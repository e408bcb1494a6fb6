package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/writewise/content-engine/internal/ai"
	"github.com/writewise/content-engine/internal/voice"
)

const (
	modeTranscript = "transcript"
	modeCommand    = "command"
)

// TranscribeVoice accepts a recorded clip as a multipart upload and runs it
// through the voice pipeline. mode selects the result: "transcript" returns
// the raw transcript, "command" additionally extracts a structured command.
func (s *Server) TranscribeVoice(c echo.Context) error {
	mode := c.FormValue("mode")
	if mode == "" {
		mode = modeTranscript
	}
	if mode != modeTranscript && mode != modeCommand {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "mode must be transcript or command"})
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "audio file is required"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "audio file is unreadable"})
	}
	defer file.Close()

	clip, err := io.ReadAll(file)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "audio file is unreadable"})
	}

	ctx := c.Request().Context()
	if mode == modeCommand {
		cmd, err := s.pipeline.SubmitCommand(ctx, clip)
		if err != nil {
			return s.voiceError(c, err)
		}
		return c.JSON(http.StatusOK, cmd)
	}

	text, err := s.pipeline.SubmitTranscript(ctx, clip)
	if err != nil {
		return s.voiceError(c, err)
	}
	return c.JSON(http.StatusOK, TextResponse{Text: text})
}

func (s *Server) voiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, voice.ErrEmptyClip):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "audio clip is empty"})
	case errors.Is(err, voice.ErrEmptyTranscript):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "no speech detected"})
	case errors.Is(err, voice.ErrBusy):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "voice pipeline busy"})
	case errors.Is(err, ai.ErrMissingCredential):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing api key for selected provider"})
	default:
		s.logger.WithError(err).Error("voice processing failed")
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "voice processing failed"})
	}
}
