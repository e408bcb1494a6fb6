// Package chat orchestrates the conversational flow: it feeds the provider
// registry from the transcript store and commits replies back to it.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/writewise/content-engine/internal/ai"
	"github.com/writewise/content-engine/internal/conversation"
	"github.com/writewise/content-engine/internal/settings"
	"github.com/writewise/content-engine/internal/types"
)

var (
	// ErrEmptyMessage is returned for blank user input.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrMissingTopic is returned when the form-based generator is called
	// without a topic.
	ErrMissingTopic = errors.New("topic is required")

	// ErrInvalidRegenerationTarget is returned when the target turn does
	// not exist, is not an assistant turn, or is not directly preceded by
	// a user turn. No request is made.
	ErrInvalidRegenerationTarget = errors.New("turn cannot be regenerated")

	// ErrRegenerationInFlight is returned when a regeneration for the
	// same turn is already running; concurrent attempts never race on the
	// same slot.
	ErrRegenerationInFlight = errors.New("regeneration already in flight for this turn")
)

// Service coordinates the transcript store, the provider registry and the
// model settings.
type Service struct {
	providers *ai.Registry
	store     *conversation.Store
	settings  *settings.Manager
	logger    *logrus.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewService creates a new chat service.
func NewService(providers *ai.Registry, store *conversation.Store, mgr *settings.Manager, logger *logrus.Logger) *Service {
	return &Service{
		providers: providers,
		store:     store,
		settings:  mgr,
		logger:    logger,
		inflight:  make(map[string]struct{}),
	}
}

// Send appends the user turn, requests a completion with the history that
// preceded it, and appends the assistant reply. The user turn is committed
// before dispatch, so a failed or cancelled request never removes it.
func (s *Service) Send(ctx context.Context, text string) (types.ConversationTurn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return types.ConversationTurn{}, ErrEmptyMessage
	}

	isContent := IsContentRequest(text)
	prior := s.store.Turns()
	s.store.Append(types.NewTurn(types.RoleUser, text))

	preamble := SystemPreamble()
	if isContent {
		preamble += contentStructureHint
	}

	res, err := s.providers.Generate(ctx, s.buildRequest(prior, text, preamble))
	if err != nil {
		return types.ConversationTurn{}, fmt.Errorf("generate reply: %w", err)
	}

	reply := types.NewTurn(types.RoleAssistant, res.Text)
	reply.IsGeneratedContent = isContent
	s.store.Append(reply)

	s.logger.WithFields(logrus.Fields{
		"content_request": isContent,
		"turn_id":         reply.ID,
	}).Debug("assistant reply appended")
	return reply, nil
}

// GenerateContent runs the form-based single-shot generation and returns
// the produced text without touching the transcript.
func (s *Service) GenerateContent(ctx context.Context, cmd types.ExtractedVoiceCommand) (string, error) {
	if strings.TrimSpace(cmd.Topic) == "" {
		return "", ErrMissingTopic
	}

	prompt := BuildContentPrompt(cmd)
	res, err := s.providers.Generate(ctx, s.buildRequest(nil, prompt, SystemPreamble()+contentStructureHint))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return res.Text, nil
}

// buildRequest resolves the active model settings into a request. A custom
// key is only forwarded when the user opted into one; otherwise the
// provider's environment key applies, and providers without one fail fast.
func (s *Service) buildRequest(prior []types.ConversationTurn, text, preamble string) ai.GenerationRequest {
	cfg := s.settings.Current()
	req := ai.GenerationRequest{
		Provider:       cfg.Provider,
		Model:          cfg.Model,
		PriorTurns:     prior,
		NewUserText:    text,
		SystemPreamble: preamble,
	}
	if cfg.UseCustomKey {
		req.APIKeyOverride = cfg.APIKey
	}
	return req
}
