package chat

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/writewise/content-engine/internal/types"
)

// Regenerate produces a replacement for the assistant turn with the given
// id, using the history truncated at its preceding user turn and a
// strengthened instruction. On any failure the original turn is left
// untouched. At most one regeneration runs per target id at a time.
func (s *Service) Regenerate(ctx context.Context, id string) (types.ConversationTurn, error) {
	turns := s.store.Turns()
	idx := -1
	for i := range turns {
		if turns[i].ID == id {
			idx = i
			break
		}
	}
	if idx <= 0 || turns[idx].Role != types.RoleAssistant || turns[idx-1].Role != types.RoleUser {
		return types.ConversationTurn{}, ErrInvalidRegenerationTarget
	}

	if !s.acquire(id) {
		return types.ConversationTurn{}, ErrRegenerationInFlight
	}
	defer s.release(id)

	target := turns[idx]
	userTurn := turns[idx-1]
	history := turns[:idx-1]

	var preamble string
	if target.IsGeneratedContent {
		preamble = regenerateContentPreamble
	} else {
		preamble = SystemPreamble() + "\n" + regenerateAnswerNote
	}

	res, err := s.providers.Generate(ctx, s.buildRequest(history, userTurn.PlainText(), preamble))
	if err != nil {
		return types.ConversationTurn{}, fmt.Errorf("regenerate reply: %w", err)
	}

	replacement := types.NewTurn(types.RoleAssistant, res.Text)
	replacement.IsGeneratedContent = target.IsGeneratedContent
	s.store.ReplaceAt(id, replacement)

	s.logger.WithFields(logrus.Fields{
		"replaced_turn_id": id,
		"new_turn_id":      replacement.ID,
	}).Info("assistant turn regenerated")
	return replacement, nil
}

func (s *Service) acquire(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[id]; busy {
		return false
	}
	s.inflight[id] = struct{}{}
	return true
}

func (s *Service) release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, id)
}
