// Package conversation owns the single source of truth for the visible
// chat transcript.
package conversation

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/writewise/content-engine/internal/types"
)

var (
	// ErrNotFound is returned when no turn matches the given id.
	ErrNotFound = errors.New("turn not found")

	// ErrFeedbackAlreadySet is returned when a turn already carries
	// feedback; the first value always wins.
	ErrFeedbackAlreadySet = errors.New("feedback already recorded")

	// ErrFeedbackNotAssistant is returned when feedback targets a turn
	// that is not an assistant turn.
	ErrFeedbackNotAssistant = errors.New("feedback applies to assistant turns only")

	// ErrInvalidFeedback is returned for feedback values other than
	// positive or negative.
	ErrInvalidFeedback = errors.New("invalid feedback value")
)

// TranscriptRepository mirrors the transcript to local device storage.
// Writes are best-effort; the in-memory transcript stays authoritative.
type TranscriptRepository interface {
	SaveTurn(turn types.ConversationTurn) error
	ReplaceTurn(oldID string, turn types.ConversationTurn) error
	SetFeedback(id string, fb types.Feedback) error
	LoadTurns() ([]types.ConversationTurn, error)
}

// Store is the ordered, mutable log of conversation turns. Turns are kept
// in strict chronological append order; the only removal is the implicit
// delete-then-insert performed by ReplaceAt.
type Store struct {
	mu     sync.Mutex
	turns  []types.ConversationTurn
	repo   TranscriptRepository
	logger *logrus.Logger
}

// NewStore creates a store, loading any previously mirrored transcript
// from the repository. Both repo and logger may be nil.
func NewStore(repo TranscriptRepository, logger *logrus.Logger) (*Store, error) {
	s := &Store{repo: repo, logger: logger}
	if repo != nil {
		turns, err := repo.LoadTurns()
		if err != nil {
			return nil, fmt.Errorf("load transcript: %w", err)
		}
		s.turns = turns
	}
	return s, nil
}

// Append adds a turn at the end of the transcript. A zero timestamp is
// assigned the current time. Append always succeeds and returns the turn
// as stored.
func (s *Store) Append(turn types.ConversationTurn) types.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()

	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now()
	}
	s.turns = append(s.turns, turn)
	s.mirror(func(r TranscriptRepository) error { return r.SaveTurn(turn) })
	return turn
}

// ReplaceAt substitutes the turn whose id matches, preserving its position
// and leaving every other turn untouched. An unknown id is a silent no-op;
// callers validate before replacing.
func (s *Store) ReplaceAt(id string, turn types.ConversationTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.turns {
		if s.turns[i].ID == id {
			if turn.Timestamp.IsZero() {
				turn.Timestamp = time.Now()
			}
			s.turns[i] = turn
			s.mirror(func(r TranscriptRepository) error { return r.ReplaceTurn(id, turn) })
			return
		}
	}
}

// SetFeedback records feedback on an assistant turn that has none yet.
// Duplicate or conflicting feedback is rejected so the first click wins.
func (s *Store) SetFeedback(id string, fb types.Feedback) error {
	if fb != types.FeedbackPositive && fb != types.FeedbackNegative {
		return fmt.Errorf("%w: %q", ErrInvalidFeedback, fb)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.turns {
		if s.turns[i].ID != id {
			continue
		}
		if s.turns[i].Role != types.RoleAssistant {
			return ErrFeedbackNotAssistant
		}
		if s.turns[i].Feedback != types.FeedbackNone {
			return ErrFeedbackAlreadySet
		}
		s.turns[i].Feedback = fb
		s.mirror(func(r TranscriptRepository) error { return r.SetFeedback(id, fb) })
		return nil
	}
	return ErrNotFound
}

// Get returns the turn with the given id and its current index.
func (s *Store) Get(id string) (types.ConversationTurn, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.turns {
		if s.turns[i].ID == id {
			return s.turns[i], i, true
		}
	}
	return types.ConversationTurn{}, -1, false
}

// Turns returns a snapshot of the transcript in order.
func (s *Store) Turns() []types.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.ConversationTurn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of turns.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

func (s *Store) mirror(op func(TranscriptRepository) error) {
	if s.repo == nil {
		return
	}
	if err := op(s.repo); err != nil && s.logger != nil {
		s.logger.WithError(err).Warn("transcript mirror write failed")
	}
}
