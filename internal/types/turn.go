package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role represents the role of a turn's author.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Feedback is the user's rating of an assistant turn. It starts empty and
// can be recorded at most once per turn.
type Feedback string

const (
	FeedbackNone     Feedback = ""
	FeedbackPositive Feedback = "positive"
	FeedbackNegative Feedback = "negative"
)

// FragmentKindText marks a fragment that carries plain text.
const FragmentKindText = "text"

// Fragment is one piece of a turn's content. Providers may return content
// as an ordered sequence of kind-tagged fragments instead of a plain string.
type Fragment struct {
	Kind string `json:"kind"`
	Text string `json:"text,omitempty"`
}

// ConversationTurn is a single message in the conversation log.
type ConversationTurn struct {
	ID                 string     `json:"id"`
	Role               Role       `json:"role"`
	Fragments          []Fragment `json:"fragments"`
	Timestamp          time.Time  `json:"timestamp"`
	Feedback           Feedback   `json:"feedback,omitempty"`
	IsGeneratedContent bool       `json:"is_generated_content"`
}

// NewTurn creates a turn holding a single text fragment, with a fresh
// identifier and the current time.
func NewTurn(role Role, text string) ConversationTurn {
	return ConversationTurn{
		ID:        uuid.NewString(),
		Role:      role,
		Fragments: []Fragment{{Kind: FragmentKindText, Text: text}},
		Timestamp: time.Now(),
	}
}

// PlainText reduces the turn's content to a single string.
func (t ConversationTurn) PlainText() string {
	return ReduceFragments(t.Fragments)
}

// ReduceFragments flattens an ordered fragment sequence into one string.
// Text fragments contribute their text in order, separated by a single
// space; fragments of any other kind contribute the empty string and add
// no separator. This is the one reducer used everywhere a turn must become
// plain text (prompt assembly, clipboard copy, export).
func ReduceFragments(frags []Fragment) string {
	parts := make([]string, 0, len(frags))
	for _, f := range frags {
		part := ""
		if f.Kind == FragmentKindText {
			part = f.Text
		}
		if part == "" {
			continue
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " ")
}
