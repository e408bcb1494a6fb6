// Package ai normalizes chat-completion requests and responses across the
// supported LLM backends. Each backend implements the Provider interface;
// the Registry is the closed lookup table built at startup that dispatches
// a uniform GenerationRequest to the named backend.
package ai

import (
	"context"
	"encoding/json"

	"github.com/writewise/content-engine/internal/types"
)

// ProviderName identifies a chat-completion backend.
type ProviderName string

const (
	ProviderMistral   ProviderName = "mistral"
	ProviderOpenAI    ProviderName = "openai"
	ProviderAnthropic ProviderName = "anthropic"
	ProviderMock      ProviderName = "mock"
)

// DefaultProvider is the backend that requires no caller-supplied API key;
// its key comes from the process environment at startup.
const DefaultProvider = ProviderMistral

// GenerationRequest is the uniform request shape handed to any provider.
type GenerationRequest struct {
	Provider       ProviderName
	Model          string
	PriorTurns     []types.ConversationTurn
	NewUserText    string
	SystemPreamble string
	APIKeyOverride string
}

// GenerationResult is the uniform success result: the reduced response text.
type GenerationResult struct {
	Text string
}

// Provider is one chat-completion backend.
type Provider interface {
	Name() ProviderName
	// Models returns the models this backend advertises.
	Models() []string
	Generate(ctx context.Context, req GenerationRequest) (GenerationResult, error)
}

// Message is the wire shape shared by the chat-completion APIs.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// BuildMessages flattens the prior turns plus the new user text into wire
// messages. System turns are skipped; the system preamble travels separately
// because backends disagree on where it goes.
func BuildMessages(req GenerationRequest) []Message {
	msgs := make([]Message, 0, len(req.PriorTurns)+1)
	for _, t := range req.PriorTurns {
		if t.Role == types.RoleSystem {
			continue
		}
		msgs = append(msgs, Message{Role: string(t.Role), Content: t.PlainText()})
	}
	msgs = append(msgs, Message{Role: string(types.RoleUser), Content: req.NewUserText})
	return msgs
}

// ReduceContent reduces a raw message-content payload to plain text. A JSON
// string is returned unchanged; an ordered fragment array is reduced with
// the same rule used for stored turns. Any other shape is an error.
func ReduceContent(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var chunks []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &chunks); err != nil {
		return "", err
	}
	frags := make([]types.Fragment, len(chunks))
	for i, c := range chunks {
		frags[i] = types.Fragment{Kind: c.Type, Text: c.Text}
	}
	return types.ReduceFragments(frags), nil
}

// ResolveKey picks the effective API key for a request: the per-request
// override when present, otherwise the key the provider was built with.
func ResolveKey(req GenerationRequest, configured string) string {
	if req.APIKeyOverride != "" {
		return req.APIKeyOverride
	}
	return configured
}
