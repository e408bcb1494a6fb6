// Package openai implements the OpenAI chat-completion backend.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/writewise/content-engine/internal/ai"
	"github.com/writewise/content-engine/internal/types"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultTimeout = 60 * time.Second

	// DefaultModel is used when a request does not name a model.
	DefaultModel = "gpt-4o"
)

var models = []string{
	"gpt-4o",
	"gpt-4o-mini",
	"gpt-4.1-mini",
}

// Client is an OpenAI chat-completion API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing or proxies).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a new OpenAI client with the given default API key.
// The key may be empty; requests then require a per-request override.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() ai.ProviderName {
	return ai.ProviderOpenAI
}

func (c *Client) Models() []string {
	return models
}

type chatRequest struct {
	Model       string       `json:"model"`
	Messages    []ai.Message `json:"messages"`
	Temperature float64      `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string          `json:"role"`
			Content json.RawMessage `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate issues a chat completion and reduces the response to text.
func (c *Client) Generate(ctx context.Context, req ai.GenerationRequest) (ai.GenerationResult, error) {
	key := ai.ResolveKey(req, c.apiKey)
	if key == "" {
		return ai.GenerationResult{}, ai.ErrMissingCredential
	}

	model := req.Model
	if model == "" {
		model = DefaultModel
	}

	msgs := make([]ai.Message, 0, len(req.PriorTurns)+2)
	if req.SystemPreamble != "" {
		msgs = append(msgs, ai.Message{Role: string(types.RoleSystem), Content: req.SystemPreamble})
	}
	msgs = append(msgs, ai.BuildMessages(req)...)

	body, err := json.Marshal(chatRequest{Model: model, Messages: msgs})
	if err != nil {
		return ai.GenerationResult{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return ai.GenerationResult{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+key)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return ai.GenerationResult{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return ai.GenerationResult{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		if err := json.Unmarshal(respBody, &apiErr); err != nil || apiErr.Error.Message == "" {
			apiErr.Error.Message = string(respBody)
		}
		return ai.GenerationResult{}, &ai.APIError{Provider: ai.ProviderOpenAI, StatusCode: resp.StatusCode, Message: apiErr.Error.Message}
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return ai.GenerationResult{}, &ai.MalformedResponseError{Provider: ai.ProviderOpenAI, Reason: "unparseable body", Cause: err}
	}
	if len(result.Choices) == 0 {
		return ai.GenerationResult{}, &ai.MalformedResponseError{Provider: ai.ProviderOpenAI, Reason: "missing choices"}
	}

	text, err := ai.ReduceContent(result.Choices[0].Message.Content)
	if err != nil {
		return ai.GenerationResult{}, &ai.MalformedResponseError{Provider: ai.ProviderOpenAI, Reason: "unexpected content shape", Cause: err}
	}
	return ai.GenerationResult{Text: text}, nil
}
