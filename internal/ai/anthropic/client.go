// Package anthropic implements the Anthropic chat-completion backend.
package anthropic

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
	defaultBaseURL   = "https://api.anthropic.com/v1"
	defaultMaxTokens = 4096
	apiVersion       = "2023-06-01"
	defaultTimeout   = 60 * time.Second

	// DefaultModel is used when a request does not name a model.
	DefaultModel = "claude-sonnet-4-20250514"
)

var models = []string{
	"claude-sonnet-4-20250514",
	"claude-3-5-haiku-20241022",
}

// Client is an Anthropic messages API client.
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

// NewClient creates a new Anthropic client with the given default API key.
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
	return ai.ProviderAnthropic
}

func (c *Client) Models() []string {
	return models
}

type messagesRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	System    string       `json:"system,omitempty"`
	Messages  []ai.Message `json:"messages"`
}

// messagesResponse carries the ordered content blocks; blocks whose type is
// not "text" contribute nothing to the reduced result.
type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text,omitempty"`
	} `json:"content"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate issues a messages call and reduces the content blocks to text.
func (c *Client) Generate(ctx context.Context, req ai.GenerationRequest) (ai.GenerationResult, error) {
	key := ai.ResolveKey(req, c.apiKey)
	if key == "" {
		return ai.GenerationResult{}, ai.ErrMissingCredential
	}

	model := req.Model
	if model == "" {
		model = DefaultModel
	}

	body, err := json.Marshal(messagesRequest{
		Model:     model,
		MaxTokens: defaultMaxTokens,
		System:    req.SystemPreamble,
		Messages:  ai.BuildMessages(req),
	})
	if err != nil {
		return ai.GenerationResult{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return ai.GenerationResult{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", key)
	httpReq.Header.Set("anthropic-version", apiVersion)

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
		return ai.GenerationResult{}, &ai.APIError{Provider: ai.ProviderAnthropic, StatusCode: resp.StatusCode, Message: apiErr.Error.Message}
	}

	var result messagesResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return ai.GenerationResult{}, &ai.MalformedResponseError{Provider: ai.ProviderAnthropic, Reason: "unparseable body", Cause: err}
	}
	if len(result.Content) == 0 {
		return ai.GenerationResult{}, &ai.MalformedResponseError{Provider: ai.ProviderAnthropic, Reason: "empty content"}
	}

	frags := make([]types.Fragment, len(result.Content))
	for i, block := range result.Content {
		frags[i] = types.Fragment{Kind: block.Type, Text: block.Text}
	}
	return ai.GenerationResult{Text: types.ReduceFragments(frags)}, nil
}
