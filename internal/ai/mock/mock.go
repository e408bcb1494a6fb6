// Package mock implements an offline backend that renders deterministic
// placeholder content. It lets the widget run without any API key and gives
// tests a stable provider.
package mock

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/writewise/content-engine/internal/ai"
)

// DefaultModel is the only model the mock backend advertises.
const DefaultModel = "mock-writer"

// Provider is the offline content backend.
type Provider struct{}

// New creates the mock provider.
func New() *Provider {
	return &Provider{}
}

func (p *Provider) Name() ai.ProviderName {
	return ai.ProviderMock
}

func (p *Provider) Models() []string {
	return []string{DefaultModel}
}

// Generate renders a fixed long-form template around the user text. The
// output depends only on the request, never on time or randomness.
func (p *Provider) Generate(_ context.Context, req ai.GenerationRequest) (ai.GenerationResult, error) {
	topic := strings.TrimSpace(req.NewUserText)
	if topic == "" {
		return ai.GenerationResult{}, &ai.MalformedResponseError{Provider: ai.ProviderMock, Reason: "empty prompt"}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", titleCase(topic))
	b.WriteString("## Introduction\n\n")
	fmt.Fprintf(&b, "Welcome to this exploration of %s. ", topic)
	b.WriteString("This piece provides valuable insights and information on the topic.\n\n")
	b.WriteString("## Main Points\n\n")
	fmt.Fprintf(&b, "1. The importance of understanding %s\n", topic)
	b.WriteString("2. Key strategies for implementing best practices\n")
	b.WriteString("3. Future trends and developments to watch\n\n")
	b.WriteString("## Conclusion\n\n")
	fmt.Fprintf(&b, "In summary, %s represents a significant area of interest with wide-ranging implications. ", topic)
	b.WriteString("Continue to stay informed on emerging developments to maintain a competitive edge.")

	return ai.GenerationResult{Text: b.String()}, nil
}

func titleCase(s string) string {
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
