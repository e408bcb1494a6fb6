package ai

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/writewise/content-engine/internal/types"
)

type stubProvider struct {
	name   ProviderName
	models []string
	calls  int
	result GenerationResult
	err    error
}

func (p *stubProvider) Name() ProviderName { return p.name }
func (p *stubProvider) Models() []string   { return p.models }

func (p *stubProvider) Generate(_ context.Context, _ GenerationRequest) (GenerationResult, error) {
	p.calls++
	return p.result, p.err
}

func TestReduceContent(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "plain json string",
			raw:  `"hello world"`,
			want: "hello world",
		},
		{
			name: "chunk array",
			raw:  `[{"type":"text","text":"a"},{"type":"image_url"},{"type":"text","text":"b"}]`,
			want: "a b",
		},
		{
			name: "empty chunk array",
			raw:  `[]`,
			want: "",
		},
		{
			name:    "object is neither string nor array",
			raw:     `{"text":"a"}`,
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ReduceContent(json.RawMessage(tc.raw))
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBuildMessages(t *testing.T) {
	req := GenerationRequest{
		PriorTurns: []types.ConversationTurn{
			types.NewTurn(types.RoleSystem, "ignored"),
			types.NewTurn(types.RoleUser, "question"),
			types.NewTurn(types.RoleAssistant, "answer"),
		},
		NewUserText: "follow-up",
	}

	msgs := BuildMessages(req)
	require.Len(t, msgs, 3)
	assert.Equal(t, Message{Role: "user", Content: "question"}, msgs[0])
	assert.Equal(t, Message{Role: "assistant", Content: "answer"}, msgs[1])
	assert.Equal(t, Message{Role: "user", Content: "follow-up"}, msgs[2])
}

func TestResolveKey(t *testing.T) {
	assert.Equal(t, "override", ResolveKey(GenerationRequest{APIKeyOverride: "override"}, "configured"))
	assert.Equal(t, "configured", ResolveKey(GenerationRequest{}, "configured"))
	assert.Equal(t, "", ResolveKey(GenerationRequest{}, ""))
}

func TestRegistry_Generate(t *testing.T) {
	stub := &stubProvider{
		name:   ProviderMock,
		models: []string{"mock-writer"},
		result: GenerationResult{Text: "generated"},
	}
	reg := NewRegistry(stub)

	t.Run("unknown provider", func(t *testing.T) {
		_, err := reg.Generate(context.Background(), GenerationRequest{Provider: "nope"})
		require.ErrorIs(t, err, ErrUnknownProvider)
		assert.Zero(t, stub.calls)
	})

	t.Run("unknown model", func(t *testing.T) {
		_, err := reg.Generate(context.Background(), GenerationRequest{Provider: ProviderMock, Model: "gpt-4o"})
		require.ErrorIs(t, err, ErrUnknownModel)
		assert.Zero(t, stub.calls)
	})

	t.Run("empty model means provider default", func(t *testing.T) {
		res, err := reg.Generate(context.Background(), GenerationRequest{Provider: ProviderMock})
		require.NoError(t, err)
		assert.Equal(t, "generated", res.Text)
		assert.Equal(t, 1, stub.calls)
	})

	t.Run("named model in catalog", func(t *testing.T) {
		_, err := reg.Generate(context.Background(), GenerationRequest{Provider: ProviderMock, Model: "mock-writer"})
		require.NoError(t, err)
	})
}

func TestRegistry_Names(t *testing.T) {
	reg := NewRegistry(
		&stubProvider{name: ProviderOpenAI},
		&stubProvider{name: ProviderAnthropic},
		&stubProvider{name: ProviderMistral},
	)
	assert.Equal(t, []ProviderName{ProviderAnthropic, ProviderMistral, ProviderOpenAI}, reg.Names())
}
