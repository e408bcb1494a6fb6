package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduceFragments(t *testing.T) {
	tests := []struct {
		name  string
		frags []Fragment
		want  string
	}{
		{
			name:  "empty sequence",
			frags: nil,
			want:  "",
		},
		{
			name:  "single text fragment",
			frags: []Fragment{{Kind: FragmentKindText, Text: "hello"}},
			want:  "hello",
		},
		{
			name: "non-text fragment between text fragments adds no separator",
			frags: []Fragment{
				{Kind: FragmentKindText, Text: "a"},
				{Kind: "image"},
				{Kind: FragmentKindText, Text: "b"},
			},
			want: "a b",
		},
		{
			name: "only non-text fragments",
			frags: []Fragment{
				{Kind: "image"},
				{Kind: "tool_use"},
			},
			want: "",
		},
		{
			name: "empty text fragment contributes nothing",
			frags: []Fragment{
				{Kind: FragmentKindText, Text: "a"},
				{Kind: FragmentKindText, Text: ""},
				{Kind: FragmentKindText, Text: "b"},
			},
			want: "a b",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ReduceFragments(tc.frags))
		})
	}
}

func TestNewTurn(t *testing.T) {
	turn := NewTurn(RoleUser, "hello world")

	require.NotEmpty(t, turn.ID)
	assert.Equal(t, RoleUser, turn.Role)
	assert.False(t, turn.Timestamp.IsZero())
	assert.Equal(t, FeedbackNone, turn.Feedback)
	assert.False(t, turn.IsGeneratedContent)
	assert.Equal(t, "hello world", turn.PlainText())

	other := NewTurn(RoleUser, "hello world")
	assert.NotEqual(t, turn.ID, other.ID)
}

func TestPlainText(t *testing.T) {
	turn := ConversationTurn{
		Role: RoleAssistant,
		Fragments: []Fragment{
			{Kind: FragmentKindText, Text: "first"},
			{Kind: FragmentKindText, Text: "second"},
		},
	}
	assert.Equal(t, "first second", turn.PlainText())
}
