package voice

import (
	"encoding/json"

	"github.com/writewise/content-engine/internal/types"
)

// DecodeCommand parses a model's extraction output into a structured
// command. It never fails: malformed JSON falls back deterministically to
// the raw transcript as topic, and every missing or empty field falls back
// to its default. The boolean reports whether the payload parsed.
func DecodeCommand(raw, transcript string) (types.ExtractedVoiceCommand, bool) {
	cmd := types.ExtractedVoiceCommand{
		ContentType: types.DefaultContentType,
		Tone:        types.DefaultTone,
	}

	var parsed types.ExtractedVoiceCommand
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		cmd.Topic = transcript
		return cmd, false
	}

	cmd.Topic = parsed.Topic
	if parsed.ContentType != "" {
		cmd.ContentType = parsed.ContentType
	}
	if parsed.Tone != "" {
		cmd.Tone = parsed.Tone
	}
	cmd.Keywords = parsed.Keywords
	cmd.AdditionalInfo = parsed.AdditionalInfo
	return cmd, true
}
