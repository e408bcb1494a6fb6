package types

// Defaults applied to an extracted voice command when the transcript does
// not specify a field.
const (
	DefaultContentType = "blog-post"
	DefaultTone        = "professional"
)

// ExtractedVoiceCommand holds the structured fields derived from a
// transcribed voice request. Every field is independently defaulted.
type ExtractedVoiceCommand struct {
	Topic          string `json:"topic"`
	ContentType    string `json:"contentType"`
	Tone           string `json:"tone"`
	Keywords       string `json:"keywords"`
	AdditionalInfo string `json:"additionalInfo"`
}
