package chat

import (
	"fmt"
	"strings"

	"github.com/writewise/content-engine/internal/types"
)

// ContentTypes lists the kinds of content the assistant advertises.
var ContentTypes = []string{
	"blog post", "article", "social media post", "email",
	"product description", "ad copy", "press release",
	"newsletter", "website copy",
}

// Tones lists the writing tones the assistant advertises.
var Tones = []string{
	"professional", "conversational", "enthusiastic",
	"informative", "persuasive", "humorous",
	"formal", "friendly",
}

// WelcomeMessage seeds an empty transcript.
const WelcomeMessage = "Hello! I'm Althor AI, your advanced content writing assistant. I can help you create engaging blog posts, articles, social media content, emails, and more. Just describe what you need or use the voice command button to speak your request."

const systemPreambleTemplate = `You are Althor AI, an advanced content writing assistant. Your goal is to create high-quality, engaging content based on the user's requirements.
Focus on being creative, clear, and tailored to the specified audience and purpose.
You can create various types of content including: %s.
You can write in different tones such as: %s.
When the user asks for content, provide complete, ready-to-use content that requires minimal editing.
Always maintain a helpful, professional tone and provide thoughtful responses.`

// contentStructureHint is appended to the preamble for content requests.
const contentStructureHint = " Structure it appropriately for the content type requested."

// regenerateContentPreamble replaces the preamble entirely when a
// long-form content turn is regenerated.
const regenerateContentPreamble = `You are Althor AI, an advanced content writing assistant. The previous content was not satisfactory. Please create a completely new version that is more engaging, well-structured, and better addresses the user's requirements. Focus on quality, creativity, and relevance.`

// regenerateAnswerNote is added to the preamble when a conversational
// reply is regenerated.
const regenerateAnswerNote = `The previous response was not satisfactory. Please provide a more helpful, accurate, and comprehensive answer.`

// SystemPreamble is the persona preamble threaded through every
// conversational generation call.
func SystemPreamble() string {
	return fmt.Sprintf(systemPreambleTemplate, strings.Join(ContentTypes, ", "), strings.Join(Tones, ", "))
}

// contentRequestKeywords flag a user message as a content generation
// request rather than a conversational question.
var contentRequestKeywords = []string{
	"write", "create", "generate", "draft", "compose", "blog post", "article",
	"social media", "content", "copy", "text", "email", "newsletter", "post",
}

// IsContentRequest reports whether the user text reads like a request to
// generate long-form content.
func IsContentRequest(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range contentRequestKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// BuildContentPrompt assembles the single-shot instruction used by the
// form-based generator and the structured voice command flow.
func BuildContentPrompt(cmd types.ExtractedVoiceCommand) string {
	contentType := cmd.ContentType
	if contentType == "" {
		contentType = types.DefaultContentType
	}
	tone := cmd.Tone
	if tone == "" {
		tone = types.DefaultTone
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write a %s %s about %q.", tone, strings.ReplaceAll(contentType, "-", " "), cmd.Topic)
	if cmd.Keywords != "" {
		fmt.Fprintf(&b, " Incorporate the following keywords: %s.", cmd.Keywords)
	}
	if cmd.AdditionalInfo != "" {
		fmt.Fprintf(&b, " Additional context: %s", cmd.AdditionalInfo)
	}
	b.WriteString(" Provide complete, ready-to-use content that requires minimal editing.")
	return b.String()
}
