package llm

import "strings"

// Content types understood by the prompt table.
const (
	ContentYouTube = "youtube"
	ContentPDF     = "pdf"
	ContentAudio   = "audio"
	ContentGeneral = "general"
)

var promptTemplates = map[string]string{
	ContentYouTube: "Turn this YouTube transcript into structured lecture notes with clear sections: Overview, Key Concepts, Examples, and Summary. Use proper headings and bullet points.",
	ContentPDF:     "Turn this PDF content into organized study notes with main topics as headings, key points as bullets, and clear sections.",
	ContentAudio:   "Turn this audio transcript into well-formatted notes with speaker identification, main topics as headings, and key points organized.",
	ContentGeneral: "Turn the transcript into structured lecture notes with sections like Overview, Key Concepts, Examples, and Summary.",
}

// PromptFor returns the instruction template for contentType, falling back to
// the general template.
func PromptFor(contentType string) string {
	if tmpl, ok := promptTemplates[strings.ToLower(strings.TrimSpace(contentType))]; ok {
		return tmpl
	}
	return promptTemplates[ContentGeneral]
}

// BuildPrompt combines the template for contentType with text.
func BuildPrompt(contentType, text string) string {
	return PromptFor(contentType) + "\n\n" + text
}
