package gemini

import (
	"encoding/json"

	"google.golang.org/genai"

	"github.com/papercomputeco/chatproxy/pkg/llm"
)

// BuildContents converts the inbound history plus the live user message into
// Gemini contents. Roles are mapped with llm.GeminiRole and the user message
// is always the last entry.
func BuildContents(history []llm.Message, userMessage string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, msg := range history {
		role := llm.GeminiRole(msg.Role)
		contents = append(contents, genai.NewContentFromText(msg.Content, genai.Role(role)))
	}
	contents = append(contents, genai.NewContentFromText(userMessage, genai.RoleUser))
	return contents
}

// SplitTurns separates the prior turns (every content but the last) from
// the final content sent as the live message. Returns a nil final
// content for an empty slice.
func SplitTurns(contents []*genai.Content) ([]*genai.Content, *genai.Content) {
	if len(contents) == 0 {
		return nil, nil
	}
	last := len(contents) - 1
	return contents[:last], contents[last]
}

// encodeContents renders contents in the wire shape sent upstream.
func encodeContents(contents []*genai.Content) []json.RawMessage {
	sent := make([]json.RawMessage, 0, len(contents))
	for _, c := range contents {
		b, err := json.Marshal(c)
		if err != nil {
			continue
		}
		sent = append(sent, b)
	}
	return sent
}
