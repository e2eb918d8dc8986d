package llm

// ChatRequest is the inbound chat payload posted by the bot platform to
// POST /chat.
type ChatRequest struct {
	// UserMessage is the live turn. Required and non-empty.
	UserMessage string `json:"user_message"`

	// History holds the prior conversation turns, oldest first, as
	// received. It must be a JSON array when present.
	History History `json:"history,omitempty"`

	// SystemPrompt overrides the provider's default system prompt.
	// Only honored by providers that accept a caller-supplied prompt.
	SystemPrompt string `json:"system_prompt,omitempty"`

	// Model overrides the provider's default model.
	// Only honored by providers that accept a caller-supplied model.
	Model string `json:"model,omitempty"`
}
