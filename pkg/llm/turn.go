package llm

import "encoding/json"

// ConversationTurn is a completed request/response pair as seen by the proxy.
type ConversationTurn struct {
	Provider string       `json:"provider"`
	Model    string       `json:"model,omitempty"`
	Request  *ChatRequest `json:"request"`

	// Sent is the message sequence the provider sent upstream. Empty when
	// the request failed before or during the upstream call.
	Sent     []json.RawMessage `json:"sent,omitempty"`
	Response string            `json:"response,omitempty"`
	Error    string            `json:"error,omitempty"`
}
