package llm

import (
	"encoding/json"
	"errors"
)

// ErrEmptyResponse is returned by providers when the upstream call succeeded
// but produced no text.
var ErrEmptyResponse = errors.New("provider returned an empty response")

// ChatResponse is the success body returned from POST /chat.
type ChatResponse struct {
	Response string `json:"response"`
}

// ErrorResponse is the failure body returned from POST /chat.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ChatResult is what a provider hands back to the handler for one turn.
type ChatResult struct {
	// Text is the assistant reply.
	Text string

	// Model is the model identifier that served the request.
	Model string

	// Sent is the outbound message sequence exactly as sent upstream, in
	// the provider's own wire shape, ending with the current user message.
	Sent []json.RawMessage
}
