package llm

import "encoding/json"

// Message represents a single conversation turn in the provider neutral
// {role, content} shape.
type Message struct {
	Role    string `json:"role"`    // "user", "assistant", "model", "system"
	Content string `json:"content"` // Plain text content of the turn
}

// NewTextMessage creates a message with the given role and text content.
func NewTextMessage(role, text string) Message {
	return Message{
		Role:    role,
		Content: text,
	}
}

// Raw returns the message encoded as a JSON object.
func (m Message) Raw() json.RawMessage {
	// Two string fields always encode.
	b, _ := json.Marshal(m)
	return b
}

// Roles returns the role of each message, in order.
func Roles(messages []Message) []string {
	roles := make([]string, 0, len(messages))
	for _, msg := range messages {
		roles = append(roles, msg.Role)
	}
	return roles
}
