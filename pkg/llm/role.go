package llm

// Role is a conversation role tag understood by at least one provider.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleModel     Role = "model"
	RoleSystem    Role = "system"
)

// GeminiRole maps an inbound history role onto the two roles a Gemini chat
// session accepts. Only "user" stays a user turn. Every other value,
// including unknown roles, becomes a model turn.
func GeminiRole(raw string) Role {
	switch Role(raw) {
	case RoleUser:
		return RoleUser
	default:
		return RoleModel
	}
}

func (r Role) String() string {
	return string(r)
}
