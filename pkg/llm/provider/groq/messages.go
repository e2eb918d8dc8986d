package groq

import (
	"encoding/json"

	"github.com/openai/openai-go/v3"

	"github.com/papercomputeco/chatproxy/pkg/llm"
)

// BuildMessages assembles the outbound message list: the system prompt
// first, then the history entries byte for byte and in order, then the user
// message last. History entries are not validated; a malformed entry is
// left for the upstream API to reject.
func BuildMessages(systemPrompt string, history llm.History, userMessage string) llm.History {
	msgs := make(llm.History, 0, len(history)+2)
	msgs = append(msgs, llm.NewTextMessage(llm.RoleSystem.String(), systemPrompt).Raw())
	msgs = append(msgs, history...)
	msgs = append(msgs, llm.NewTextMessage(llm.RoleUser.String(), userMessage).Raw())
	return msgs
}

// toParams converts messages into typed SDK params. The boolean result is
// false when an entry is not a plain text message with a role the SDK
// types, and the list must be sent raw.
func toParams(msgs llm.History) ([]openai.ChatCompletionMessageParamUnion, bool) {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, raw := range msgs {
		msg, ok := plainMessage(raw)
		if !ok {
			return nil, false
		}
		switch llm.Role(msg.Role) {
		case llm.RoleSystem:
			params = append(params, openai.SystemMessage(msg.Content))
		case llm.RoleUser:
			params = append(params, openai.UserMessage(msg.Content))
		case llm.RoleAssistant:
			params = append(params, openai.AssistantMessage(msg.Content))
		default:
			return nil, false
		}
	}
	return params, true
}

// plainMessage decodes an entry holding exactly a string role and a string
// content. Any other key or type reports false.
func plainMessage(raw json.RawMessage) (llm.Message, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || len(fields) != 2 {
		return llm.Message{}, false
	}

	var msg llm.Message
	if json.Unmarshal(fields["role"], &msg.Role) != nil || json.Unmarshal(fields["content"], &msg.Content) != nil {
		return llm.Message{}, false
	}
	return msg, true
}
