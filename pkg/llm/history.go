package llm

import "encoding/json"

// History is the prior conversation as posted by the bot platform, oldest
// first. Entries are kept as the raw JSON received so providers that splice
// history verbatim forward every key unchanged.
type History []json.RawMessage

// NewHistory encodes messages as history entries.
func NewHistory(msgs ...Message) History {
	h := make(History, 0, len(msgs))
	for _, msg := range msgs {
		h = append(h, msg.Raw())
	}
	return h
}

// Messages decodes every entry leniently. A missing or non-string role or
// content decodes to the empty string, and an entry that is not an object
// decodes to an empty message. The result has one message per entry.
func (h History) Messages() []Message {
	msgs := make([]Message, 0, len(h))
	for _, entry := range h {
		var fields map[string]json.RawMessage
		_ = json.Unmarshal(entry, &fields)

		var msg Message
		_ = json.Unmarshal(fields["role"], &msg.Role)
		_ = json.Unmarshal(fields["content"], &msg.Content)
		msgs = append(msgs, msg)
	}
	return msgs
}
