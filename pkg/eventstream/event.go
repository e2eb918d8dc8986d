package eventstream

import (
	"time"

	"github.com/papercomputeco/chatproxy/pkg/llm"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeTurnCompleted is emitted after the proxy answers a chat request.
	EventTypeTurnCompleted = "chatproxy.turn.completed"
)

// TurnCompletedEvent is a transport-neutral event payload for a handled chat
// request, successful or not.
type TurnCompletedEvent struct {
	SchemaVersion int                  `json:"schema_version"`
	EventType     string               `json:"event_type"`
	EventID       string               `json:"event_id"`
	EmittedAt     time.Time            `json:"emitted_at"`
	Source        EventSource          `json:"source"`
	RequestMeta   TurnRequestMeta      `json:"request_meta"`
	Turn          llm.ConversationTurn `json:"turn"`
}

// EventSource identifies which upstream served the turn.
type EventSource struct {
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
}

// TurnRequestMeta captures request lifecycle metadata for the event.
type TurnRequestMeta struct {
	Path        string    `json:"path,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	DurationMs  int64     `json:"duration_ms"`
	HTTPStatus  int       `json:"http_status"`
}
