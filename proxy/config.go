package proxy

import (
	"time"

	"github.com/papercomputeco/chatproxy/pkg/eventstream"
)

// DefaultTimeout bounds each upstream call when Config.Timeout is zero.
const DefaultTimeout = 60 * time.Second

// Config is the proxy server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string

	// ProviderType names the upstream ("gemini" or "groq"). It labels
	// responses and logs even when no provider could be configured.
	ProviderType string

	// Timeout bounds each upstream chat call. Expiry is reported as 504.
	Timeout time.Duration

	// Publisher receives one turn event per chat request.
	// If nil, events are discarded.
	Publisher eventstream.Publisher

	// WorkerQueueSize is the capacity of the turn event queue.
	WorkerQueueSize uint
}
