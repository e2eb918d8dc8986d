package config

const (
	defaultListen  = ":8080"
	defaultTimeout = "60s"

	defaultGeminiModel      = "gemini-1.5-pro-latest"
	defaultGeminiSearchTool = true

	defaultGroqModel        = "llama3-8b-8192"
	defaultGroqSystemPrompt = "Você é um assistente prestativo."
	defaultGroqBaseURL      = "https://api.groq.com/openai/v1/"

	// EventsProviderNone disables turn events.
	EventsProviderNone = "none"

	// EventsProviderKafka publishes turn events to Kafka.
	EventsProviderKafka = "kafka"

	defaultEventsTopic     = "chatproxy.turns"
	defaultEventsQueueSize = 256

	defaultClientProxyTarget = "http://localhost:8080"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	searchTool := defaultGeminiSearchTool
	return &Config{
		Version: CurrentV,
		Server: ServerConfig{
			Listen:  defaultListen,
			Timeout: defaultTimeout,
		},
		Gemini: GeminiConfig{
			Model:      defaultGeminiModel,
			SearchTool: &searchTool,
		},
		Groq: GroqConfig{
			DefaultModel:        defaultGroqModel,
			DefaultSystemPrompt: defaultGroqSystemPrompt,
			BaseURL:             defaultGroqBaseURL,
		},
		Events: EventsConfig{
			Provider:  EventsProviderNone,
			Topic:     defaultEventsTopic,
			QueueSize: defaultEventsQueueSize,
		},
		Client: ClientConfig{
			ProxyTarget: defaultClientProxyTarget,
		},
	}
}
