package credentials

import "errors"

// File is the on-disk layout of credentials.toml:
//
//	version = 1
//
//	[keys]
//	gemini = "AIza..."
//	groq = "gsk_..."
type File struct {
	Version int               `toml:"version"`
	Keys    map[string]string `toml:"keys"`
}

// Source says where a resolved API key came from.
type Source string

const (
	// SourceEnv is the provider's API key environment variable.
	SourceEnv Source = "env"

	// SourceFile is credentials.toml.
	SourceFile Source = "credentials.toml"
)

// Entry is one stored key.
type Entry struct {
	Provider string
	EnvVar   string
	Key      string
}

// Masked returns the key with all but its last four characters hidden.
func (e Entry) Masked() string {
	if len(e.Key) <= 4 {
		return "****"
	}
	return "****" + e.Key[len(e.Key)-4:]
}

var (
	// ErrUnsupportedProvider is returned for names outside
	// provider.SupportedProviders.
	ErrUnsupportedProvider = errors.New("unsupported provider")

	// ErrInvalidKey is returned by Set for empty keys or keys containing
	// whitespace.
	ErrInvalidKey = errors.New("invalid API key")
)
