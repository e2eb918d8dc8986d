// Package credentials stores the Gemini and Groq API keys in
// credentials.toml inside the .chatproxy/ directory. The provider's
// environment variable always wins over a stored key.
package credentials

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/chatproxy/pkg/dotdir"
	"github.com/papercomputeco/chatproxy/pkg/llm/provider"
)

const (
	credentialsFile = "credentials.toml"

	currentVersion = 1
)

// Store reads and writes credentials.toml.
type Store struct {
	path string
}

// Open resolves the .chatproxy/ directory (override first) and returns a
// store for its credentials.toml. The file is created on the first Set.
func Open(override string) (*Store, error) {
	dir, err := dotdir.NewManager().Target(override)
	if err != nil {
		return nil, err
	}
	return &Store{path: filepath.Join(dir, credentialsFile)}, nil
}

// Path returns the credentials file path.
func (s *Store) Path() string {
	return s.path
}

// Normalize lower-cases and trims a provider name and checks that it is one
// of provider.SupportedProviders.
func Normalize(providerName string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(providerName))
	if !slices.Contains(provider.SupportedProviders(), name) {
		return "", fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedProvider, providerName,
			strings.Join(provider.SupportedProviders(), ", "))
	}
	return name, nil
}

// EnvVar returns the API key environment variable for a provider.
func EnvVar(providerName string) string {
	return provider.APIKeyEnv(providerName)
}

// Set validates and stores the key for a provider, replacing any previous
// one. Surrounding whitespace is trimmed.
func (s *Store) Set(providerName, key string) error {
	name, err := Normalize(providerName)
	if err != nil {
		return err
	}

	key = strings.TrimSpace(key)
	switch {
	case key == "":
		return fmt.Errorf("%w: key is empty", ErrInvalidKey)
	case strings.ContainsAny(key, " \t\r\n"):
		return fmt.Errorf("%w: key contains whitespace", ErrInvalidKey)
	}

	f, err := s.load()
	if err != nil {
		return err
	}
	f.Keys[name] = key
	return s.save(f)
}

// Get returns the stored key for a provider, or "" when none is stored.
func (s *Store) Get(providerName string) (string, error) {
	name, err := Normalize(providerName)
	if err != nil {
		return "", err
	}

	f, err := s.load()
	if err != nil {
		return "", err
	}
	return f.Keys[name], nil
}

// Remove deletes the stored key for a provider and reports whether one was
// stored.
func (s *Store) Remove(providerName string) (bool, error) {
	name, err := Normalize(providerName)
	if err != nil {
		return false, err
	}

	f, err := s.load()
	if err != nil {
		return false, err
	}
	if _, ok := f.Keys[name]; !ok {
		return false, nil
	}
	delete(f.Keys, name)
	return true, s.save(f)
}

// Entries returns the stored keys in provider.SupportedProviders order.
// Entries for providers chatproxy does not serve are ignored.
func (s *Store) Entries() ([]Entry, error) {
	f, err := s.load()
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, name := range provider.SupportedProviders() {
		if key := f.Keys[name]; key != "" {
			entries = append(entries, Entry{Provider: name, EnvVar: EnvVar(name), Key: key})
		}
	}
	return entries, nil
}

// Resolve returns the API key serve should use for a provider and where it
// came from: the environment variable when set, otherwise the stored key.
// An empty key with a nil error means neither is set.
func (s *Store) Resolve(providerName string, getenv func(string) string) (string, Source, error) {
	name, err := Normalize(providerName)
	if err != nil {
		return "", "", err
	}

	if key := strings.TrimSpace(getenv(EnvVar(name))); key != "" {
		return key, SourceEnv, nil
	}

	key, err := s.Get(name)
	if err != nil || key == "" {
		return "", "", err
	}
	return key, SourceFile, nil
}

func (s *Store) load() (*File, error) {
	f := &File{Version: currentVersion}

	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading credentials: %w", err)
	default:
		if err := toml.Unmarshal(data, f); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", s.path, err)
		}
	}

	if f.Keys == nil {
		f.Keys = make(map[string]string)
	}
	return f, nil
}

func (s *Store) save(f *File) error {
	f.Version = currentVersion

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	if err := os.WriteFile(s.path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}
