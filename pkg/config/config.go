// Package config resolves and validates the connection settings for the RAG
// chat client. Each field is resolved independently through an ordered chain
// of candidates: an explicit structured settings source, then the process
// environment, then a hard-coded default.
package config

import "os"

// DefaultChatDeployment is used when no source names a chat deployment.
const DefaultChatDeployment = "gpt-4"

// Environment variable names, also used as labels for missing settings.
const (
	EnvChatEndpoint   = "AZURE_OPENAI_ENDPOINT"
	EnvSearchEndpoint = "AZURE_SEARCH_ENDPOINT"
	EnvSearchIndex    = "AZURE_SEARCH_INDEX_NAME"
	EnvSearchAPIKey   = "AZURE_SEARCH_API_KEY"
)

// Structured settings keys in Section:Key form. The chat deployment has no
// environment variable; it comes from a settings file or the default.
const (
	KeyChatEndpoint   = "AzureOpenAI:Endpoint"
	KeyChatDeployment = "AzureOpenAI:ChatDeployment"
	KeySearchEndpoint = "AzureSearch:Endpoint"
	KeySearchIndex    = "AzureSearch:IndexName"
	KeySearchAPIKey   = "AzureSearch:ApiKey"
)

// Config holds the resolved connection settings for one process run. Every
// field is a concrete string; a field absent from all sources resolves to
// the empty string, never to an unset state. An empty SearchAPIKey means the
// service side authenticates with its managed identity instead of a key.
type Config struct {
	ChatEndpoint   string
	ChatDeployment string
	SearchEndpoint string
	SearchIndex    string
	SearchAPIKey   string
}

// Source yields configuration values by structured settings key.
type Source interface {
	Lookup(key string) (string, bool)
}

// MapSource serves settings from an in-memory map.
type MapSource map[string]string

// Lookup implements Source.
func (m MapSource) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Load resolves a Config from the given structured settings source, the
// process environment, and defaults, in that order of precedence. settings
// may be nil. Empty values are treated as absent and fall through to the
// next candidate.
func Load(settings Source) Config {
	return Config{
		ChatEndpoint:   resolve(settings, KeyChatEndpoint, EnvChatEndpoint, ""),
		ChatDeployment: resolve(settings, KeyChatDeployment, "", DefaultChatDeployment),
		SearchEndpoint: resolve(settings, KeySearchEndpoint, EnvSearchEndpoint, ""),
		SearchIndex:    resolve(settings, KeySearchIndex, EnvSearchIndex, ""),
		SearchAPIKey:   resolve(settings, KeySearchAPIKey, EnvSearchAPIKey, ""),
	}
}

func resolve(settings Source, key, envName, fallback string) string {
	if settings != nil {
		if v, ok := settings.Lookup(key); ok && v != "" {
			return v
		}
	}
	if envName != "" {
		if v := os.Getenv(envName); v != "" {
			return v
		}
	}
	return fallback
}

// ValidationResult reports whether a Config carries every required setting
// and, in a fixed order, the names of the ones it lacks.
type ValidationResult struct {
	Valid   bool
	Missing []string
}

// Validate checks that the chat endpoint, search endpoint, and search index
// are present, in that order. The chat deployment always has a default and
// the search API key is optional, so neither is checked. Missing settings
// are reported under their environment variable names.
func Validate(cfg Config) ValidationResult {
	var missing []string
	if cfg.ChatEndpoint == "" {
		missing = append(missing, EnvChatEndpoint)
	}
	if cfg.SearchEndpoint == "" {
		missing = append(missing, EnvSearchEndpoint)
	}
	if cfg.SearchIndex == "" {
		missing = append(missing, EnvSearchIndex)
	}
	return ValidationResult{Valid: len(missing) == 0, Missing: missing}
}
