package ragchat

import "ragchat/pkg/config"

// DataSource is one entry of the Azure OpenAI "On Your Data" data_sources
// request extension.
type DataSource struct {
	Type       string           `json:"type"`
	Parameters SearchParameters `json:"parameters"`
}

// SearchParameters points a data source at one Azure AI Search index.
type SearchParameters struct {
	Endpoint       string         `json:"endpoint"`
	IndexName      string         `json:"index_name"`
	Authentication Authentication `json:"authentication"`
}

// Authentication selects how the chat service reaches the search index.
type Authentication struct {
	Type string `json:"type"`
	Key  string `json:"key,omitempty"`
}

// BuildDataSources derives the request data sources from the configuration.
// Returns nil when the search endpoint or index is missing; the request then
// degrades to a plain chat completion. An empty API key selects the
// service's system-assigned managed identity.
func BuildDataSources(cfg config.Config) []DataSource {
	if cfg.SearchEndpoint == "" || cfg.SearchIndex == "" {
		return nil
	}

	auth := Authentication{Type: "system_assigned_managed_identity"}
	if cfg.SearchAPIKey != "" {
		auth = Authentication{Type: "api_key", Key: cfg.SearchAPIKey}
	}

	return []DataSource{{
		Type: "azure_search",
		Parameters: SearchParameters{
			Endpoint:       cfg.SearchEndpoint,
			IndexName:      cfg.SearchIndex,
			Authentication: auth,
		},
	}}
}
