package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileSource serves settings from a YAML settings file with one mapping per
// section, e.g.
//
//	AzureOpenAI:
//	  Endpoint: https://example.openai.azure.com
//	  ChatDeployment: gpt-4o
//	AzureSearch:
//	  IndexName: documents
//
// Keys are flattened to Section:Key form for lookup.
type FileSource struct {
	values map[string]string
}

// LoadFile reads and parses a YAML settings file.
func LoadFile(path string) (*FileSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}
	source, err := ParseFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return source, nil
}

// ParseFile parses YAML settings content into a FileSource.
func ParseFile(data []byte) (*FileSource, error) {
	var sections map[string]map[string]string
	if err := yaml.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	values := make(map[string]string)
	for section, keys := range sections {
		for key, value := range keys {
			values[section+":"+key] = value
		}
	}
	return &FileSource{values: values}, nil
}

// Lookup implements Source.
func (f *FileSource) Lookup(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}
