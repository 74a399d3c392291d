package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileFormat is the on-disk layout of a catalog override.
type fileFormat struct {
	Tokens []Token `yaml:"tokens"`
}

// LoadFile reads a YAML catalog. An empty path yields the built-in catalog.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc fileFormat
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	c, err := New(doc.Tokens)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return c, nil
}

// Marshal renders tokens in the format accepted by Parse.
func Marshal(tokens []Token) ([]byte, error) {
	return yaml.Marshal(fileFormat{Tokens: tokens})
}
