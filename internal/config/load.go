package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a configuration document verbatim from a YAML file.
// The returned error always names the offending path.
func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration %s: %w", path, err)
	}

	// Unmarshal into the underlying map type: yaml.v3 propagates a named
	// map type to nested mappings, and consumers expect map[string]any.
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing configuration %s: %w", path, err)
	}
	return Document(doc), nil
}

// WriteFile persists the document to path, overwriting prior content.
func (d Document) WriteFile(path string) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing configuration %s: %w", path, err)
	}
	return nil
}
