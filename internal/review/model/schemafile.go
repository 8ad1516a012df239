package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// schemaFile is the on-disk layout of a criterion schema file.
type schemaFile struct {
	Schemas []Schema `yaml:"schemas"`
}

// ParseSchemas builds a registry from YAML. Schemas in data override the built-in ones of the same version.
func ParseSchemas(data []byte) (*Registry, error) {
	var f schemaFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	base := DefaultRegistry()
	all := make([]Schema, 0, len(base.schemas)+len(f.Schemas))
	for _, v := range base.Versions() {
		all = append(all, base.schemas[v])
	}
	all = append(all, f.Schemas...)
	return NewRegistry(all...)
}

// LoadSchemas reads a YAML schema file. An empty path yields the built-in registry.
func LoadSchemas(path string) (*Registry, error) {
	if path == "" {
		return DefaultRegistry(), nil
	}
	//nolint:gosec // G304: path comes from operator configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return ParseSchemas(data)
}
