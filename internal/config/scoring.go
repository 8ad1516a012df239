package config

import (
	"fmt"

	"github.com/konkursant/portal/internal/review/model"
)

// ScoringConfig holds review scoring configuration.
type ScoringConfig struct {
	// SchemaVersion is the criterion set new reviews are scored against.
	SchemaVersion model.SchemaVersion
	// SchemaFile is an optional YAML file overriding or extending the built-in criterion sets.
	SchemaFile string
	// MaxReviewsPerProject caps how many reviewers may score one project.
	MaxReviewsPerProject int
}

// LoadScoringConfigFromEnv loads scoring configuration from environment variables.
func LoadScoringConfigFromEnv() ScoringConfig {
	return ScoringConfig{
		SchemaVersion:        model.SchemaVersion(GetEnv("SCORING_SCHEMA_VERSION", string(model.SchemaCurrent))),
		SchemaFile:           GetEnv("SCHEMA_FILE", ""),
		MaxReviewsPerProject: GetEnvInt("MAX_REVIEWS_PER_PROJECT", 3),
	}
}

// Registry loads the criterion schemas and checks that the active version is among them.
func (c ScoringConfig) Registry() (*model.Registry, error) {
	registry, err := model.LoadSchemas(c.SchemaFile)
	if err != nil {
		return nil, err
	}
	if _, err := registry.Schema(c.SchemaVersion); err != nil {
		return nil, err
	}
	return registry, nil
}

// Validate validates scoring configuration.
func (c ScoringConfig) Validate() error {
	if c.SchemaVersion == "" {
		return fmt.Errorf("SchemaVersion must not be empty")
	}
	if c.MaxReviewsPerProject <= 0 {
		return fmt.Errorf("MaxReviewsPerProject must be greater than 0")
	}
	return nil
}
