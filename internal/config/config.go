// Package config loads the portal server's settings from the environment.
package config

import (
	"fmt"
	"slices"

	"github.com/gin-gonic/gin"
)

var ginModes = []string{gin.DebugMode, gin.ReleaseMode, gin.TestMode}

// Config is the complete server configuration.
type Config struct {
	Server  ServerConfig
	Logger  LoggerConfig
	Scoring ScoringConfig
	// GinMode is passed to gin.SetMode.
	GinMode string
}

// LoadFromEnv reads every section. Call Validate before use.
func LoadFromEnv() Config {
	return Config{
		Server:  LoadServerConfigFromEnv(),
		Logger:  LoadLoggerConfigFromEnv(),
		Scoring: LoadScoringConfigFromEnv(),
		GinMode: GetEnv("GIN_MODE", gin.ReleaseMode),
	}
}

// Validate reports the first invalid section.
func (c Config) Validate() error {
	sections := []struct {
		name     string
		validate func() error
	}{
		{"server", c.Server.Validate},
		{"logger", c.Logger.Validate},
		{"scoring", c.Scoring.Validate},
	}
	for _, s := range sections {
		if err := s.validate(); err != nil {
			return fmt.Errorf("%s config validation failed: %w", s.name, err)
		}
	}

	if !slices.Contains(ginModes, c.GinMode) {
		return fmt.Errorf("invalid GIN_MODE: %s (must be one of %v)", c.GinMode, ginModes)
	}
	return nil
}
