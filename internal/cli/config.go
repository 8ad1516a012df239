package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/konkursant/portal/internal/review/gateway"
	"github.com/konkursant/portal/internal/review/model"
	"github.com/konkursant/portal/pkg/retry"
)

// envPrefix namespaces environment overrides, e.g. KONKURSANT_USER_ID.
const envPrefix = "KONKURSANT"

// Config holds the report tool settings merged from flags, environment and config file.
type Config struct {
	Portal        gateway.Config
	SchemaFile    string
	SchemaVersion model.SchemaVersion
	Concurrency   int
	LogLevel      string
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("url", "http://localhost:8080")
	v.SetDefault("timeout", 10*time.Second)
	v.SetDefault("schema_version", string(model.SchemaCurrent))
	v.SetDefault("schema_file", "")
	v.SetDefault("concurrency", 4)
	v.SetDefault("log_level", "warn")
	v.SetDefault("retry.max_attempts", retry.HTTPConfig().MaxAttempts)
	return v
}

// readConfigFile loads path, or konkursant.yaml from the working directory or
// ~/.config/konkursant when path is empty. A missing default file is not an error.
func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("konkursant")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "konkursant"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func loadConfig(v *viper.Viper) (Config, error) {
	retryCfg := retry.HTTPConfig()
	retryCfg.MaxAttempts = v.GetInt("retry.max_attempts")

	cfg := Config{
		Portal: gateway.Config{
			BaseURL: v.GetString("url"),
			UserID:  v.GetInt64("user_id"),
			Timeout: v.GetDuration("timeout"),
			Retry:   retryCfg,
		},
		SchemaFile:    v.GetString("schema_file"),
		SchemaVersion: model.SchemaVersion(v.GetString("schema_version")),
		Concurrency:   v.GetInt("concurrency"),
		LogLevel:      v.GetString("log_level"),
	}

	if err := cfg.Portal.Validate(); err != nil {
		return Config{}, err
	}
	if cfg.Concurrency <= 0 {
		return Config{}, errors.New("concurrency must be positive")
	}
	return cfg, nil
}
