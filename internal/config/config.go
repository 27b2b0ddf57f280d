// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github-traffic-tracker/internal/registry"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel           string        `mapstructure:"LOG_LEVEL"`
	DBURL              string        `mapstructure:"DB_URL"`
	HTTPAddr           string        `mapstructure:"HTTP_ADDR"`
	CollectInterval    time.Duration `mapstructure:"COLLECT_INTERVAL"`
	CollectConcurrency int           `mapstructure:"COLLECT_CONCURRENCY"`
	GithubAPIURL       string        `mapstructure:"GITHUB_API_URL"`
	GithubToken        string        `mapstructure:"GITHUB_TOKEN"`
	TrackedRepos       []string      `mapstructure:"TRACKED_REPOS"`
	MigrationsPath     string        `mapstructure:"MIGRATIONS_PATH"`
}

var keys = []string{
	"LOG_LEVEL",
	"DB_URL",
	"HTTP_ADDR",
	"COLLECT_INTERVAL",
	"COLLECT_CONCURRENCY",
	"GITHUB_API_URL",
	"GITHUB_TOKEN",
	"TRACKED_REPOS",
	"MIGRATIONS_PATH",
}

// LoadConfig reads configuration from a .env file in dir (if present) and
// environment variables. Environment variables win.
func LoadConfig(dir string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_ADDR", "127.0.0.1:5001")
	v.SetDefault("COLLECT_INTERVAL", "24h")
	v.SetDefault("COLLECT_CONCURRENCY", 1)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")

	// Load from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading .env: %w", err)
		}
	}

	// Bind environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate required fields
	if cfg.DBURL == "" {
		return nil, errors.New("DB_URL is a required configuration field")
	}
	if cfg.CollectInterval < time.Second {
		return nil, errors.New("COLLECT_INTERVAL must be at least 1s")
	}
	if cfg.CollectConcurrency < 1 {
		return nil, errors.New("COLLECT_CONCURRENCY must be at least 1")
	}
	for _, r := range cfg.TrackedRepos {
		if _, _, err := registry.ParseFullName(strings.TrimSpace(r)); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}
