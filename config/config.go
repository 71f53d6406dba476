// Package config loads worker configuration from an optional YAML file with
// environment variable overlays. Environment always wins, so deployments can
// keep a checked-in YAML baseline and inject credentials at runtime.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PlatformConfig holds realtime platform connection settings.
type PlatformConfig struct {
	URL       string `yaml:"url"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
}

// ProviderConfig holds model and speech provider credentials.
type ProviderConfig struct {
	OpenAIAPIKey    string `yaml:"openai_api_key"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
}

// RedisConfig holds the optional Redis session backend settings. An empty
// Addr keeps sessions in memory.
type RedisConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

// Config is the full worker configuration.
type Config struct {
	Platform PlatformConfig `yaml:"platform"`
	Provider ProviderConfig `yaml:"provider"`
	Redis    RedisConfig    `yaml:"redis"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// Default returns the baseline configuration before file and env overlays.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}

// Load builds the configuration: defaults, then the YAML file (if path is
// non-empty), then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	return cfg, nil
}

// FromEnv builds the configuration from defaults plus environment only.
func FromEnv() *Config {
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyEnv() {
	overlay(&c.Platform.URL, "VOXMESH_URL")
	overlay(&c.Platform.APIKey, "VOXMESH_API_KEY")
	overlay(&c.Platform.APISecret, "VOXMESH_API_SECRET")
	overlay(&c.Provider.OpenAIAPIKey, "OPENAI_API_KEY")
	overlay(&c.Provider.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	overlay(&c.Redis.Addr, "VOXMESH_REDIS_ADDR")
	overlay(&c.Logging.Level, "VOXMESH_LOG_LEVEL")
	overlay(&c.Logging.Format, "VOXMESH_LOG_FORMAT")
}

func overlay(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

// Validate checks that the settings required to join the platform are present.
func (c *Config) Validate() error {
	if c.Platform.URL == "" {
		return fmt.Errorf("platform url is required (set VOXMESH_URL)")
	}
	if c.Platform.APIKey == "" || c.Platform.APISecret == "" {
		return fmt.Errorf("platform credentials are required (set VOXMESH_API_KEY and VOXMESH_API_SECRET)")
	}
	return nil
}
