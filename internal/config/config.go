// Package config loads tool configuration from ~/.aicmd/config.yaml with
// sensible defaults. Environment variables take precedence over the file so
// API keys never need to be written to disk.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all tool settings.
type Config struct {
	// Model is the chat model requested from the provider.
	Model string `yaml:"model"`

	// BaseURL overrides the provider endpoint, for OpenAI-compatible
	// local or proxy deployments.
	BaseURL string `yaml:"base_url"`

	// APIKey authenticates against the provider. Prefer the environment
	// variable over this field.
	APIKey string `yaml:"api_key"`

	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`

	// AutoExecute runs suggested commands without confirmation. The
	// advisory safety check still gates it.
	AutoExecute bool `yaml:"auto_execute"`

	// SafetyChecks enables the deny-list check before any execution.
	SafetyChecks bool `yaml:"safety_checks"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Model:        "gpt-4o-mini",
		MaxTokens:    1000,
		Temperature:  0.1,
		AutoExecute:  false,
		SafetyChecks: true,
		LogLevel:     "info",
	}
}

// Load reads configuration from path, layering file values over defaults and
// environment variables over both. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvironment(cfg)
	return cfg, nil
}

func applyEnvironment(cfg *Config) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	if key := os.Getenv("AICMD_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	if model := os.Getenv("AICMD_MODEL"); model != "" {
		cfg.Model = model
	}
	if baseURL := os.Getenv("AICMD_BASE_URL"); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if level := os.Getenv("AICMD_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
