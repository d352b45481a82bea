// Package config provides environment-driven configuration loading and validation.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Providers accepted for LLM_PROVIDER.
const (
	ProviderGemini = "gemini"
	ProviderStatic = "static"
)

// Config holds all runtime settings. Values are loaded from environment
// variables; a .env file is applied by main before loading.
type Config struct {
	// Server
	Port int `env:"PORT" envDefault:"5000"`

	// Security. SharedSecret authenticates inbound submissions and signs
	// bearer tokens.
	SharedSecret string `env:"SHARED_SECRET"`

	// Hosting provider
	GitHubToken    string `env:"GITHUB_TOKEN"`
	GitHubUsername string `env:"GITHUB_USERNAME"`

	// Generation service
	LLMProvider  string `env:"LLM_PROVIDER" envDefault:"gemini"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`

	// Publication readiness
	PagesMaxWaitSeconds int `env:"PAGES_MAX_WAIT_SECONDS" envDefault:"120"`
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that all required settings are present, collecting every
// missing one into a single error so operators can fix them in one pass.
func (c *Config) Validate() error {
	var errors []string

	if c.SharedSecret == "" {
		errors = append(errors, "SHARED_SECRET not configured")
	}
	if c.GitHubToken == "" {
		errors = append(errors, "GITHUB_TOKEN not configured")
	}
	if c.GitHubUsername == "" {
		errors = append(errors, "GITHUB_USERNAME not configured")
	}

	switch c.LLMProvider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			errors = append(errors, "GEMINI_API_KEY not configured")
		}
	case ProviderStatic:
		// No credentials needed; generation is deterministic and local.
	default:
		errors = append(errors, fmt.Sprintf("LLM_PROVIDER %q not supported (gemini, static)", c.LLMProvider))
	}

	if c.Port <= 0 || c.Port > 65535 {
		errors = append(errors, fmt.Sprintf("PORT %d out of range", c.Port))
	}
	if c.PagesMaxWaitSeconds < 0 {
		errors = append(errors, "PAGES_MAX_WAIT_SECONDS must be non-negative")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errors, ", "))
	}

	return nil
}
