package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SHARED_SECRET", "test-secret")
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("GITHUB_USERNAME", "acct")
	t.Setenv("GEMINI_API_KEY", "test-key")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, ProviderGemini, cfg.LLMProvider)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, 120, cfg.PagesMaxWaitSeconds)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")
	t.Setenv("PAGES_MAX_WAIT_SECONDS", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "gemini-2.5-pro", cfg.GeminiModel)
	assert.Equal(t, 30, cfg.PagesMaxWaitSeconds)
}

func TestLoad_CollectsAllMissingSettings(t *testing.T) {
	t.Setenv("SHARED_SECRET", "")
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GITHUB_USERNAME", "")
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)

	assert.Contains(t, err.Error(), "SHARED_SECRET not configured")
	assert.Contains(t, err.Error(), "GITHUB_TOKEN not configured")
	assert.Contains(t, err.Error(), "GITHUB_USERNAME not configured")
	assert.Contains(t, err.Error(), "GEMINI_API_KEY not configured")
}

func TestValidate_StaticProviderNeedsNoAPIKey(t *testing.T) {
	cfg := &Config{
		Port:           5000,
		SharedSecret:   "s",
		GitHubToken:    "t",
		GitHubUsername: "u",
		LLMProvider:    ProviderStatic,
	}

	assert.NoError(t, cfg.Validate())
}

func TestValidate_UnsupportedProvider(t *testing.T) {
	cfg := &Config{
		Port:           5000,
		SharedSecret:   "s",
		GitHubToken:    "t",
		GitHubUsername: "u",
		LLMProvider:    "openai",
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `LLM_PROVIDER "openai" not supported`)
}

func TestValidate_PortRange(t *testing.T) {
	cfg := &Config{
		Port:           70000,
		SharedSecret:   "s",
		GitHubToken:    "t",
		GitHubUsername: "u",
		LLMProvider:    ProviderStatic,
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT 70000 out of range")
}
