package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")

	cfg := Load()

	if cfg.Auth.Scope != "openai" {
		t.Errorf("Auth.Scope = %q, want openai", cfg.Auth.Scope)
	}
	if cfg.LLM.MaxTokens != 2000 {
		t.Errorf("LLM.MaxTokens = %d, want 2000", cfg.LLM.MaxTokens)
	}
	if cfg.Pipeline.RenderTimeout().Seconds() != 10 {
		t.Errorf("RenderTimeout = %v, want 10s", cfg.Pipeline.RenderTimeout())
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadMergesYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
news:
  baseUrl: https://news.internal
llm:
  endpoint: https://llm.internal/chat
  maxTokens: 1500
pipeline:
  renderTimeoutSeconds: 20
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	t.Setenv(configPathEnv, path)

	cfg := Load()
	if cfg.News.BaseURL != "https://news.internal" {
		t.Errorf("News.BaseURL = %q", cfg.News.BaseURL)
	}
	if cfg.LLM.Endpoint != "https://llm.internal/chat" {
		t.Errorf("LLM.Endpoint = %q", cfg.LLM.Endpoint)
	}
	if cfg.LLM.MaxTokens != 1500 {
		t.Errorf("LLM.MaxTokens = %d, want 1500", cfg.LLM.MaxTokens)
	}
	if cfg.Pipeline.RenderTimeoutSeconds != 20 {
		t.Errorf("RenderTimeoutSeconds = %d, want 20", cfg.Pipeline.RenderTimeoutSeconds)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	// Untouched sections keep their defaults.
	if cfg.Auth.Scope != "openai" {
		t.Errorf("Auth.Scope = %q, want default", cfg.Auth.Scope)
	}
}

func TestLoadEnvOverridesWinOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("database:\n  dsn: from-file\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	t.Setenv(configPathEnv, path)
	t.Setenv(databaseDSNEnv, "from-env")
	t.Setenv(authClientIDEnv, "env-client")

	cfg := Load()
	if cfg.Database.DSN != "from-env" {
		t.Errorf("Database.DSN = %q, want from-env", cfg.Database.DSN)
	}
	if cfg.Auth.ClientID != "env-client" {
		t.Errorf("Auth.ClientID = %q, want env-client", cfg.Auth.ClientID)
	}
}

func TestLoadIgnoresUnreadableFile(t *testing.T) {
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg := Load()
	if cfg.LLM.MaxTokens != 2000 {
		t.Errorf("LLM.MaxTokens = %d, want defaults to survive", cfg.LLM.MaxTokens)
	}
}
