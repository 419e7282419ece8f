package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"EDUQUEST_API_URL", "EDUQUEST_API_TIMEOUT", "EDUQUEST_USER_AGENT",
		"EDUQUEST_SESSION_BACKEND", "EDUQUEST_SESSION_FILE", "EDUQUEST_PROFILE",
		"EDUQUEST_REDIS_ADDR", "EDUQUEST_REDIS_PASSWORD", "EDUQUEST_REDIS_DB", "EDUQUEST_REDIS_PREFIX",
		"EDUQUEST_SERVER_PORT", "EDUQUEST_SERVER_MODE", "EDUQUEST_CACHE_TTL",
		"LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:8080/api" {
		t.Fatalf("expected default base url, got %q", cfg.API.BaseURL)
	}
	if cfg.APITimeout() != 15*time.Second {
		t.Fatalf("expected default timeout 15s, got %v", cfg.APITimeout())
	}
	if cfg.Session.Backend != BackendFile {
		t.Fatalf("expected default backend file, got %q", cfg.Session.Backend)
	}
	if !strings.HasSuffix(cfg.Session.FilePath, "session.json") {
		t.Fatalf("expected default session file, got %q", cfg.Session.FilePath)
	}
	if cfg.Session.Profile != "default" {
		t.Fatalf("expected default profile, got %q", cfg.Session.Profile)
	}
	if cfg.CacheTTL() != 30*time.Second {
		t.Fatalf("expected default cache ttl 30s, got %v", cfg.CacheTTL())
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("expected default log level info, got %q", cfg.Logging.Level)
	}
}

func TestLoadFileThenEnvOverrides(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlBody := `
api:
  base_url: https://api.eduquest.dev/api/
  timeout: 5s
session:
  backend: redis
  redis_addr: cache:6379
  redis_db: 2
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(yamlBody), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("EDUQUEST_API_TIMEOUT", "9s")
	t.Setenv("EDUQUEST_PROFILE", "work")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}

	if cfg.API.BaseURL != "https://api.eduquest.dev/api" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.API.BaseURL)
	}
	if cfg.APITimeout() != 9*time.Second {
		t.Fatalf("expected env timeout 9s to win, got %v", cfg.APITimeout())
	}
	if cfg.Session.Backend != BackendRedis || cfg.Session.RedisAddr != "cache:6379" || cfg.Session.RedisDB != 2 {
		t.Fatalf("unexpected session section: %+v", cfg.Session)
	}
	if cfg.Session.Profile != "work" {
		t.Fatalf("expected env profile work, got %q", cfg.Session.Profile)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected file log level debug, got %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"EDUQUEST_API_URL":         "not-a-url",
		"EDUQUEST_API_TIMEOUT":     "soon",
		"EDUQUEST_SESSION_BACKEND": "sqlite",
		"EDUQUEST_CACHE_TTL":       "forever",
		"EDUQUEST_REDIS_DB":        "two",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			if _, err := LoadConfig(""); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}
