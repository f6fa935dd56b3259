package cfg

import (
	"os"
	"testing"
	"time"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}

	version := GetVersion()
	if version != "dev" && version != "unknown" {
		t.Logf("Version: %s", version)
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "BASE_URL", "PROXY_URL", "POLL_INTERVAL", "FETCH_TIMEOUT", "RATE_LIMIT", "USER_AGENT", "FEEDS_FILE", "LOCALE", "DEBUG"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadArgs([]string{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.ProxyURL != "https://allorigins.hexlet.app/get" {
		t.Errorf("Expected default proxy URL, got '%s'", cfg.ProxyURL)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Errorf("Expected poll interval 5s, got %s", cfg.PollInterval)
	}
	if cfg.FetchTimeout != 10*time.Second {
		t.Errorf("Expected fetch timeout 10s, got %s", cfg.FetchTimeout)
	}
	if cfg.RateLimit != 5 {
		t.Errorf("Expected rate limit 5, got %g", cfg.RateLimit)
	}
	if cfg.Locale != "en" {
		t.Errorf("Expected locale 'en', got '%s'", cfg.Locale)
	}
	if cfg.Debug {
		t.Error("Expected debug to be disabled")
	}
	if cfg.Version == "" {
		t.Error("Expected version to be set")
	}
}

func TestLoadFlags(t *testing.T) {
	cfg, err := LoadArgs([]string{
		"--port", "9090",
		"--proxy-url", "http://localhost:3000/get",
		"--poll-interval", "250",
		"--timeout", "3",
		"--rate-limit", "0",
		"--locale", "ru",
		"--feeds-file", "./feeds.yml",
		"--debug",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Expected port '9090', got '%s'", cfg.Port)
	}
	if cfg.ProxyURL != "http://localhost:3000/get" {
		t.Errorf("Expected proxy URL 'http://localhost:3000/get', got '%s'", cfg.ProxyURL)
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Errorf("Expected poll interval 250ms, got %s", cfg.PollInterval)
	}
	if cfg.FetchTimeout != 3*time.Second {
		t.Errorf("Expected fetch timeout 3s, got %s", cfg.FetchTimeout)
	}
	if cfg.RateLimit != 0 {
		t.Errorf("Expected rate limit 0, got %g", cfg.RateLimit)
	}
	if cfg.Locale != "ru" {
		t.Errorf("Expected locale 'ru', got '%s'", cfg.Locale)
	}
	if cfg.FeedsFile != "./feeds.yml" {
		t.Errorf("Expected feeds file './feeds.yml', got '%s'", cfg.FeedsFile)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "1000")
	t.Setenv("LOCALE", "ru")

	cfg, err := LoadArgs([]string{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.PollInterval != time.Second {
		t.Errorf("Expected poll interval 1s, got %s", cfg.PollInterval)
	}
	if cfg.Locale != "ru" {
		t.Errorf("Expected locale 'ru', got '%s'", cfg.Locale)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := [][]string{
		{"--poll-interval", "0"},
		{"--timeout", "-1"},
		{"--rate-limit", "-2"},
		{"--locale", "de"},
		{"--poll-interval", "soon"},
	}

	for _, args := range tests {
		if _, err := LoadArgs(args); err == nil {
			t.Errorf("Expected error for args %v", args)
		}
	}
}
