package cfg

import (
	"strings"
	"testing"
	"time"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.UserAgent != "mf-obj" {
		t.Errorf("Expected user agent 'mf-obj', got '%s'", cfg.UserAgent)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Expected timeout 30s, got %v", cfg.Timeout)
	}
	if cfg.CacheTTL != 300*time.Second {
		t.Errorf("Expected cache TTL 300s, got %v", cfg.CacheTTL)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("Expected no redis address, got '%s'", cfg.RedisAddr)
	}
	if cfg.SitesDir != "./sites" {
		t.Errorf("Expected sites dir './sites', got '%s'", cfg.SitesDir)
	}
	if cfg.ThreadLimit != 100 {
		t.Errorf("Expected thread limit 100, got %d", cfg.ThreadLimit)
	}
	if cfg.Debug {
		t.Error("Expected debug to be disabled")
	}
	if Get() != cfg {
		t.Error("Expected Get to return the loaded configuration")
	}
}

func TestLoadFlags(t *testing.T) {
	cfg, err := load([]string{
		"--port", "9090",
		"--user-agent", "Test Agent",
		"--timeout", "5",
		"--redis-addr", "localhost:6379",
		"--thread-limit", "0",
		"--api-key", "test-key",
		"--debug",
	})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Expected port '9090', got '%s'", cfg.Port)
	}
	if cfg.UserAgent != "Test Agent" {
		t.Errorf("Expected user agent 'Test Agent', got '%s'", cfg.UserAgent)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Expected timeout 5s, got %v", cfg.Timeout)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("Expected redis address 'localhost:6379', got '%s'", cfg.RedisAddr)
	}
	if cfg.ThreadLimit != 0 {
		t.Errorf("Expected thread limit 0, got %d", cfg.ThreadLimit)
	}
	if cfg.APIAccessKey != "test-key" {
		t.Errorf("Expected API key 'test-key', got '%s'", cfg.APIAccessKey)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("FETCH_TIMEOUT", "12")
	t.Setenv("SITES_DIR", "/etc/mf-obj/sites")

	cfg, err := load([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Timeout != 12*time.Second {
		t.Errorf("Expected timeout 12s, got %v", cfg.Timeout)
	}
	if cfg.SitesDir != "/etc/mf-obj/sites" {
		t.Errorf("Expected sites dir '/etc/mf-obj/sites', got '%s'", cfg.SitesDir)
	}
}

func TestLoadRejectsNegativeValues(t *testing.T) {
	_, err := load([]string{"--cache-ttl=-1"})
	if err == nil {
		t.Fatal("Expected error for negative cache TTL")
	}
	if !strings.Contains(err.Error(), "cache TTL must be non-negative") {
		t.Errorf("Expected non-negative error, got '%s'", err.Error())
	}
}
