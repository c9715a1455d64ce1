package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setRequiredEnvVars(t *testing.T) {
	t.Helper()
	t.Setenv("SPENDPAL_API_URL", "https://api.spendpal.test/")
}

func TestLoad_Success(t *testing.T) {
	setRequiredEnvVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Backend.URL != "https://api.spendpal.test" {
		t.Errorf("Backend.URL = %q, want trailing slash trimmed", cfg.Backend.URL)
	}
	if cfg.Backend.Timeout != 30*time.Second {
		t.Errorf("Backend.Timeout = %v, want 30s", cfg.Backend.Timeout)
	}
	if cfg.Server.Addr() != "127.0.0.1:8080" {
		t.Errorf("Server.Addr() = %q, want %q", cfg.Server.Addr(), "127.0.0.1:8080")
	}
	if cfg.Loader.Workers != 4 {
		t.Errorf("Loader.Workers = %d, want 4", cfg.Loader.Workers)
	}
	if cfg.Telemetry.Enabled {
		t.Error("Telemetry.Enabled should default to false")
	}
}

func TestLoad_MissingAPIURL(t *testing.T) {
	t.Setenv("SPENDPAL_API_URL", "")
	os.Unsetenv("SPENDPAL_API_URL")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for missing SPENDPAL_API_URL, got nil")
	}
}

func TestLoad_RelativeAPIURL(t *testing.T) {
	t.Setenv("SPENDPAL_API_URL", "api.spendpal.test")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for relative SPENDPAL_API_URL, got nil")
	}
}

func TestLoad_InvalidDurations(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SPENDPAL_API_TIMEOUT", "soon"},
		{"SPENDPAL_API_TIMEOUT", "-1s"},
		{"SPENDPAL_LOAD_TIMEOUT", "later"},
		{"SPENDPAL_LOAD_WORKERS", "many"},
		{"SPENDPAL_LOAD_WORKERS", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			setRequiredEnvVars(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load() expected error for %s=%q, got nil", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_AllowedHosts(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("ALLOWED_HOSTS", "localhost:5173, 127.0.0.1:5173, ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(cfg.Server.AllowedHosts) != 2 {
		t.Errorf("AllowedHosts length = %d, want 2", len(cfg.Server.AllowedHosts))
	}
}

func TestLoad_AllowedHostsDefaultToLoopback(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("ALLOWED_HOSTS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	want := []string{"localhost", "127.0.0.1", "::1"}
	if len(cfg.Server.AllowedHosts) != len(want) {
		t.Fatalf("AllowedHosts = %v, want %v", cfg.Server.AllowedHosts, want)
	}
	for i, host := range want {
		if cfg.Server.AllowedHosts[i] != host {
			t.Errorf("AllowedHosts[%d] = %q, want %q", i, cfg.Server.AllowedHosts[i], host)
		}
	}
}

func TestLoad_TelemetryConfig(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("OTEL_ENABLED", "yes")
	t.Setenv("OTEL_SERVICE_NAME", "spendpal-dev")
	t.Setenv("METRICS_PORT", "9464")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if !cfg.Telemetry.Enabled {
		t.Error("Telemetry.Enabled should be true")
	}
	if cfg.Telemetry.ServiceName != "spendpal-dev" {
		t.Errorf("Telemetry.ServiceName = %q", cfg.Telemetry.ServiceName)
	}
	if cfg.Telemetry.MetricsPort != "9464" {
		t.Errorf("Telemetry.MetricsPort = %q", cfg.Telemetry.MetricsPort)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("SPENDPAL_DOTENV_PROBE=from-file\nPORT=9999\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "7070")
	t.Setenv("SPENDPAL_DOTENV_PROBE", "")
	os.Unsetenv("SPENDPAL_DOTENV_PROBE")
	t.Cleanup(func() { os.Unsetenv("SPENDPAL_DOTENV_PROBE") })

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() failed: %v", err)
	}
	if got := os.Getenv("SPENDPAL_DOTENV_PROBE"); got != "from-file" {
		t.Errorf("SPENDPAL_DOTENV_PROBE = %q, want %q", got, "from-file")
	}
	if got := os.Getenv("PORT"); got != "7070" {
		t.Errorf("PORT = %q, existing environment should win", got)
	}

	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("LoadDotEnv() expected error for an explicit missing file")
	}
}

func TestGetBoolEnv(t *testing.T) {
	tests := []struct {
		value    string
		defVal   bool
		expected bool
	}{
		{"true", false, true},
		{"TRUE", false, true},
		{"1", false, true},
		{"yes", false, true},
		{"false", true, false},
		{"0", true, false},
		{"NO", true, false},
		{"invalid", true, true},   // returns default
		{"invalid", false, false}, // returns default
		{"", true, true},          // empty returns default
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			key := "TEST_BOOL_ENV"
			if tt.value == "" {
				os.Unsetenv(key)
			} else {
				t.Setenv(key, tt.value)
			}

			got := getBoolEnv(key, tt.defVal)
			if got != tt.expected {
				t.Errorf("getBoolEnv(%q, %v) = %v, want %v", tt.value, tt.defVal, got, tt.expected)
			}
		})
	}
}
