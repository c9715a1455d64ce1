package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAllowedHosts keeps the local server reachable from loopback names only.
const DefaultAllowedHosts = "localhost,127.0.0.1,::1"

type Config struct {
	Backend   BackendConfig
	Session   SessionConfig
	Server    ServerConfig
	Loader    LoaderConfig
	Telemetry TelemetryConfig
}

// BackendConfig points the client at the remote SpendPal API.
type BackendConfig struct {
	URL     string
	Timeout time.Duration
}

type SessionConfig struct {
	TokenFile string
}

// ServerConfig is the local view API served by "spendpal serve".
type ServerConfig struct {
	Port         string
	Host         string
	AllowedHosts []string
}

type LoaderConfig struct {
	Workers    int
	JobTimeout time.Duration
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	Environment  string
	OTLPEndpoint string
	MetricsPort  string
}

// LoadDotEnv reads the given env files, or .env when none are given.
// Variables already present in the environment win.
func LoadDotEnv(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil && len(files) == 0 && os.IsNotExist(err) {
		return nil
	}
	return err
}

func Load() (*Config, error) {
	timeout, err := time.ParseDuration(getEnv("SPENDPAL_API_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SPENDPAL_API_TIMEOUT: %w", err)
	}
	jobTimeout, err := time.ParseDuration(getEnv("SPENDPAL_LOAD_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SPENDPAL_LOAD_TIMEOUT: %w", err)
	}
	workers, err := getIntEnv("SPENDPAL_LOAD_WORKERS", 4)
	if err != nil {
		return nil, fmt.Errorf("invalid SPENDPAL_LOAD_WORKERS: %w", err)
	}

	// Parse allowed hosts (comma-separated list)
	var allowedHosts []string
	for _, host := range strings.Split(getEnv("ALLOWED_HOSTS", DefaultAllowedHosts), ",") {
		host = strings.TrimSpace(host)
		if host != "" {
			allowedHosts = append(allowedHosts, host)
		}
	}

	cfg := &Config{
		Backend: BackendConfig{
			URL:     strings.TrimRight(getEnv("SPENDPAL_API_URL", ""), "/"),
			Timeout: timeout,
		},
		Session: SessionConfig{
			TokenFile: getEnv("SPENDPAL_SESSION_FILE", filepath.Join("~", ".spendpal", "session")),
		},
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Host:         getEnv("HOST", "127.0.0.1"),
			AllowedHosts: allowedHosts,
		},
		Loader: LoaderConfig{
			Workers:    workers,
			JobTimeout: jobTimeout,
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "spendpal"),
			Environment:  getEnv("OTEL_ENVIRONMENT", "development"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
			MetricsPort:  getEnv("METRICS_PORT", ""),
		},
	}

	if cfg.Backend.URL == "" {
		return nil, fmt.Errorf("SPENDPAL_API_URL is required")
	}
	u, err := url.Parse(cfg.Backend.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("SPENDPAL_API_URL must be an absolute http(s) URL")
	}
	if cfg.Backend.Timeout <= 0 {
		return nil, fmt.Errorf("SPENDPAL_API_TIMEOUT must be positive")
	}
	if cfg.Loader.Workers < 1 {
		return nil, fmt.Errorf("SPENDPAL_LOAD_WORKERS must be at least 1")
	}

	return cfg, nil
}

// Addr is the listen address of the local server.
func (c ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(value)
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept: true, false, 1, 0, yes, no (case-insensitive)
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}
