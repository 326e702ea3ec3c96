package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Execution modes for the regional catalog adapter. Local runs the scraper
// script as a subprocess; remote delegates to a sibling HTTP endpoint that
// speaks the same envelope.
const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Remote seismic catalog (FDSN event service).
	USGSBaseURL string
	USGSTimeout time.Duration

	// Global volcanic event feed.
	EONETBaseURL string
	EONETTimeout time.Duration

	// Regional catalog execution. ExecutionMode is resolved once here and
	// injected; nothing reads it from the environment afterwards.
	ExecutionMode    string
	Interpreter      string
	ScriptPath       string
	ScriptSearchPath string
	RegionalEndpoint string
	RegionalTimeout  time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset. Strategy-specific requirements (script path, remote endpoint)
// are checked by the regional adapter at construction, not here, so that
// the error points at the component that needs the value.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	usgsTimeout, err := parseDuration("USGS_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	eonetTimeout, err := parseDuration("EONET_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	regionalTimeout, err := parseDuration("REGIONAL_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		USGSBaseURL: envOrDefault("USGS_BASE_URL", "https://earthquake.usgs.gov/fdsnws/event/1"),
		USGSTimeout: usgsTimeout,

		EONETBaseURL: envOrDefault("EONET_BASE_URL", "https://eonet.gsfc.nasa.gov/api/v3"),
		EONETTimeout: eonetTimeout,

		ExecutionMode:    envOrDefault("EXECUTION_MODE", ModeLocal),
		Interpreter:      envOrDefault("PHIVOLCS_INTERPRETER", "python3"),
		ScriptPath:       os.Getenv("PHIVOLCS_SCRIPT_PATH"),
		ScriptSearchPath: os.Getenv("PHIVOLCS_SEARCH_PATH"),
		RegionalEndpoint: os.Getenv("REGIONAL_ENDPOINT_URL"),
		RegionalTimeout:  regionalTimeout,
	}

	if cfg.ExecutionMode != ModeLocal && cfg.ExecutionMode != ModeRemote {
		return nil, fmt.Errorf("EXECUTION_MODE must be %q or %q, got %q", ModeLocal, ModeRemote, cfg.ExecutionMode)
	}
	if cfg.USGSBaseURL == "" {
		return nil, errors.New("USGS_BASE_URL is required")
	}
	if cfg.EONETBaseURL == "" {
		return nil, errors.New("EONET_BASE_URL is required")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	raw := envOrDefault(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return d, nil
}
