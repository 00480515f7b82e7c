package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated once from environment
// variables at startup and immutable thereafter.
type Config struct {
	// OpenWeatherMap access.
	APIKey      string
	BaseURL     string
	Units       string
	HTTPTimeout time.Duration

	// Bootstrap default when -zip is given without a value.
	DefaultZip string

	// Local state.
	DatabasePath string
	SnapshotDir  string

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is merged in first;
// a missing file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	timeoutStr := envOrDefault("OPENWEATHER_TIMEOUT", "5s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("invalid OPENWEATHER_TIMEOUT %q", timeoutStr)
	}

	cfg := &Config{
		APIKey:       os.Getenv("OPEN_WEATHER_API_KEY"),
		BaseURL:      envOrDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org"),
		Units:        envOrDefault("OPENWEATHER_UNITS", "imperial"),
		HTTPTimeout:  timeout,
		DefaultZip:   envOrDefault("DEFAULT_ZIP", "85374"),
		DatabasePath: envOrDefault("DATABASE_PATH", "data/weather.db"),
		SnapshotDir:  envOrDefault("SNAPSHOT_DIR", "data/json"),
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
		LogFormat:    envOrDefault("LOG_FORMAT", "text"),
	}

	if cfg.APIKey == "" {
		return nil, errors.New("OPEN_WEATHER_API_KEY is required")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
