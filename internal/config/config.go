package config

import (
	"os"
	"strconv"
	"time"

	"aargeom/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database   DatabaseConfig
	Server     ServerConfig
	Monitoring MonitoringConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// MonitoringConfig holds outbound telemetry settings
type MonitoringConfig struct {
	BaseURL string
	Enabled bool
	Timeout time.Duration
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port:         getEnvDefault("PORT", "8000"),
			ReadTimeout:  getDurationDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDurationDefault("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Monitoring: MonitoringConfig{
			BaseURL: os.Getenv("MONITORING_BASE_URL"),
			Enabled: getBoolDefault("MONITORING_ENABLED", false),
			Timeout: getDurationDefault("MONITORING_TIMEOUT", 5*time.Second),
		},
	}

	if config.Server.Port == "" {
		return nil, errors.ConfigInvalid("PORT cannot be empty")
	}
	if config.Monitoring.Enabled && config.Monitoring.BaseURL == "" {
		return nil, errors.ConfigInvalid("MONITORING_BASE_URL is required when monitoring is enabled")
	}

	return config, nil
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBoolDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getDurationDefault(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
