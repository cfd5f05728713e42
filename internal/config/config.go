package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"aryastastic/internal"
	"aryastastic/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Sweep   SweepConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Port           string
	RequestTimeout time.Duration
}

// SweepConfig bounds parameter sweeps
type SweepConfig struct {
	Concurrency int
	MaxPoints   int
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level internal.LogLevel
}

// Default returns the configuration used when no environment is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			RequestTimeout: 15 * time.Second,
		},
		Sweep: SweepConfig{
			Concurrency: 4,
			MaxPoints:   200,
		},
		Logging: LoggingConfig{
			Level: internal.LogLevelInfo,
		},
	}
}

// Load reads an optional dotenv file, then configuration from environment
// variables, and validates it. A missing dotenv file is not an error.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) > 0 {
		for _, f := range envFiles {
			if _, err := os.Stat(f); err != nil {
				continue
			}
			if err := godotenv.Load(f); err != nil {
				return nil, errors.Wrapf(err, "failed to read env file %s", f)
			}
		}
	} else {
		_ = godotenv.Load()
	}

	def := Default()
	config := &Config{
		Server: ServerConfig{
			Port:           getEnvOrDefault("PORT", def.Server.Port),
			RequestTimeout: getEnvDurationOrDefault("REQUEST_TIMEOUT", def.Server.RequestTimeout),
		},
		Sweep: SweepConfig{
			Concurrency: getEnvIntOrDefault("SWEEP_CONCURRENCY", def.Sweep.Concurrency),
			MaxPoints:   getEnvIntOrDefault("SWEEP_MAX_POINTS", def.Sweep.MaxPoints),
		},
		Logging: LoggingConfig{
			Level: internal.ParseLogLevel(getEnvOrDefault("LOG_LEVEL", "INFO")),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric")
	}
	if config.Server.RequestTimeout <= 0 {
		return errors.ConfigInvalid("REQUEST_TIMEOUT must be positive")
	}
	if config.Sweep.Concurrency < 1 {
		return errors.ConfigInvalid("SWEEP_CONCURRENCY must be at least 1")
	}
	if config.Sweep.MaxPoints < 1 {
		return errors.ConfigInvalid("SWEEP_MAX_POINTS must be at least 1")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
