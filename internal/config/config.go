package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const defaultHTTPPort = "5000"

// Config holds application configuration values.
type Config struct {
	AppEnv             string
	HTTPPort           string
	DatabaseDSN        string
	DBBusyTimeout      time.Duration
	LogFormat          string
	LogLevel           string
	CORSAllowedOrigins []string
	MetricsNamespace   string
	SeedMedicinesCSV   string
	ShutdownTimeout    time.Duration

	// Warnings collects values that were rejected and replaced by defaults.
	Warnings []string
}

// Load reads configuration from environment variables and an optional .env
// file, falling back to reasonable defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}
	return fromKoanf(k), nil
}

func fromKoanf(k *koanf.Koanf) *Config {
	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		HTTPPort:           valueOrDefault(k.String("HTTP_PORT"), defaultHTTPPort),
		DatabaseDSN:        valueOrDefault(k.String("DATABASE_DSN"), "database/Pharmacy.db"),
		LogFormat:          valueOrDefault(k.String("LOG_FORMAT"), "json"),
		LogLevel:           valueOrDefault(k.String("LOG_LEVEL"), "info"),
		CORSAllowedOrigins: splitAndTrim(valueOrDefault(k.String("CORS_ALLOWED_ORIGINS"), "*")),
		MetricsNamespace:   valueOrDefault(k.String("METRICS_NAMESPACE"), "pharmacy"),
		SeedMedicinesCSV:   strings.TrimSpace(k.String("SEED_MEDICINES_CSV")),
	}
	cfg.DBBusyTimeout = cfg.duration(k.String("DB_BUSY_TIMEOUT"), "DB_BUSY_TIMEOUT", 5*time.Second)
	cfg.ShutdownTimeout = cfg.duration(k.String("SHUTDOWN_TIMEOUT"), "SHUTDOWN_TIMEOUT", 10*time.Second)

	// Validate that port is numeric.
	if _, err := strconv.Atoi(strings.TrimPrefix(cfg.HTTPPort, ":")); err != nil {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("invalid HTTP_PORT value %q, defaulting to %s", cfg.HTTPPort, defaultHTTPPort))
		cfg.HTTPPort = defaultHTTPPort
	}
	return cfg
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.HTTPPort)
	if port == "" {
		port = defaultHTTPPort
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func (c *Config) duration(value, key string, fallback time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		c.Warnings = append(c.Warnings, fmt.Sprintf("invalid %s value %q, defaulting to %s", key, value, fallback))
		return fallback
	}
	return d
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}
