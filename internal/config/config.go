// Package config centralises configuration parsing for the signup service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures runtime configuration values for the signup service.
type Config struct {
	HTTPAddress        string
	SeedFile           string // Optional YAML seed replacing the embedded activities.
	CORSAllowedOrigin  string
	KafkaBrokers       []string // Empty disables roster event delivery.
	RosterEventsTopic  string
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxQueueSize    int
	LogLevel           string
	LogFormat          string
	ShutdownTimeout    time.Duration
}

// Load reads environment variables into Config, applying sensible defaults for local dev.
func Load() Config {
	return Config{
		HTTPAddress:        getEnv("HTTP_ADDRESS", ":8080"),
		SeedFile:           getEnv("ACTIVITY_SEED_FILE", ""),
		CORSAllowedOrigin:  getEnv("CORS_ALLOWED_ORIGIN", "http://localhost:5173"),
		KafkaBrokers:       splitAndTrim(getEnv("KAFKA_BROKERS", "")),
		RosterEventsTopic:  getEnv("ROSTER_EVENTS_TOPIC", "activity_roster_events"),
		OutboxPollInterval: getDurationEnv("OUTBOX_POLL_INTERVAL", 2*time.Second),
		OutboxBatchSize:    getIntEnv("OUTBOX_BATCH_SIZE", 25),
		OutboxQueueSize:    getIntEnv("OUTBOX_QUEUE_SIZE", 1024),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		ShutdownTimeout:    getDurationEnv("SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

// EventsEnabled reports whether roster events should be shipped to Kafka.
func (c Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}
