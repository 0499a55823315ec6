package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	HTTPPort     string
	AppMode      string
	LogLevel     string
	FiberPrefork bool

	ClickHouseAddr     string
	ClickHouseDatabase string
	ClickHouseUsername string
	ClickHousePassword string
	DialTimeout        time.Duration

	WorkerBufferSize int
	WorkerBatchSize  int
	WorkerFlushEvery time.Duration
	FutureTolerance  time.Duration
}

// Load reads configuration from environment variables with sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:           getEnv("HTTP_PORT", ":8080"),
		AppMode:            strings.ToLower(getEnv("APP_MODE", "dev")),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "info")),
		FiberPrefork:       parseBoolEnv("FIBER_PREFORK", false),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DB", "default"),
		ClickHouseUsername: getEnv("CLICKHOUSE_USER", "default"),
		ClickHousePassword: os.Getenv("CLICKHOUSE_PASSWORD"),
		DialTimeout:        parseDurationEnv("CLICKHOUSE_DIAL_TIMEOUT", 10*time.Second),
		WorkerBufferSize:   parseIntEnv("WORKER_BUFFER_SIZE", 10000),
		WorkerBatchSize:    parseIntEnv("WORKER_BATCH_SIZE", 500),
		WorkerFlushEvery:   parseDurationEnv("WORKER_FLUSH_EVERY", 2*time.Second),
		FutureTolerance:    parseDurationEnv("FUTURE_TOLERANCE", 5*time.Minute),
	}
	cfg.ClickHouseAddr = os.Getenv("CLICKHOUSE_ADDR")
	if cfg.ClickHouseAddr == "" {
		return nil, fmt.Errorf("CLICKHOUSE_ADDR is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseBoolEnv(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseIntEnv(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseDurationEnv(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}
