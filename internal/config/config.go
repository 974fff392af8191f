package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Store backend selectors.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds all application configuration, loaded from the environment.
type Config struct {
	// Server configuration
	Environment string
	ServerHost  string
	ServerPort  string

	// Store configuration
	StoreBackend string // memory, sqlite or postgres
	SQLitePath   string

	// Postgres configuration (only used with the postgres backend)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration (resolve cache, optional)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheEnabled  bool
	CacheTTL      time.Duration

	// Application settings
	RateLimitPerMinute int // per-client connection budget
	WorkerPoolSize     int // goroutines handling offloaded store calls
	WorkerQueueDepth   int // pending offloaded calls before Submit blocks
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		ServerHost:  getEnv("SERVER_HOST", "127.0.0.1"),
		ServerPort:  getEnv("SERVER_PORT", "8080"),

		StoreBackend: getEnv("STORE_BACKEND", BackendSQLite),
		SQLitePath:   getEnv("SQLITE_PATH", "shortlink.db"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "shortlink"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		CacheEnabled:  getEnvAsBool("CACHE_ENABLED", false),
		CacheTTL:      time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 3600)) * time.Second,

		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 0),
		WorkerPoolSize:     getEnvAsInt("WORKER_POOL_SIZE", 4),
		WorkerQueueDepth:   getEnvAsInt("WORKER_QUEUE_DEPTH", 64),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendSQLite, BackendPostgres:
	default:
		return fmt.Errorf("STORE_BACKEND must be one of memory, sqlite, postgres, got %q", c.StoreBackend)
	}

	if c.StoreBackend == BackendSQLite && c.SQLitePath == "" {
		return fmt.Errorf("SQLITE_PATH is required with the sqlite backend")
	}

	if c.StoreBackend == BackendPostgres && c.Environment == "production" && c.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required in production")
	}

	if c.WorkerPoolSize < 1 {
		return fmt.Errorf("WORKER_POOL_SIZE must be at least 1, got %d", c.WorkerPoolSize)
	}

	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative, got %d", c.RateLimitPerMinute)
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
