// Package config provides configuration management for the product scanner application.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	OpenFood  OpenFoodConfig
	Gemini    GeminiConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Host string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Postgres PostgresConfig
	Redis    RedisConfig
}

// PostgresConfig holds Postgres configuration
type PostgresConfig struct {
	Host           string
	Port           string
	Database       string
	User           string
	Password       string
	MaxConnections int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host           string
	Port           string
	Password       string
	DB             int
	MaxConnections int
}

// CacheConfig holds product lookup cache configuration
type CacheConfig struct {
	TTL time.Duration
}

// OpenFoodConfig holds Open Food Facts API configuration
type OpenFoodConfig struct {
	BaseURL string
	Timeout time.Duration
}

// GeminiConfig holds Gemini API configuration.
// APIKey has no shipped default: a missing key is a configuration failure,
// detected before the call, not something to paper over with a bundled key.
type GeminiConfig struct {
	APIKey             string
	BaseURL            string
	Model              string
	Timeout            time.Duration
	MinRequestInterval time.Duration
	DailyRequestBudget int
}

// RateLimitConfig holds API rate limiting configuration
type RateLimitConfig struct {
	FreeTierRPS int
	PaidTierRPS int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() (*Config, error) {
	// Load .env file (optional in production)
	if err := godotenv.Load(); err != nil {
		// .env file is optional - environment variables can be set directly
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Postgres: PostgresConfig{
				Host:           getEnv("POSTGRES_HOST", "localhost"),
				Port:           getEnv("POSTGRES_PORT", "5432"),
				Database:       getEnv("POSTGRES_DB", "product_scanner"),
				User:           getEnv("POSTGRES_USER", "scanner"),
				Password:       getEnv("POSTGRES_PASSWORD", ""),
				MaxConnections: getEnvAsInt("POSTGRES_MAX_CONNECTIONS", 50),
			},
			Redis: RedisConfig{
				Host:           getEnv("REDIS_HOST", "localhost"),
				Port:           getEnv("REDIS_PORT", "6379"),
				Password:       getEnv("REDIS_PASSWORD", ""),
				DB:             getEnvAsInt("REDIS_DB", 0),
				MaxConnections: getEnvAsInt("REDIS_MAX_CONNECTIONS", 20),
			},
		},
		Cache: CacheConfig{
			TTL: getEnvAsDuration("CACHE_TTL", 15*time.Minute),
		},
		OpenFood: OpenFoodConfig{
			BaseURL: getEnv("OPENFOODFACTS_BASE_URL", "https://world.openfoodfacts.org/api/v0"),
			Timeout: getEnvAsDuration("OPENFOODFACTS_TIMEOUT", 15*time.Second),
		},
		Gemini: GeminiConfig{
			APIKey:             getEnv("GEMINI_API_KEY", ""),
			BaseURL:            getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			Model:              getEnv("GEMINI_MODEL", "gemini-1.5-flash-latest"),
			Timeout:            getEnvAsDuration("GEMINI_TIMEOUT", 30*time.Second),
			MinRequestInterval: getEnvAsDuration("GEMINI_MIN_REQUEST_INTERVAL", time.Second),
			DailyRequestBudget: getEnvAsInt("GEMINI_DAILY_REQUEST_BUDGET", 1500),
		},
		RateLimit: RateLimitConfig{
			FreeTierRPS: getEnvAsInt("RATE_LIMIT_FREE_TIER_RPS", 10),
			PaidTierRPS: getEnvAsInt("RATE_LIMIT_PAID_TIER_RPS", 100),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return config, nil
}

// DatabaseURL builds the Postgres connection URL used by the migration tool
func (c *PostgresConfig) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
