package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"terrasearch/internal/utils"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Catalog CatalogConfig
	Search  SearchConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// CatalogConfig holds inventory loading configuration
type CatalogConfig struct {
	ListingsPath        string // comma-separated file paths or URLs
	CriteriaPath        string // optional criteria preset loaded at startup
	FetchTimeoutSeconds int
}

// SearchConfig holds search-related configuration
type SearchConfig struct {
	DefaultTop int
	MaxTop     int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
		},
		Catalog: CatalogConfig{
			ListingsPath:        getEnv("LISTINGS_PATH", "data/sample_listings.json"),
			CriteriaPath:        getEnv("CRITERIA_PATH", ""),
			FetchTimeoutSeconds: getEnvAsInt("FETCH_TIMEOUT_SECONDS", 30),
		},
		Search: SearchConfig{
			DefaultTop: getEnvAsInt("SEARCH_DEFAULT_TOP", 5),
			MaxTop:     getEnvAsInt("SEARCH_MAX_TOP", 100),
		},
	}

	return cfg, nil
}

// ListingSources returns the configured inventory sources as a list
func (c *Config) ListingSources() []string {
	return utils.SplitCSV(c.Catalog.ListingsPath)
}

// FetchTimeout returns the inventory fetch timeout as a duration
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Catalog.FetchTimeoutSeconds) * time.Second
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}
