package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Price    PriceConfig
	CORS     CORSConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// AuthConfig holds session token configuration. Key is the fernet key used to
// sign and encrypt bearer tokens; TokenTTL bounds their lifetime.
type AuthConfig struct {
	Key      *fernet.Key
	TokenTTL time.Duration
}

// PriceConfig holds price feed configuration. BaseURL points at the CoinGecko
// simple-price API (overridable for tests), CacheTTL bounds how long a quote
// is served from cache, and RefreshCron optionally schedules a background
// refresh of the default currency.
type PriceConfig struct {
	BaseURL         string
	DefaultCurrency string
	CacheTTL        time.Duration
	RefreshCron     string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	authKey, err := loadAuthKey()
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8000"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/hodl.db"),
		},
		Auth: AuthConfig{
			Key:      authKey,
			TokenTTL: getEnvDuration("AUTH_TOKEN_TTL", 24*time.Hour),
		},
		Price: PriceConfig{
			BaseURL:         getEnv("PRICE_API_URL", "https://api.coingecko.com/api/v3"),
			DefaultCurrency: getEnv("PRICE_DEFAULT_CURRENCY", "usd"),
			CacheTTL:        getEnvDuration("PRICE_CACHE_TTL", 60*time.Second),
			RefreshCron:     getEnv("PRICE_REFRESH_CRON", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// loadAuthKey reads the fernet session key from AUTH_SECRET_KEY, generating an
// ephemeral key when unset. An ephemeral key invalidates all sessions on
// restart, which is acceptable for local development only.
func loadAuthKey() (*fernet.Key, error) {
	if raw := os.Getenv("AUTH_SECRET_KEY"); raw != "" {
		key, err := fernet.DecodeKey(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid AUTH_SECRET_KEY: %w", err)
		}
		return key, nil
	}

	var key fernet.Key
	if err := key.Generate(); err != nil {
		return nil, fmt.Errorf("failed to generate session key: %w", err)
	}
	return &key, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvDuration gets an environment variable as seconds or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}
