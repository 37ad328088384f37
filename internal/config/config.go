package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server Server
	Data   Data
	Prices Prices
	CORS   CORS
}

// Server holds HTTP server configuration
type Server struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// Data holds database and statement-file locations
type Data struct {
	DatabasePath string
	StatementDir string
}

// Prices holds price feed configuration
type Prices struct {
	// RefreshSchedule is a cron expression for the automatic price refresh.
	// Empty disables scheduled refreshes.
	RefreshSchedule string
}

// CORS holds CORS-specific configuration
type CORS struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: Server{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Data: Data{
			DatabasePath: getEnv("DB_PATH", "./data/portfolio.db"),
			StatementDir: getEnv("STATEMENT_DIR", "./data/statements"),
		},
		Prices: Prices{
			RefreshSchedule: getEnv("PRICE_REFRESH_SCHEDULE", "0 18 * * MON-FRI"),
		},
		CORS: CORS{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
