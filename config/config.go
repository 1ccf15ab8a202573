package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the client configuration
type Config struct {
	API     APIConfig
	Logger  LoggerConfig
	Session SessionConfig
	Stub    StubConfig
}

// APIConfig holds settings for the backing catalog service
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// LoggerConfig holds logging settings
type LoggerConfig struct {
	Level       string
	Environment string
}

// SessionConfig holds session persistence settings
type SessionConfig struct {
	File string
}

// StubConfig holds settings for the local development backend
type StubConfig struct {
	Port string
}

// Load reads configuration from .env (if present) and the environment
func Load() *Config {
	// Missing .env is fine; the environment still applies
	_ = godotenv.Load()

	return &Config{
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:5000/api"),
			Timeout: time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Session: SessionConfig{
			File: getEnv("SESSION_FILE", defaultSessionFile()),
		},
		Stub: StubConfig{
			Port: getEnv("STUB_PORT", "5000"),
		},
	}
}

// IsDevelopment reports whether the client runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Logger.Environment == "development"
}

// defaultSessionFile places the session record under the user config dir,
// falling back to the working directory when none is available.
func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "session.json"
	}
	return filepath.Join(dir, "hardware-inventory", "session.json")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
