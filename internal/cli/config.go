package cli

import (
	"os"
	"time"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Output    string
	Timeout   time.Duration
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("RUSTDONATE_SERVER", "http://localhost:8080"),
		Output:    getEnvOrDefault("RUSTDONATE_OUTPUT", "text"),
		Timeout:   30 * time.Second,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
