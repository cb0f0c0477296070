// Package config loads server settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageFile   = "file"
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// DotenvPathVar names the variable holding the .env file path
const DotenvPathVar = "RUSTDONATE_DOTENV"

// Config holds every server setting
type Config struct {
	Host     string `env:"RUSTDONATE_HOST"`
	Port     int    `env:"RUSTDONATE_PORT" envDefault:"8080"`
	LogLevel string `env:"RUSTDONATE_LOG_LEVEL" envDefault:"info"`

	// Durable identity record
	Storage        string `env:"RUSTDONATE_STORAGE" envDefault:"file"`
	StateFile      string `env:"RUSTDONATE_STATE_FILE"`
	RedisURL       string `env:"REDIS_URL"`
	RedisKeyPrefix string `env:"RUSTDONATE_REDIS_PREFIX" envDefault:"rustdonate"`

	// Identity lookup used by login. Empty LookupURL means this server's own
	// steam-profile endpoint.
	LookupURL     string        `env:"RUSTDONATE_LOOKUP_URL"`
	LookupTimeout time.Duration `env:"RUSTDONATE_LOOKUP_TIMEOUT" envDefault:"10s"`
	OfflineLogin  bool          `env:"RUSTDONATE_OFFLINE_LOGIN"`

	// Orders
	FulfillmentDelay time.Duration `env:"RUSTDONATE_FULFILLMENT_DELAY" envDefault:"2s"`
	RecentOrders     int           `env:"RUSTDONATE_RECENT_ORDERS" envDefault:"5"`

	// Steam Web API
	SteamAPIKey    string  `env:"STEAM_API_KEY"`
	SteamAPIURL    string  `env:"STEAM_API_URL" envDefault:"https://api.steampowered.com"`
	SteamRateLimit float64 `env:"STEAM_RATE_LIMIT" envDefault:"5"`
}

// Load reads the .env file named by RUSTDONATE_DOTENV (default ".env") and
// then parses the environment. Variables already set in the environment take
// precedence over the file. A missing .env file is not an error.
func Load(logger *slog.Logger) (Config, error) {
	path := os.Getenv(DotenvPathVar)
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
		logger.Debug("no .env file", slog.String("path", path))
	}
	return Parse()
}

// Parse reads configuration from environment variables only
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values env parsing cannot
func (c Config) Validate() error {
	switch c.Storage {
	case StorageFile, StorageMemory:
	case StorageRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL required when RUSTDONATE_STORAGE=redis")
		}
	default:
		return fmt.Errorf("invalid RUSTDONATE_STORAGE %q: must be file, memory or redis", c.Storage)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid RUSTDONATE_PORT %d", c.Port)
	}
	if c.RecentOrders < 1 {
		return fmt.Errorf("invalid RUSTDONATE_RECENT_ORDERS %d: must be at least 1", c.RecentOrders)
	}
	if c.FulfillmentDelay < 0 {
		return fmt.Errorf("invalid RUSTDONATE_FULFILLMENT_DELAY %s", c.FulfillmentDelay)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid RUSTDONATE_LOG_LEVEL %q", c.LogLevel)
	}
	return level, nil
}

// ResolvedLookupURL returns LookupURL, defaulting to this server's own
// steam-profile endpoint
func (c Config) ResolvedLookupURL() string {
	if c.LookupURL != "" {
		return c.LookupURL
	}
	host := c.Host
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s:%d/api/v1/steam-profile", host, c.Port)
}
