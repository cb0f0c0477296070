package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// KeyPrefix namespaces every key written by this store.
	// Use a different prefix per device when several storefronts share one Redis.
	KeyPrefix string

	// DialTimeout bounds the startup ping
	DialTimeout time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     4,
		MinIdleConns: 1,
		KeyPrefix:    "rustdonate",
		DialTimeout:  5 * time.Second,
	}
}
