package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/rustdonate/internal/model"
	"github.com/mcoot/rustdonate/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	timeout := cfg.DialTimeout
	if timeout == 0 {
		timeout = DefaultConfig().DialTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultConfig().KeyPrefix
	}
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveIdentity(ctx context.Context, identity *model.Identity) error {
	data, err := storage.EncodeIdentity(identity)
	if err != nil {
		return err
	}
	// No TTL: the record lives until logout
	return s.client.Set(ctx, identityKey(s.cfg.KeyPrefix), data, 0).Err()
}

func (s *Storage) GetIdentity(ctx context.Context) (*model.Identity, error) {
	data, err := s.client.Get(ctx, identityKey(s.cfg.KeyPrefix)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrIdentityNotFound
		}
		return nil, err
	}
	return storage.DecodeIdentity(data)
}

func (s *Storage) DeleteIdentity(ctx context.Context) error {
	return s.client.Del(ctx, identityKey(s.cfg.KeyPrefix)).Err()
}
