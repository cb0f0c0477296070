package memory

import (
	"context"
	"sync"

	"github.com/mcoot/rustdonate/internal/model"
	"github.com/mcoot/rustdonate/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Values are kept in their serialized form, like a browser's local storage.
type Storage struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		values: make(map[string][]byte),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveIdentity(ctx context.Context, identity *model.Identity) error {
	data, err := storage.EncodeIdentity(identity)
	if err != nil {
		return err
	}
	s.PutRaw(storage.IdentityRecordKey, data)
	return nil
}

func (s *Storage) GetIdentity(ctx context.Context) (*model.Identity, error) {
	s.mu.RLock()
	data, ok := s.values[storage.IdentityRecordKey]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrIdentityNotFound
	}
	return storage.DecodeIdentity(data)
}

func (s *Storage) DeleteIdentity(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, storage.IdentityRecordKey)
	return nil
}

// PutRaw stores an arbitrary value under key, bypassing encoding (for tests)
func (s *Storage) PutRaw(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), data...)
}

// Raw returns the raw stored value for key
func (s *Storage) Raw(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.values[key]
	return data, ok
}
