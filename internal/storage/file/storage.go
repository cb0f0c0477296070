// Package file persists the identity record in a JSON document on the local device.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/mcoot/rustdonate/internal/model"
	"github.com/mcoot/rustdonate/internal/storage"
)

// Storage keeps key/value records in a single JSON object on disk
type Storage struct {
	path string
	mu   sync.Mutex
}

// New creates a file storage at path. The file and its directory are created on first write.
func New(path string) *Storage {
	return &Storage{path: path}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Path returns the location of the backing file
func (s *Storage) Path() string {
	return s.path
}

func (s *Storage) SaveIdentity(ctx context.Context, identity *model.Identity) error {
	data, err := storage.EncodeIdentity(identity)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// An unreadable document is replaced rather than blocking the write
	values, err := s.load()
	if err != nil && !errors.Is(err, model.ErrCorruptIdentityRecord) {
		return err
	}
	if values == nil {
		values = make(map[string]json.RawMessage)
	}
	values[storage.IdentityRecordKey] = data
	return s.store(values)
}

func (s *Storage) GetIdentity(ctx context.Context) (*model.Identity, error) {
	s.mu.Lock()
	values, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	data, ok := values[storage.IdentityRecordKey]
	if !ok {
		return nil, model.ErrIdentityNotFound
	}
	return storage.DecodeIdentity(data)
}

func (s *Storage) DeleteIdentity(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		if errors.Is(err, model.ErrCorruptIdentityRecord) {
			return os.Remove(s.path)
		}
		return err
	}
	if _, ok := values[storage.IdentityRecordKey]; !ok {
		return nil
	}
	delete(values, storage.IdentityRecordKey)
	return s.store(values)
}

// load reads the document; a missing file is an empty document
func (s *Storage) load() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var values map[string]json.RawMessage
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrCorruptIdentityRecord, err)
	}
	if values == nil {
		values = map[string]json.RawMessage{}
	}
	return values, nil
}

// store writes the document atomically via a temp file in the same directory
func (s *Storage) store(values map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}

// DefaultPath returns the per-user state file location
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".rustdonate", "state.json")
	}
	return filepath.Join(dir, "rustdonate", "state.json")
}
