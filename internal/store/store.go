package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	apierrors "gexcli/internal/errors"
)

// Namespaced keys for the persisted client state
const (
	KeySessions  = "gex_sessions"
	KeySettings  = "gex_settings"
	KeyWatchlist = "gex_watchlist"
)

// Store is a JSON-file-backed key-value store. All values are persisted to a
// single file as a JSON object keyed by namespace. Writes go through a
// temp-file rename so a crash mid-write never corrupts the store.
type Store struct {
	mu     sync.RWMutex
	path   string
	data   map[string]json.RawMessage
	logger *slog.Logger
}

// New opens the store at path, loading existing content if present. A missing
// file is not an error; the store starts empty and the file is created on the
// first Set.
func New(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		path:   path,
		data:   make(map[string]json.RawMessage),
		logger: logger.With(slog.String("component", "store")),
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, apierrors.NewStorageError("failed to read store file", err)
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.data); err != nil {
			// A corrupt store file should not brick the application; start
			// fresh and let the next Set overwrite it.
			s.logger.Warn("store file is corrupt, starting empty",
				slog.String("path", path),
				slog.String("error", err.Error()))
			s.data = make(map[string]json.RawMessage)
		}
	}

	return s, nil
}

// Get unmarshals the value stored under key into out. Returns false when the
// key is absent or the stored value does not unmarshal into out.
func (s *Store) Get(key string, out interface{}) bool {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return false
	}

	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.Warn("failed to unmarshal stored value",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return false
	}
	return true
}

// Set stores value under key and persists the whole store to disk. Returns
// false when marshalling or persisting fails.
func (s *Store) Set(key string, value interface{}) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("failed to marshal value",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = raw
	if err := s.persistLocked(); err != nil {
		s.logger.Error("failed to persist store",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return false
	}
	return true
}

// Delete removes key from the store. Returns false when the key was absent or
// persisting the removal failed.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return false
	}

	delete(s.data, key)
	if err := s.persistLocked(); err != nil {
		s.logger.Error("failed to persist store after delete",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return false
	}
	return true
}

// Keys returns all keys currently present in the store
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

// persistLocked writes the store to disk. Caller must hold the write lock.
func (s *Store) persistLocked() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}
