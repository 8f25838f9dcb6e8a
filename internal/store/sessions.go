package store

import (
	"sort"

	"gexcli/pkg/contracts/domain"
)

// SessionStore persists saved chain uploads under the sessions namespace
type SessionStore struct {
	store *Store
}

// NewSessionStore wraps a Store with session-typed access
func NewSessionStore(s *Store) *SessionStore {
	return &SessionStore{store: s}
}

// List returns all saved sessions, newest first
func (s *SessionStore) List() []domain.Session {
	var sessions []domain.Session
	s.store.Get(KeySessions, &sessions)

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UploadedAt.After(sessions[j].UploadedAt)
	})
	return sessions
}

// Get returns the session with the given id
func (s *SessionStore) Get(id string) (domain.Session, bool) {
	for _, session := range s.List() {
		if session.ID == id {
			return session, true
		}
	}
	return domain.Session{}, false
}

// Save inserts or replaces a session by id
func (s *SessionStore) Save(session domain.Session) bool {
	sessions := s.List()

	replaced := false
	for i, existing := range sessions {
		if existing.ID == session.ID {
			sessions[i] = session
			replaced = true
			break
		}
	}
	if !replaced {
		sessions = append(sessions, session)
	}

	return s.store.Set(KeySessions, sessions)
}

// Delete removes the session with the given id. Returns false when no session
// had that id.
func (s *SessionStore) Delete(id string) bool {
	sessions := s.List()

	filtered := sessions[:0]
	for _, session := range sessions {
		if session.ID != id {
			filtered = append(filtered, session)
		}
	}

	if len(filtered) == len(sessions) {
		return false
	}
	return s.store.Set(KeySessions, filtered)
}

// SettingsStore persists dashboard preferences under the settings namespace
type SettingsStore struct {
	store *Store
}

// NewSettingsStore wraps a Store with settings-typed access
func NewSettingsStore(s *Store) *SettingsStore {
	return &SettingsStore{store: s}
}

// Get returns the saved settings, or the defaults when none were saved yet
func (s *SettingsStore) Get() domain.Settings {
	settings := domain.DefaultSettings()
	s.store.Get(KeySettings, &settings)
	return settings
}

// Save persists the settings
func (s *SettingsStore) Save(settings domain.Settings) bool {
	return s.store.Set(KeySettings, settings)
}

// Reset restores the default settings
func (s *SettingsStore) Reset() bool {
	return s.store.Set(KeySettings, domain.DefaultSettings())
}

// WatchlistStore persists tracked underlyings under the watchlist namespace
type WatchlistStore struct {
	store *Store
}

// NewWatchlistStore wraps a Store with watchlist-typed access
func NewWatchlistStore(s *Store) *WatchlistStore {
	return &WatchlistStore{store: s}
}

// List returns all watchlist items in insertion order
func (w *WatchlistStore) List() []domain.WatchlistItem {
	var items []domain.WatchlistItem
	w.store.Get(KeyWatchlist, &items)
	return items
}

// Add appends an item. An item with the same symbol is replaced in place so
// re-adding updates notes and alert price without changing position.
func (w *WatchlistStore) Add(item domain.WatchlistItem) bool {
	items := w.List()

	for i, existing := range items {
		if existing.Symbol == item.Symbol {
			items[i] = item
			return w.store.Set(KeyWatchlist, items)
		}
	}

	items = append(items, item)
	return w.store.Set(KeyWatchlist, items)
}

// Remove deletes the item with the given symbol. Returns false when the
// symbol was not on the watchlist.
func (w *WatchlistStore) Remove(symbol string) bool {
	items := w.List()

	filtered := items[:0]
	for _, item := range items {
		if item.Symbol != symbol {
			filtered = append(filtered, item)
		}
	}

	if len(filtered) == len(items) {
		return false
	}
	return w.store.Set(KeyWatchlist, filtered)
}
