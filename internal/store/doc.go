// Package store provides a JSON-file-backed key-value store for persisted
// client state: saved analysis sessions, dashboard settings, and the symbol
// watchlist.
//
// The generic Store persists all namespaces into a single JSON file with
// atomic replace-on-write. Typed wrappers (SessionStore, SettingsStore,
// WatchlistStore) expose domain-level operations over the shared store.
package store
