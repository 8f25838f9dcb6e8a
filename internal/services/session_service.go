package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"gexcli/internal/store"
	"gexcli/pkg/contracts/domain"
)

// SessionService manages saved analysis sessions
type SessionService struct {
	sessions *store.SessionStore
	logger   *slog.Logger
}

// NewSessionService creates a session service
func NewSessionService(sessions *store.SessionStore, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		sessions: sessions,
		logger:   logger.With(slog.String("service", "sessions")),
	}
}

// SessionSummary is the list representation without the record payload
type SessionSummary struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Symbol          string    `json:"symbol"`
	UploadedAt      time.Time `json:"uploaded_at"`
	OptionCount     int       `json:"option_count"`
	UnderlyingPrice float64   `json:"underlying_price"`
}

// List returns session summaries newest first
func (s *SessionService) List(ctx context.Context) []SessionSummary {
	sessions := s.sessions.List()

	summaries := make([]SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		summaries = append(summaries, SessionSummary{
			ID:              session.ID,
			Name:            session.Name,
			Symbol:          session.Symbol,
			UploadedAt:      session.UploadedAt,
			OptionCount:     session.OptionCount,
			UnderlyingPrice: session.UnderlyingPrice,
		})
	}
	return summaries
}

// Get returns a full session including records
func (s *SessionService) Get(ctx context.Context, id string) (domain.Session, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return domain.Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return session, nil
}

// Rename updates the display name of a session
func (s *SessionService) Rename(ctx context.Context, id, name string) (domain.Session, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 120 {
		return domain.Session{}, fmt.Errorf("%w: name must be 1-120 characters", ErrInvalidInput)
	}

	session, ok := s.sessions.Get(id)
	if !ok {
		return domain.Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	session.Name = name
	if !s.sessions.Save(session) {
		return domain.Session{}, fmt.Errorf("%w: renaming session %s", ErrStorageFailed, id)
	}

	s.logger.InfoContext(ctx, "session renamed",
		slog.String("session_id", id),
		slog.String("name", name))

	return session, nil
}

// Delete removes a session
func (s *SessionService) Delete(ctx context.Context, id string) error {
	if !s.sessions.Delete(id) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	s.logger.InfoContext(ctx, "session deleted", slog.String("session_id", id))
	return nil
}

// SettingsService manages dashboard display preferences
type SettingsService struct {
	settings *store.SettingsStore
	validate *validator.Validate
	logger   *slog.Logger
}

// NewSettingsService creates a settings service
func NewSettingsService(settings *store.SettingsStore, logger *slog.Logger) *SettingsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsService{
		settings: settings,
		validate: validator.New(),
		logger:   logger.With(slog.String("service", "settings")),
	}
}

// Get returns the current settings, falling back to defaults
func (s *SettingsService) Get(ctx context.Context) domain.Settings {
	return s.settings.Get()
}

// Save validates and persists settings
func (s *SettingsService) Save(ctx context.Context, settings domain.Settings) error {
	if err := s.validate.Struct(settings); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if !s.settings.Save(settings) {
		return fmt.Errorf("%w: saving settings", ErrStorageFailed)
	}

	s.logger.InfoContext(ctx, "settings saved",
		slog.String("default_symbol", settings.DefaultSymbol),
		slog.Int("top_levels", settings.TopLevelsCount))

	return nil
}

// Reset restores the default settings
func (s *SettingsService) Reset(ctx context.Context) domain.Settings {
	s.settings.Reset()
	s.logger.InfoContext(ctx, "settings reset to defaults")
	return domain.DefaultSettings()
}

// WatchlistService manages tracked underlyings
type WatchlistService struct {
	watchlist *store.WatchlistStore
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewWatchlistService creates a watchlist service
func NewWatchlistService(watchlist *store.WatchlistStore, logger *slog.Logger) *WatchlistService {
	if logger == nil {
		logger = slog.Default()
	}
	return &WatchlistService{
		watchlist: watchlist,
		validate:  validator.New(),
		logger:    logger.With(slog.String("service", "watchlist")),
	}
}

// List returns all watchlist items
func (s *WatchlistService) List(ctx context.Context) []domain.WatchlistItem {
	return s.watchlist.List()
}

// Add validates and inserts an item; an existing symbol is replaced
func (s *WatchlistService) Add(ctx context.Context, item domain.WatchlistItem) (domain.WatchlistItem, error) {
	item.Symbol = strings.ToUpper(strings.TrimSpace(item.Symbol))
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now().UTC()
	}

	if err := s.validate.Struct(item); err != nil {
		return domain.WatchlistItem{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if !s.watchlist.Add(item) {
		return domain.WatchlistItem{}, fmt.Errorf("%w: adding %s", ErrStorageFailed, item.Symbol)
	}

	s.logger.InfoContext(ctx, "watchlist item added", slog.String("symbol", item.Symbol))
	return item, nil
}

// Remove deletes an item by symbol
func (s *WatchlistService) Remove(ctx context.Context, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if !s.watchlist.Remove(symbol) {
		return fmt.Errorf("%w: %s", ErrWatchlistItemNotFound, symbol)
	}

	s.logger.InfoContext(ctx, "watchlist item removed", slog.String("symbol", symbol))
	return nil
}
