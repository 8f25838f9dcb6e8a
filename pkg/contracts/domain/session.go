package domain

import "time"

// Session is one saved chain upload, persisted through the key-value store so
// the dashboard can reload previous analyses without re-uploading the file.
type Session struct {
	ID              string         `json:"id" validate:"required"`
	Name            string         `json:"name" validate:"required,max=120"`
	Symbol          string         `json:"symbol"`
	UploadedAt      time.Time      `json:"uploaded_at"`
	OptionCount     int            `json:"option_count"`
	UnderlyingPrice float64        `json:"underlying_price"`
	Records         []OptionRecord `json:"records"`
}

// Settings holds dashboard display preferences
type Settings struct {
	DefaultSymbol   string `json:"default_symbol" validate:"required,max=12"`
	TopLevelsCount  int    `json:"top_levels_count" validate:"min=1,max=50"`
	AutoRefresh     bool   `json:"auto_refresh"`
	RefreshInterval int    `json:"refresh_interval" validate:"min=5,max=3600"`
	ShowVolume      bool   `json:"show_volume"`
	ShowOpenInterest bool  `json:"show_open_interest"`
}

// DefaultSettings returns the settings applied before a user saves any
func DefaultSettings() Settings {
	return Settings{
		DefaultSymbol:    "SPX",
		TopLevelsCount:   10,
		AutoRefresh:      false,
		RefreshInterval:  60,
		ShowVolume:       true,
		ShowOpenInterest: true,
	}
}

// WatchlistItem is one tracked underlying on the watchlist page
type WatchlistItem struct {
	Symbol     string    `json:"symbol" validate:"required,max=12"`
	Name       string    `json:"name,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	AlertPrice float64   `json:"alert_price,omitempty"`
	AddedAt    time.Time `json:"added_at"`
}
