package services

import (
	"errors"

	apierrors "gexcli/internal/errors"
)

// Chain service errors. The upload sentinels alias the transport-layer
// definitions so errors.Is matching works across layers and the RFC 7807
// mapper sees the same values.
var (
	ErrEmptyUpload       = apierrors.ErrEmptyUpload
	ErrUnsupportedFormat = apierrors.ErrUnsupportedFormat
	ErrNoValidRecords    = apierrors.ErrNoValidRecords
	ErrUploadTooLarge    = errors.New("upload too large")

	// Session errors
	ErrSessionNotFound = apierrors.ErrSessionMissing
	ErrNoSessions      = errors.New("no sessions saved")

	// Watchlist errors
	ErrWatchlistItemNotFound = errors.New("watchlist item not found")

	// WebSocket errors
	ErrWebSocketUpgrade = errors.New("websocket upgrade failed")
	ErrWebSocketClosed  = errors.New("websocket connection closed")

	// General errors
	ErrInvalidInput       = errors.New("invalid input")
	ErrStorageFailed      = errors.New("storage operation failed")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)
