package config

import "time"

// Application constants - all hardcoded values for the GEX analytics system
const (
	// Application Info
	AppName    = "GEX Pulse"
	AppVersion = "1.0.0"

	// Rate Limiting
	DefaultRateLimit = 100 // requests per minute
	DefaultBurstSize = 50

	// Network Timeouts
	DefaultHTTPTimeout  = 30 * time.Second
	WebSocketPingPeriod = 30 * time.Second
	WebSocketPongWait   = 60 * time.Second

	// File Paths (relative to executable)
	DefaultDataDir    = "data"
	DefaultLogsDir    = "logs"
	DefaultWebDir     = "web"
	DefaultUploadsDir = "data/uploads"
	DefaultExportsDir = "data/exports"

	// Upload limits
	DefaultMaxUploadBytes = 20 * 1024 * 1024 // 20MB

	// WebSocket Buffer Sizes
	WebSocketReadBufferSize  = 1024
	WebSocketWriteBufferSize = 1024

	// Log Settings
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "json"
	MaxLogFileSize    = 100 * 1024 * 1024 // 100MB
	MaxLogFileAge     = 30                // days
	MaxLogFileBackups = 10

	// Analytics defaults
	DefaultUnderlying        = "SPX"
	DefaultTopLevelsCount    = 10
	DefaultCurveRangePercent = 10.0
	DefaultCurveSteps        = 60
	DefaultRefreshInterval   = 60 * time.Second
)

// URLs and Endpoints
const (
	// API Endpoints (internal)
	APIBasePath       = "/api"
	ChainEndpoint     = "/api/chain"
	GammaEndpoint     = "/api/gamma"
	SessionsEndpoint  = "/api/sessions"
	SettingsEndpoint  = "/api/settings"
	WatchlistEndpoint = "/api/watchlist"
	HealthEndpoint    = "/api/health"
	MetricsEndpoint   = "/metrics"

	// WebSocket Endpoints
	WebSocketEndpoint = "/ws"
)
