// Package http implements the HTTP request handlers for the gamma exposure
// service. It is a thin layer between chi routing and the service layer:
// handlers parse and validate requests, call into internal/services, and
// translate service errors into RFC 7807 problem responses.
//
// Each resource gets its own handler type with a Routes() method returning a
// chi.Router, mounted by the application under /api:
//
//	ChainHandler     /api/chain       upload, analytics reads, CSV exports
//	SessionHandler   /api/sessions    saved session CRUD
//	SettingsHandler  /api/settings    dashboard preferences
//	WatchlistHandler /api/watchlist   tracked underlyings
//	HealthHandler    /api/healthz     liveness and readiness
//
// Handlers never touch the store or parsers directly and hold no state beyond
// their service references.
package http
