// Package app provides application initialization and lifecycle management
// for the gamma exposure server. It wires configuration, logging,
// observability, the persistence store, the websocket hub, and the HTTP
// router together at startup and handles graceful shutdown.
//
// # Initialization Flow
//
//	1. Load configuration from environment and files
//	2. Initialize logging and observability
//	3. Open the JSON store and create the session/settings/watchlist stores
//	4. Initialize services with their dependencies
//	5. Set up HTTP handlers and middleware
//	6. Configure and start the HTTP server
//
// # Graceful Shutdown
//
// The package handles SIGINT and SIGTERM so that active requests complete,
// websocket connections close cleanly, and telemetry is flushed. All
// initialization errors are returned to the caller; the package never calls
// os.Exit() directly.
package app
