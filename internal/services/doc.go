// Package services implements the business logic layer between HTTP handlers
// and the ingestion, analytics, and persistence packages.
//
// # Architecture
//
// Services follow these architectural principles:
//
//	1. Interface-driven design for testability
//	2. Context propagation for cancellation and tracing
//	3. Dependency injection for loose coupling
//	4. Domain-focused methods that encapsulate business rules
//
// # Available Services
//
//	- ChainService: uploads, parses, and analyzes option chain files
//	- SessionService: saved analysis session management
//	- SettingsService: dashboard preference persistence
//	- WatchlistService: tracked underlying management
//	- HealthService: system health checks
//
// # Error Handling
//
// Services return the sentinel errors declared in errors.go; handlers map
// them to RFC 7807 problem responses.
package services
