// Package config provides centralized configuration management for the GEX
// analytics system. It handles loading configuration from multiple sources,
// validation, and provides a type-safe API for accessing configuration values
// throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration files (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern GEX_* for namespacing:
//
//	GEX_SERVER_PORT=8080
//	GEX_LOGGING_LEVEL=info
//	GEX_ANALYTICS_TOP_LEVELS_COUNT=10
//	GEX_SECURITY_RATE_LIMIT_RPS=100
//
// # Path Management
//
// The package provides centralized path management through the Paths type,
// which handles all file system paths relative to the executable location:
//
//	paths, _ := config.GetPaths()
//	uploadPath := paths.GetUploadPath("chain.csv")
//	exportPath := paths.GetExportPath("gamma_by_strike.csv")
//
// # Validation
//
// All configuration is validated at load time to ensure required fields are
// present, values are within acceptable ranges, and directories can be
// created.
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
