// Package exporter provides CSV export functionality for gamma exposure
// analytics.
//
// This package contains two main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// streaming, and UTF-8 BOM for Excel compatibility.
//
// GammaExporter: Generates analytics CSV files for strike and expiry gamma
// aggregates, key levels, dashboard summaries, exposure curves, and the
// normalized option chain itself.
//
// Example usage:
//
//	exp := exporter.NewGammaExporter(paths)
//
//	// Export per-strike aggregates
//	err := exp.ExportStrikeBuckets(buckets, "gamma_by_strike.csv")
//
//	// Export classified key levels
//	err = exp.ExportKeyLevels(levels, "key_levels.csv")
package exporter
