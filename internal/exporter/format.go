package exporter

import (
	"fmt"
	"math"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	// Always format with exactly 2 decimal places for consistency
	// This ensures values like 13.4 appear as 13.40 in CSV
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return fmt.Sprintf("%d", i)
}

// formatCompact formats a large exposure value with a K/M/B suffix for
// human-readable columns. Values below a thousand fall back to two decimals.
func formatCompact(f float64) string {
	abs := math.Abs(f)
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("%.2fB", f/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.2fM", f/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%.2fK", f/1e3)
	default:
		return fmt.Sprintf("%.2f", f)
	}
}
