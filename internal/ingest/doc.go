// Package ingest turns raw option-chain exports into canonical option
// records. It recognizes two incompatible source shapes and reconciles both
// into the same strict record type:
//
//  1. Generic tabular CSV: one header row, one contract per row. Headers are
//     auto-mapped to the canonical field set through synonym tables, so
//     arbitrarily named broker exports resolve without configuration.
//  2. Sectioned broker exports (ThinkOrSwim / StockAnalysis style): repeated
//     expiry sections with call and put legs encoded side by side on each row
//     at fixed column offsets.
//
// XLSX workbooks are supported by flattening the first sheet that resolves
// the required canonical columns into the generic row pipeline.
//
// # Failure policy
//
// Parsing never panics past its boundary. Coercion utilities are "soft": they
// return a best-effort value and default to zero on any failure. Structural
// problems (no data rows, unresolved required columns, a sectioned document
// with zero extractable legs) fail the whole call with explicit errors in
// ParseResult.Errors. Row-level defects degrade to defaults with a warning,
// except rows whose strike or open interest coerce to zero, which are dropped
// silently and only show up in the row counts.
package ingest
