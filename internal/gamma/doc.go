// Package gamma aggregates canonical option records into gamma-exposure
// analytics: per-strike and per-expiry buckets, the gamma flip level, ranked
// key levels, an exposure curve across spot prices, and the dashboard
// summary snapshot.
//
// Exposure for one contract is gamma × open interest × 100 (the fixed
// contract multiplier). Call legs add exposure, put legs subtract it, so a
// bucket's net gamma is a true signed sum while its total gamma never
// cancels.
//
// Every function here is a pure transform over its input: buckets are
// recomputed from scratch on each call and nothing is persisted or updated
// incrementally, which keeps the math trivially testable and makes
// concurrent invocation safe by construction. The only wall-clock dependence
// is days-to-expiry, which is clamped to zero for past dates.
package gamma
