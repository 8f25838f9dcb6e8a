// Package files provides file management and discovery operations for
// uploaded chain exports and generated analytics files.
//
// The Manager type handles basic file operations (copy, move, delete, read,
// write) with path resolution relative to the application's data directories.
// Relative paths are routed by prefix: "uploads/" resolves into the uploads
// directory, "exports/" into the exports directory, and so on.
//
// The Discovery type locates chain export files (CSV and XLSX) on disk,
// supporting glob patterns and modification-time ordering.
package files
