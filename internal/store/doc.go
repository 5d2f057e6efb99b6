// Package store provides the SQLite-backed key-value storage that holds all
// friendbook state.
//
// Only two keys are used:
//   - "users": the JSON-encoded user collection
//   - "loggedInUser": the username of the current session, absent when
//     logged out
//
// # Write Semantics
//
// Every write replaces the whole value of a key. There are no partial
// updates and no multi-key transactions; a paired graph mutation is two
// independent full replacements of the "users" value.
//
// # Read Semantics
//
// A missing or undecodable "users" value reads as an empty collection. The
// decode failure is logged, not returned.
//
// # Database Configuration
//
//   - WAL mode
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - single connection (one writer, and ":memory:" databases stay shared)
//
// Driver failures are returned as *domain.StorageError.
package store
