// Package checkpoint provides durable storage for project snapshots.
//
// The Store is pure storage: it captures, lists, loads and deletes
// snapshots keyed by checkpoint id, and contains no merge logic. Listing
// metadata (creation time, label) lives beside the opaque payload so
// enumeration never decodes snapshot bytes.
//
// Storage is pluggable through the Backend capability. The SQLite backend
// is the durable default (WAL mode, single writer); the memory backend
// serves tests and ephemeral sessions.
package checkpoint
