// Package sqlite provides the SQLite-backed implementation of the
// ChunkStore driven port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. It persists one row per
// tracked document (source id, content hash, timestamps) and one row per
// chunk (ordered text, token estimate, embedding BLOB), and answers top-K
// similarity queries with an exact scan over the stored vectors.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory as .up.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.recall/data/corpus.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode: replace-on-upsert runs inside a single
// immediate transaction, so concurrent writers to the same source serialise
// and readers never observe a half-replaced chunk set.
package sqlite
