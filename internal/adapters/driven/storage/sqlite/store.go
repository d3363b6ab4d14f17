package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/recall-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ChunkStore = (*Store)(nil)

// Store is the SQLite-backed chunk store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.recall/data/corpus.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".recall", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "corpus.db")

	// WAL mode for read concurrency; immediate transactions so two
	// replace-on-upsert writers for the same source serialise instead
	// of failing on lock upgrade.
	db, err := sql.Open("sqlite",
		dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Chunk Store ====================

// Upsert replaces the full chunk set for sourceID when contentHash
// differs from the stored hash. The delete-and-insert runs in one
// transaction so a concurrent reader sees either the fully-old or the
// fully-new chunk set. When the hash matches, nothing is written.
func (s *Store) Upsert(
	ctx context.Context, sourceID, contentHash string, chunks []domain.Chunk,
) (bool, error) {
	if sourceID == "" {
		return false, fmt.Errorf("%w: source id is required", domain.ErrInvalidInput)
	}
	if contentHash == "" {
		return false, fmt.Errorf("%w: content hash is required", domain.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, storageErr("beginning transaction", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var stored string
	err = tx.QueryRowContext(ctx,
		"SELECT content_hash FROM documents WHERE source_id = ?", sourceID).Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// New source
	case err != nil:
		return false, storageErr("looking up content hash", err)
	case stored == contentHash:
		// Unchanged; the deferred rollback releases the write lock.
		return false, nil
	}

	now := time.Now().UTC()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (source_id, content_hash, chunk_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(source_id) DO UPDATE SET
			content_hash = excluded.content_hash,
			chunk_count = excluded.chunk_count,
			updated_at = excluded.updated_at
	`, sourceID, contentHash, len(chunks), now, now)
	if err != nil {
		return false, storageErr("saving document", err)
	}

	// Replace, not per-row upsert: chunk counts change between
	// versions and stale trailing chunks must not survive.
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM chunks WHERE source_id = ?", sourceID); err != nil {
		return false, storageErr("clearing old chunks", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, source_id, chunk_index, content, token_count, embedding, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return false, storageErr("preparing chunk insert", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		embeddingBlob := float32SliceToBytes(chunk.Vector)
		if _, err := stmt.ExecContext(ctx, chunk.ID, sourceID, chunk.Index,
			chunk.Text, chunk.TokenCount, embeddingBlob, now); err != nil {
			return false, storageErr("saving chunk", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, storageErr("committing transaction", err)
	}
	return true, nil
}

// GetDocument returns the stored record for sourceID.
func (s *Store) GetDocument(ctx context.Context, sourceID string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT source_id, content_hash, chunk_count, created_at, updated_at
		FROM documents WHERE source_id = ?
	`, sourceID)

	var doc domain.Document
	var createdAt, updatedAt sql.NullTime
	err := row.Scan(&doc.SourceID, &doc.ContentHash, &doc.ChunkCount, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("scanning document", err)
	}

	if createdAt.Valid {
		doc.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		doc.UpdatedAt = updatedAt.Time
	}
	return &doc, nil
}

// Delete removes the document and all its chunks atomically.
// Returns the number of chunk rows removed; zero for an unknown source.
func (s *Store) Delete(ctx context.Context, sourceID string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storageErr("beginning transaction", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE source_id = ?", sourceID)
	if err != nil {
		return 0, storageErr("deleting chunks", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr("counting deleted chunks", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM documents WHERE source_id = ?", sourceID); err != nil {
		return 0, storageErr("deleting document", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, storageErr("committing transaction", err)
	}
	return int(deleted), nil
}

// PurgeAll removes every document and chunk.
func (s *Store) PurgeAll(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("beginning transaction", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return storageErr("purging chunks", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return storageErr("purging documents", err)
	}

	if err := tx.Commit(); err != nil {
		return storageErr("committing transaction", err)
	}
	return nil
}

// Query returns the top-limit chunks by cosine similarity to vector.
//
// Stored vectors are unit-normalised, so cosine similarity reduces to
// the inner product. The scan walks chunks in insertion (rowid) order
// and sorts with a stable sort, so equal scores keep insertion order
// and identical inputs always rank identically.
func (s *Store) Query(
	ctx context.Context, vector []float32, limit int,
) ([]domain.QueryMatch, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be at least 1, got %d", domain.ErrInvalidInput, limit)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT source_id, chunk_index, content, embedding
		FROM chunks ORDER BY rowid
	`)
	if err != nil {
		return nil, storageErr("querying chunks", err)
	}
	defer rows.Close()

	matches := make([]domain.QueryMatch, 0, limit)
	for rows.Next() {
		var match domain.QueryMatch
		var embeddingBlob []byte
		if err := rows.Scan(&match.SourceID, &match.ChunkIndex,
			&match.Text, &embeddingBlob); err != nil {
			return nil, storageErr("scanning chunk", err)
		}

		match.Score = dotProduct(vector, bytesToFloat32Slice(embeddingBlob))
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating chunks", err)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// ListSources returns up to limit sources, most recently indexed first.
// A non-positive limit returns all sources.
func (s *Store) ListSources(ctx context.Context, limit int) ([]domain.SourceInfo, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT source_id, chunk_count, updated_at
		FROM documents
		ORDER BY updated_at DESC, source_id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, storageErr("querying sources", err)
	}
	defer rows.Close()

	var sources []domain.SourceInfo //nolint:prealloc // size unknown from query
	for rows.Next() {
		var info domain.SourceInfo
		var indexedAt sql.NullTime
		if err := rows.Scan(&info.SourceID, &info.ChunkCount, &indexedAt); err != nil {
			return nil, storageErr("scanning source", err)
		}
		if indexedAt.Valid {
			info.IndexedAt = indexedAt.Time
		}
		sources = append(sources, info)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating sources", err)
	}

	return sources, nil
}

// Stats returns corpus-wide aggregate counts from committed state.
func (s *Store) Stats(ctx context.Context) (domain.Stats, error) {
	var stats domain.Stats

	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents").Scan(&stats.DocumentCount)
	if err != nil {
		return domain.Stats{}, storageErr("counting documents", err)
	}

	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(token_count), 0) FROM chunks").
		Scan(&stats.ChunkCount, &stats.TotalTokens)
	if err != nil {
		return domain.Stats{}, storageErr("counting chunks", err)
	}

	return stats, nil
}

// ==================== Helper Functions ====================

// storageErr tags an infrastructure failure with domain.ErrStorage so
// callers can tell "the system is unavailable" from "your input was wrong".
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorage, err)
}

// dotProduct computes the inner product of two vectors.
// Mismatched lengths score zero; the store does not reconcile
// mismatched dimensions.
func dotProduct(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
