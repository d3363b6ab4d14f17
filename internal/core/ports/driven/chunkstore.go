package driven

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// ChunkStore persists, per source, a content hash and the ordered chunk
// set, and answers top-K similarity queries over the whole corpus.
// Backed by SQLite.
//
// The store exclusively owns Document and Chunk lifetimes. A replace is
// all-or-nothing: a concurrent reader sees either the fully-old or the
// fully-new chunk set for a source, never a mix.
type ChunkStore interface {
	// Upsert replaces the chunk set for sourceID when contentHash
	// differs from the stored hash, in one atomic unit of work.
	// When the hash matches it performs no writes and reports false.
	// The skip decision belongs to the store, not the caller.
	Upsert(ctx context.Context, sourceID, contentHash string, chunks []domain.Chunk) (changed bool, err error)

	// GetDocument returns the stored record for sourceID, including
	// its content hash and chunk count. Returns domain.ErrNotFound for
	// an untracked source. Callers may use this as a cheap pre-check
	// to skip chunking and embedding; correctness never depends on it.
	GetDocument(ctx context.Context, sourceID string) (*domain.Document, error)

	// Delete removes the document and all its chunks atomically.
	// Deleting an unknown source returns zero, not an error.
	Delete(ctx context.Context, sourceID string) (deleted int, err error)

	// PurgeAll removes every document and chunk. Irreversible; callers
	// gate it behind an explicit confirmation at their own boundary.
	PurgeAll(ctx context.Context) error

	// Query returns at most limit chunks ordered by descending cosine
	// similarity to vector. Ties keep insertion order so identical
	// inputs rank identically. An empty corpus yields an empty slice.
	Query(ctx context.Context, vector []float32, limit int) ([]domain.QueryMatch, error)

	// ListSources returns up to limit sources, most recently indexed
	// first, reflecting the latest committed state.
	ListSources(ctx context.Context, limit int) ([]domain.SourceInfo, error)

	// Stats returns corpus-wide aggregate counts.
	Stats(ctx context.Context) (domain.Stats, error)

	// Close releases resources.
	Close() error
}
