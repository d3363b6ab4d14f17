package driving

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// IndexService ingests documents into the retrieval core.
type IndexService interface {
	// IndexDocument chunks, embeds and stores one document. The store
	// skips the write when the content hash is unchanged; the result
	// reports whether anything changed and how many chunks the
	// document splits into.
	IndexDocument(ctx context.Context, sourceID, content string) (domain.IndexResult, error)

	// DeleteSource removes a document and all its chunks. Returns the
	// number of chunks removed; zero for an unknown source.
	DeleteSource(ctx context.Context, sourceID string) (int, error)
}

// AdminService exposes corpus-wide administrative operations.
type AdminService interface {
	// ListSources returns up to limit indexed sources, most recent first.
	ListSources(ctx context.Context, limit int) ([]domain.SourceInfo, error)

	// Stats returns corpus-wide aggregate counts.
	Stats(ctx context.Context) (domain.Stats, error)

	// PurgeAll removes every document and chunk. The caller gates this
	// behind an explicit confirmation; no confirmation logic lives here.
	PurgeAll(ctx context.Context) error
}
