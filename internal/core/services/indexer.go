package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/custodia-labs/recall-cli/internal/chunker"
	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// Ensure IndexerService implements the interface.
var _ driving.IndexService = (*IndexerService)(nil)

// IndexerService orchestrates chunking, embedding and storage for one
// document at a time. It is stateless per call: concurrent indexing of
// different sources needs no locking here, and concurrent indexing of
// the same source serialises inside the chunk store.
type IndexerService struct {
	chunker          *chunker.Chunker
	embeddingService driven.EmbeddingService
	chunkStore       driven.ChunkStore
}

// NewIndexerService creates a new indexer service.
func NewIndexerService(
	c *chunker.Chunker,
	embeddingService driven.EmbeddingService,
	chunkStore driven.ChunkStore,
) *IndexerService {
	return &IndexerService{
		chunker:          c,
		embeddingService: embeddingService,
		chunkStore:       chunkStore,
	}
}

// IndexDocument hashes, chunks, embeds and stores one document.
//
// The content hash is computed over the raw, unmodified bytes, before
// any newline normalisation or windowing. A stored record with the same
// hash short-circuits before the chunking and embedding work; the store
// performs the same check again inside its transaction, so the
// pre-check is an optimisation, never a correctness requirement.
func (s *IndexerService) IndexDocument(
	ctx context.Context, sourceID, content string,
) (domain.IndexResult, error) {
	if sourceID == "" {
		return domain.IndexResult{}, fmt.Errorf("%w: source id is required", domain.ErrInvalidInput)
	}

	sum := sha256.Sum256([]byte(content))
	contentHash := hex.EncodeToString(sum[:])

	existing, err := s.chunkStore.GetDocument(ctx, sourceID)
	switch {
	case err == nil && existing.ContentHash == contentHash:
		logger.Debug("Unchanged content for %s, skipping", sourceID)
		return domain.IndexResult{Changed: false, ChunkCount: existing.ChunkCount}, nil
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return domain.IndexResult{}, fmt.Errorf("check existing document: %w", err)
	}

	chunks := s.chunker.Chunk(content)
	if len(chunks) == 0 {
		return domain.IndexResult{}, fmt.Errorf("%w: %s", domain.ErrNoContent, sourceID)
	}
	logger.Debug("Chunked %s into %d windows", sourceID, len(chunks))

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}

	vectors, err := s.embeddingService.EmbedBatch(ctx, texts)
	if err != nil {
		return domain.IndexResult{}, fmt.Errorf("embed chunks: %w", err)
	}

	for i := range chunks {
		chunks[i].SourceID = sourceID
		chunks[i].Vector = vectors[i]
	}

	changed, err := s.chunkStore.Upsert(ctx, sourceID, contentHash, chunks)
	if err != nil {
		return domain.IndexResult{}, fmt.Errorf("upsert chunks: %w", err)
	}

	if changed {
		logger.Info("Indexed %s: %d chunks", sourceID, len(chunks))
	}
	return domain.IndexResult{Changed: changed, ChunkCount: len(chunks)}, nil
}

// DeleteSource removes a document and all its chunks.
func (s *IndexerService) DeleteSource(ctx context.Context, sourceID string) (int, error) {
	if sourceID == "" {
		return 0, fmt.Errorf("%w: source id is required", domain.ErrInvalidInput)
	}

	deleted, err := s.chunkStore.Delete(ctx, sourceID)
	if err != nil {
		return 0, fmt.Errorf("delete source: %w", err)
	}

	logger.Debug("Deleted %s: %d chunks removed", sourceID, deleted)
	return deleted, nil
}
