package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// Ensure QueryEngine implements the interface.
var _ driving.QueryService = (*QueryEngine)(nil)

// QueryEngine answers free-text queries by embedding the query with the
// same generator used at index time and ranking stored chunks by
// similarity. It is read-only and runs with unlimited concurrency.
type QueryEngine struct {
	embeddingService driven.EmbeddingService
	chunkStore       driven.ChunkStore
}

// NewQueryEngine creates a new query engine.
func NewQueryEngine(
	embeddingService driven.EmbeddingService,
	chunkStore driven.ChunkStore,
) *QueryEngine {
	return &QueryEngine{
		embeddingService: embeddingService,
		chunkStore:       chunkStore,
	}
}

// Query returns the top-limit most similar chunks for text, best first.
func (s *QueryEngine) Query(
	ctx context.Context, text string, limit int,
) ([]domain.QueryMatch, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be at least 1, got %d", domain.ErrInvalidInput, limit)
	}

	// An empty query matches nothing; skip the round trips.
	if strings.TrimSpace(text) == "" {
		return []domain.QueryMatch{}, nil
	}

	logger.Section("Query Execution")
	logger.Debug("Query: %q, limit: %d", text, limit)

	vector, err := s.embeddingService.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	logger.Debug("Query embedding: %d dimensions", len(vector))

	matches, err := s.chunkStore.Query(ctx, vector, limit)
	if err != nil {
		return nil, fmt.Errorf("similarity query: %w", err)
	}

	logger.Info("Query results: %d", len(matches))
	return matches, nil
}
