package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// Ensure AdminService implements the interface.
var _ driving.AdminService = (*AdminService)(nil)

// AdminService exposes read-only aggregates and the purge operation.
type AdminService struct {
	chunkStore driven.ChunkStore
}

// NewAdminService creates a new admin service.
func NewAdminService(chunkStore driven.ChunkStore) *AdminService {
	return &AdminService{chunkStore: chunkStore}
}

// ListSources returns up to limit indexed sources, most recent first.
func (s *AdminService) ListSources(ctx context.Context, limit int) ([]domain.SourceInfo, error) {
	sources, err := s.chunkStore.ListSources(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	return sources, nil
}

// Stats returns corpus-wide aggregate counts.
func (s *AdminService) Stats(ctx context.Context) (domain.Stats, error) {
	stats, err := s.chunkStore.Stats(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("stats: %w", err)
	}
	return stats, nil
}

// PurgeAll removes every document and chunk. Confirmation is the
// caller's responsibility; none happens here.
func (s *AdminService) PurgeAll(ctx context.Context) error {
	if err := s.chunkStore.PurgeAll(ctx); err != nil {
		return fmt.Errorf("purge: %w", err)
	}
	logger.Info("Purged all documents and chunks")
	return nil
}
