package mcp

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	matches   []domain.QueryMatch
	err       error
	lastLimit int
}

func (m *mockQueryService) Query(_ context.Context, _ string, limit int) ([]domain.QueryMatch, error) {
	m.lastLimit = limit
	return m.matches, m.err
}

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	result  domain.IndexResult
	deleted int
	err     error
}

func (m *mockIndexService) IndexDocument(_ context.Context, _, _ string) (domain.IndexResult, error) {
	return m.result, m.err
}

func (m *mockIndexService) DeleteSource(_ context.Context, _ string) (int, error) {
	return m.deleted, m.err
}

// mockAdminService is a mock implementation of driving.AdminService.
type mockAdminService struct {
	sources []domain.SourceInfo
	stats   domain.Stats
	err     error
}

func (m *mockAdminService) ListSources(_ context.Context, _ int) ([]domain.SourceInfo, error) {
	return m.sources, m.err
}

func (m *mockAdminService) Stats(_ context.Context) (domain.Stats, error) {
	return m.stats, m.err
}

func (m *mockAdminService) PurgeAll(_ context.Context) error {
	return m.err
}
