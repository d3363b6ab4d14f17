package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	req := &mcp.ReadResourceRequest{}
	req.Params = &mcp.ReadResourceParams{URI: uri}
	return req
}

func TestServer_handleSourcesResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns sources as JSON", func(t *testing.T) {
		mockAdmin := &mockAdminService{
			sources: []domain.SourceInfo{
				{SourceID: "doc-1", ChunkCount: 3, IndexedAt: time.Now().UTC()},
			},
		}
		server := newTestServer(t, &Ports{
			Query: &mockQueryService{},
			Index: &mockIndexService{},
			Admin: mockAdmin,
		})

		result, err := server.handleSourcesResource(ctx, readRequest(uriScheme+"sources"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, "doc-1")
	})

	t.Run("missing admin returns empty list", func(t *testing.T) {
		server := newTestServer(t, &Ports{Query: &mockQueryService{}, Index: &mockIndexService{}})

		result, err := server.handleSourcesResource(ctx, readRequest(uriScheme+"sources"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})
}

func TestServer_handleStatsResource(t *testing.T) {
	ctx := context.Background()

	mockAdmin := &mockAdminService{
		stats: domain.Stats{DocumentCount: 1, ChunkCount: 4, TotalTokens: 99},
	}
	server := newTestServer(t, &Ports{
		Query: &mockQueryService{},
		Index: &mockIndexService{},
		Admin: mockAdmin,
	})

	result, err := server.handleStatsResource(ctx, readRequest(uriScheme+"stats"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Contains(t, result.Contents[0].Text, "\"chunk_count\": 4")
}
