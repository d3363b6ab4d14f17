package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall-cli/internal/adapters/driven/embedding/hashing"
	"github.com/custodia-labs/recall-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/recall-cli/internal/chunker"
	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// setupCore wires the real chunker, hashing embedder and a temp-dir
// sqlite store behind the services under test.
func setupCore(t *testing.T) (*IndexerService, *QueryEngine, *AdminService) {
	t.Helper()

	store, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	c, err := chunker.New(chunker.WithChunkSize(200), chunker.WithOverlap(40))
	require.NoError(t, err)

	embedder, err := hashing.NewEmbeddingService(128)
	require.NoError(t, err)

	return NewIndexerService(c, embedder, store),
		NewQueryEngine(embedder, store),
		NewAdminService(store)
}

func TestIndexerService_IndexDocument_Idempotent(t *testing.T) {
	indexer, _, admin := setupCore(t)
	ctx := context.Background()
	content := strings.Repeat("reliable retrieval needs deterministic indexing. ", 20)

	first, err := indexer.IndexDocument(ctx, "doc-1", content)
	require.NoError(t, err)
	assert.True(t, first.Changed)
	assert.Positive(t, first.ChunkCount)

	second, err := indexer.IndexDocument(ctx, "doc-1", content)
	require.NoError(t, err)
	assert.False(t, second.Changed, "identical content must be skipped")
	assert.Equal(t, first.ChunkCount, second.ChunkCount)

	stats, err := admin.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.DocumentCount)
	assert.Equal(t, first.ChunkCount, stats.ChunkCount)
}

func TestIndexerService_IndexDocument_Replacement(t *testing.T) {
	indexer, _, admin := setupCore(t)
	ctx := context.Background()

	long := strings.Repeat("version one of the document has plenty of text. ", 40)
	short := "version two is a single short paragraph."

	first, err := indexer.IndexDocument(ctx, "doc-1", long)
	require.NoError(t, err)

	second, err := indexer.IndexDocument(ctx, "doc-1", short)
	require.NoError(t, err)
	assert.True(t, second.Changed)
	assert.Less(t, second.ChunkCount, first.ChunkCount)

	// No residue from the longer first version.
	stats, err := admin.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.DocumentCount)
	assert.Equal(t, second.ChunkCount, stats.ChunkCount)
}

func TestIndexerService_IndexDocument_NoIndexableContent(t *testing.T) {
	indexer, _, _ := setupCore(t)
	ctx := context.Background()

	for _, content := range []string{"", "   \n\t\n  "} {
		_, err := indexer.IndexDocument(ctx, "doc-1", content)
		assert.ErrorIs(t, err, domain.ErrNoContent)
	}
}

func TestIndexerService_IndexDocument_MissingSourceID(t *testing.T) {
	indexer, _, _ := setupCore(t)

	_, err := indexer.IndexDocument(context.Background(), "", "some content")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIndexerService_DeleteSource(t *testing.T) {
	indexer, _, admin := setupCore(t)
	ctx := context.Background()

	result, err := indexer.IndexDocument(ctx, "doc-1", "a document worth deleting later")
	require.NoError(t, err)

	deleted, err := indexer.DeleteSource(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, result.ChunkCount, deleted)

	sources, err := admin.ListSources(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, sources)

	// Deleting again is a zero-count result, not an error.
	deleted, err = indexer.DeleteSource(ctx, "doc-1")
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestAdminService_PurgeAll(t *testing.T) {
	indexer, _, admin := setupCore(t)
	ctx := context.Background()

	_, err := indexer.IndexDocument(ctx, "doc-1", "first document body")
	require.NoError(t, err)
	_, err = indexer.IndexDocument(ctx, "doc-2", "second document body")
	require.NoError(t, err)

	require.NoError(t, admin.PurgeAll(ctx))

	stats, err := admin.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.DocumentCount)
	assert.Zero(t, stats.ChunkCount)
}
