package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

func TestQueryEngine_Query_RanksMatchingContent(t *testing.T) {
	indexer, engine, _ := setupCore(t)
	ctx := context.Background()

	_, err := indexer.IndexDocument(ctx, "fox",
		"the quick brown fox jumps over the lazy dog")
	require.NoError(t, err)
	_, err = indexer.IndexDocument(ctx, "databases",
		"write ahead logging keeps transactional storage durable")
	require.NoError(t, err)

	matches, err := engine.Query(ctx, "quick brown fox", 5)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "fox", matches[0].SourceID)

	unrelated, err := engine.Query(ctx, "distributed ledger consensus", 5)
	require.NoError(t, err)
	require.NotEmpty(t, unrelated)
	assert.Greater(t, matches[0].Score, unrelated[0].Score,
		"overlapping vocabulary must outscore an unrelated query")
}

func TestQueryEngine_Query_EmptyText(t *testing.T) {
	_, engine, _ := setupCore(t)

	for _, text := range []string{"", "   \t\n "} {
		matches, err := engine.Query(context.Background(), text, 5)
		require.NoError(t, err)
		assert.Empty(t, matches)
	}
}

func TestQueryEngine_Query_InvalidLimit(t *testing.T) {
	_, engine, _ := setupCore(t)

	_, err := engine.Query(context.Background(), "anything", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestQueryEngine_Query_EmptyCorpus(t *testing.T) {
	_, engine, _ := setupCore(t)

	matches, err := engine.Query(context.Background(), "anything at all", 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestQueryEngine_Query_LimitRespected(t *testing.T) {
	indexer, engine, _ := setupCore(t)
	ctx := context.Background()

	docs := map[string]string{
		"a": "alpha beta gamma",
		"b": "alpha beta delta",
		"c": "alpha beta epsilon",
	}
	for id, body := range docs {
		_, err := indexer.IndexDocument(ctx, id, body)
		require.NoError(t, err)
	}

	matches, err := engine.Query(ctx, "alpha beta", 2)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}
