package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
)

// fakeIndexer records IndexDocument calls for assertions.
type fakeIndexer struct {
	mu      sync.Mutex
	indexed map[string]string
}

var _ driving.IndexService = (*fakeIndexer)(nil)

func newFakeIndexer() *fakeIndexer {
	return &fakeIndexer{indexed: make(map[string]string)}
}

func (f *fakeIndexer) IndexDocument(_ context.Context, sourceID, content string) (domain.IndexResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if strings.TrimSpace(content) == "" {
		return domain.IndexResult{}, domain.ErrNoContent
	}
	_, seen := f.indexed[sourceID]
	f.indexed[sourceID] = content
	return domain.IndexResult{Changed: !seen, ChunkCount: 1}, nil
}

func (f *fakeIndexer) DeleteSource(_ context.Context, sourceID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.indexed[sourceID]; !ok {
		return 0, nil
	}
	delete(f.indexed, sourceID)
	return 1, nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNew(t *testing.T) {
	t.Run("resolves root to absolute path", func(t *testing.T) {
		dir := t.TempDir()

		connector, err := New(dir)
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(connector.RootPath()))
	})

	t.Run("rejects missing directory", func(t *testing.T) {
		_, err := New("/non/existent/path")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("rejects a file root", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "file.txt", "content")

		_, err := New(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a directory")
	})
}

func TestConnector_Walk(t *testing.T) {
	collect := func(t *testing.T, c *Connector) []File {
		t.Helper()
		files, errs := c.Walk(context.Background())

		var got []File
		for f := range files {
			got = append(got, f)
		}
		require.NoError(t, <-errs)
		return got
	}

	t.Run("finds text files recursively", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "a.txt", "alpha")
		writeFile(t, dir, "sub/b.md", "bravo")

		connector, err := New(dir)
		require.NoError(t, err)

		got := collect(t, connector)
		assert.Len(t, got, 2)
		for _, f := range got {
			assert.True(t, filepath.IsAbs(f.Path))
			assert.Equal(t, "file://"+f.Path, f.SourceID)
			assert.NotEmpty(t, f.Content)
		}
	})

	t.Run("skips hidden files and directories", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "visible.txt", "visible")
		writeFile(t, dir, ".hidden.txt", "hidden")
		writeFile(t, dir, ".git/config", "repo config")

		connector, err := New(dir)
		require.NoError(t, err)

		got := collect(t, connector)
		require.Len(t, got, 1)
		assert.Contains(t, got[0].Path, "visible.txt")
	})

	t.Run("skips binary content", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "text.txt", "plain text")
		writeFile(t, dir, "image.png", "fake image")
		require.NoError(t, os.WriteFile(filepath.Join(dir, "blob.dat"), []byte{0x00, 0x01, 0x02}, 0644))

		connector, err := New(dir)
		require.NoError(t, err)

		got := collect(t, connector)
		require.Len(t, got, 1)
		assert.Contains(t, got[0].Path, "text.txt")
	})

	t.Run("skips oversized files", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "small.txt", "fits")
		writeFile(t, dir, "large.txt", "this one does not fit")

		connector, err := New(dir, WithMaxFileSize(10))
		require.NoError(t, err)

		got := collect(t, connector)
		require.Len(t, got, 1)
		assert.Contains(t, got[0].Path, "small.txt")
	})

	t.Run("cancelled context closes channels", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "a.txt", "alpha")

		connector, err := New(dir)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		files, errs := connector.Walk(ctx)
		for range files {
		}
		for range errs {
		}
	})
}

func TestConnector_IngestAll(t *testing.T) {
	t.Run("indexes every text file", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "a.txt", "alpha content")
		writeFile(t, dir, "b.txt", "bravo content")
		writeFile(t, dir, "sub/c.txt", "charlie content")

		connector, err := New(dir, WithWorkers(2))
		require.NoError(t, err)

		indexer := newFakeIndexer()
		summary, err := connector.IngestAll(context.Background(), indexer)
		require.NoError(t, err)

		assert.Equal(t, 3, summary.Indexed)
		assert.Zero(t, summary.Failed)
		assert.Len(t, indexer.indexed, 3)
	})

	t.Run("re-ingest counts unchanged", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "a.txt", "alpha content")

		connector, err := New(dir)
		require.NoError(t, err)

		indexer := newFakeIndexer()
		_, err = connector.IngestAll(context.Background(), indexer)
		require.NoError(t, err)

		summary, err := connector.IngestAll(context.Background(), indexer)
		require.NoError(t, err)
		assert.Zero(t, summary.Indexed)
		assert.Equal(t, 1, summary.Unchanged)
	})
}
