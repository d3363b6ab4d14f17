package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall-cli/internal/adapters/driven/embedding/hashing"
	"github.com/custodia-labs/recall-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/recall-cli/internal/chunker"
	"github.com/custodia-labs/recall-cli/internal/core/services"
)

// setupTestServices wires the commands to real services backed by a
// temp-dir store. The returned cleanup restores the previous wiring.
func setupTestServices(t *testing.T) func() {
	t.Helper()

	store, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)

	c, err := chunker.New(chunker.WithChunkSize(200), chunker.WithOverlap(40))
	require.NoError(t, err)

	embedder, err := hashing.NewEmbeddingService(64)
	require.NoError(t, err)

	oldIndex, oldQuery, oldAdmin := indexService, queryService, adminService
	indexService = services.NewIndexerService(c, embedder, store)
	queryService = services.NewQueryEngine(embedder, store)
	adminService = services.NewAdminService(store)

	return func() {
		indexService, queryService, adminService = oldIndex, oldQuery, oldAdmin
		_ = store.Close()
	}
}

// executeCommand runs the root command with args and captures output.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
