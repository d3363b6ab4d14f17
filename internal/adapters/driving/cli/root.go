// Package cli implements the recall command-line interface.
// Commands are thin consumers of the driving ports; all retrieval
// logic lives in the core services.
package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/recall-cli/internal/adapters/driven/embedding/hashing"
	"github.com/custodia-labs/recall-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/recall-cli/internal/chunker"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
	"github.com/custodia-labs/recall-cli/internal/core/services"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services wired by main (or by tests via setupTestServices).
var (
	indexService driving.IndexService
	queryService driving.QueryService
	adminService driving.AdminService
	configStore  driven.ConfigStore

	storeCloser io.Closer
)

var (
	flagVerbose bool
	flagDataDir string
)

var rootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Local chunk store and retrieval engine",
	Long: `Recall indexes documents into a local content-addressable chunk store
and retrieves the most relevant chunks for a query.

Documents are split into overlapping windows, embedded with a
deterministic hashing embedder and stored in SQLite. Queries rank
chunks by cosine similarity. Everything runs locally; no network
services are involved.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		if indexService != nil {
			return nil
		}
		return wireServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "chunk store directory (default ~/.recall/data)")
}

// wireServices builds the full adapter stack from configuration.
// Flags take precedence over config.toml, which takes precedence over
// compiled defaults.
func wireServices() error {
	cfg, err := file.NewConfigStore("")
	if err != nil {
		return err
	}

	c, err := chunker.New(chunkerOptions(cfg)...)
	if err != nil {
		return err
	}

	embedder, err := hashing.NewEmbeddingService(cfg.GetInt("embedding_dimensions"))
	if err != nil {
		return err
	}

	dataDir := flagDataDir
	if dataDir == "" {
		dataDir = cfg.GetString("data_dir")
	}
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return err
	}

	indexService = services.NewIndexerService(c, embedder, store)
	queryService = services.NewQueryEngine(embedder, store)
	adminService = services.NewAdminService(store)
	configStore = cfg
	storeCloser = store
	return nil
}

// chunkerOptions derives chunker options from configuration. An overlap
// of 0 is a valid setting, so key presence decides whether the
// configured value overrides the default, not the value itself.
func chunkerOptions(cfg driven.ConfigStore) []chunker.Option {
	var opts []chunker.Option
	if size := cfg.GetInt("chunk_size"); size > 0 {
		opts = append(opts, chunker.WithChunkSize(size))
	}
	if _, ok := cfg.Get("chunk_overlap"); ok {
		opts = append(opts, chunker.WithOverlap(cfg.GetInt("chunk_overlap")))
	}
	return opts
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command and releases the store afterwards.
func Execute() error {
	defer func() {
		if storeCloser != nil {
			_ = storeCloser.Close()
		}
	}()
	return rootCmd.Execute()
}
