package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall-cli/internal/connectors/filesystem"
	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

var indexWorkers int

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index a file or directory",
	Long: `Indexes a text file, or every text file under a directory, into the
local chunk store. Each file is stored under the source identifier
file://<absolute path>. Re-indexing unchanged content is a no-op
thanks to content-hash comparison.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().IntVar(&indexWorkers, "workers", filesystem.DefaultWorkers, "ingest worker pool size")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	path, err := filesystem.ExpandPath(args[0])
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot index %s: %w", path, err)
	}

	if info.IsDir() {
		return indexDirectory(cmd, path)
	}
	return indexFile(cmd, path)
}

func indexDirectory(cmd *cobra.Command, path string) error {
	connector, err := filesystem.New(path, filesystem.WithWorkers(indexWorkers))
	if err != nil {
		return err
	}

	summary, err := connector.IngestAll(cmd.Context(), indexService)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Indexed %d, unchanged %d, skipped %d, failed %d\n",
		summary.Indexed, summary.Unchanged, summary.Skipped, summary.Failed)
	if summary.Failed > 0 {
		return fmt.Errorf("%d file(s) failed to index", summary.Failed)
	}
	return nil
}

func indexFile(cmd *cobra.Command, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}

	sourceID := filesystem.SourceIDFor(path)
	result, err := indexService.IndexDocument(cmd.Context(), sourceID, string(content))
	if err != nil {
		if errors.Is(err, domain.ErrNoContent) {
			return fmt.Errorf("%s has no indexable content", path)
		}
		return fmt.Errorf("index failed: %w", err)
	}

	if result.Changed {
		cmd.Printf("Indexed %s (%d chunks)\n", sourceID, result.ChunkCount)
	} else {
		cmd.Printf("Unchanged %s (%d chunks)\n", sourceID, result.ChunkCount)
	}
	return nil
}
