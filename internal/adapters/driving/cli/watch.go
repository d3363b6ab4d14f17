package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall-cli/internal/connectors/filesystem"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and keep it indexed",
	Long: `Performs a full ingest of the directory, then watches it for changes.
Created and modified files are re-indexed; removed files are deleted
from the store. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	connector, err := filesystem.New(args[0])
	if err != nil {
		return err
	}

	summary, err := connector.IngestAll(cmd.Context(), indexService)
	if err != nil {
		return fmt.Errorf("initial ingest failed: %w", err)
	}
	cmd.Printf("Initial ingest: %d indexed, %d unchanged, %d skipped, %d failed\n",
		summary.Indexed, summary.Unchanged, summary.Skipped, summary.Failed)

	watcher, err := filesystem.NewWatcher(connector, indexService)
	if err != nil {
		return err
	}
	defer watcher.Close()

	cmd.Printf("Watching %s (ctrl-c to stop)\n", connector.RootPath())
	if err := watcher.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
