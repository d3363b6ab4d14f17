package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [source-id]",
	Short: "Delete a source and all its chunks",
	Long: `Removes one source and every chunk indexed under it. Deleting an
unknown source is not an error and reports zero chunks removed.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	deleted, err := indexService.DeleteSource(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	cmd.Printf("Deleted %d chunk(s) from %s\n", deleted, args[0])
	return nil
}
