package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// purgeToken is the confirmation value required to wipe the corpus.
// The core services perform no confirmation logic; the gate lives here.
const purgeToken = "purge-everything"

var purgeConfirm string

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove every document and chunk",
	Long: fmt.Sprintf(`Irreversibly removes every document and chunk from the store.

Requires explicit confirmation:

  recall purge --confirm %s`, purgeToken),
	Args: cobra.NoArgs,
	RunE: runPurge,
}

func init() {
	purgeCmd.Flags().StringVar(&purgeConfirm, "confirm", "", fmt.Sprintf("confirmation token (%q)", purgeToken))
	rootCmd.AddCommand(purgeCmd)
}

func runPurge(cmd *cobra.Command, _ []string) error {
	if adminService == nil {
		return errors.New("admin service not configured")
	}

	if purgeConfirm != purgeToken {
		return fmt.Errorf("refusing to purge: pass --confirm %s", purgeToken)
	}

	if err := adminService.PurgeAll(cmd.Context()); err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}

	cmd.Println("Store purged.")
	return nil
}
