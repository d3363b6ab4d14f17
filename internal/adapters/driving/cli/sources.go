package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

var (
	sourcesLimit int
	sourcesJSON  bool
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List indexed sources",
	Long:  `Lists indexed sources, most recently updated first.`,
	Args:  cobra.NoArgs,
	RunE:  runSources,
}

func init() {
	sourcesCmd.Flags().IntVarP(&sourcesLimit, "limit", "n", 0, "maximum number of sources (0 = all)")
	sourcesCmd.Flags().BoolVar(&sourcesJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, _ []string) error {
	if adminService == nil {
		return errors.New("admin service not configured")
	}

	sources, err := adminService.ListSources(cmd.Context(), sourcesLimit)
	if err != nil {
		return fmt.Errorf("list sources failed: %w", err)
	}

	if sourcesJSON {
		if sources == nil {
			sources = []domain.SourceInfo{}
		}
		data, err := json.MarshalIndent(sources, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal sources: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(sources) == 0 {
		cmd.Println("No sources indexed.")
		return nil
	}

	for _, source := range sources {
		cmd.Printf("%s  (%d chunks, indexed %s)\n",
			source.SourceID, source.ChunkCount, source.IndexedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
