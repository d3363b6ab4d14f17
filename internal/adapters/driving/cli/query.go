package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

const (
	defaultQueryLimit = 5
	maxQueryLimit     = 20
	snippetLength     = 160
)

var (
	queryLimit int
	queryJSON  bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Retrieve the most relevant chunks",
	Long: `Embeds the query text with the same deterministic embedder used at
index time and returns the top chunks by cosine similarity.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 0, "maximum number of results (1-20)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

// effectiveLimit resolves the result limit: flag, then the query_limit
// config key, then the default, clamped to [1, 20].
func effectiveLimit() int {
	limit := queryLimit
	if limit == 0 && configStore != nil {
		limit = configStore.GetInt("query_limit")
	}
	if limit == 0 {
		limit = defaultQueryLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxQueryLimit {
		limit = maxQueryLimit
	}
	return limit
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	matches, err := queryService.Query(cmd.Context(), args[0], effectiveLimit())
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputQueryJSON(cmd, matches)
	}
	return outputQueryTable(cmd, matches)
}

func outputQueryJSON(cmd *cobra.Command, matches []domain.QueryMatch) error {
	if matches == nil {
		matches = []domain.QueryMatch{}
	}
	data, err := json.MarshalIndent(matches, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputQueryTable(cmd *cobra.Command, matches []domain.QueryMatch) error {
	if len(matches) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, match := range matches {
		cmd.Printf("  [%d] %s #%d (%.4f)\n", i+1, match.SourceID, match.ChunkIndex, match.Score)
		cmd.Printf("      %s\n", match.Snippet(snippetLength))
		cmd.Println()
	}
	return nil
}
