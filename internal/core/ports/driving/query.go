package driving

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// QueryService answers free-text queries against the indexed corpus.
type QueryService interface {
	// Query embeds the text with the index-time generator and returns
	// the top-limit most similar chunks, best first. limit must be at
	// least 1; callers clamp it to a sane upper bound before calling.
	// An empty corpus yields an empty slice.
	Query(ctx context.Context, text string, limit int) ([]domain.QueryMatch, error)
}
