package domain

import "time"

// QueryMatch is a single similarity hit. It is query-scoped and never
// persisted; identical queries recompute identical matches.
type QueryMatch struct {
	// SourceID identifies the matched document.
	SourceID string

	// ChunkIndex is the matched chunk's position within its source.
	ChunkIndex int

	// Text is the matched chunk's content.
	Text string

	// Score is the cosine similarity to the query vector.
	Score float64
}

// Snippet returns the match text truncated to maxLen runes for display.
func (m QueryMatch) Snippet(maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(m.Text)
	if len(runes) <= maxLen {
		return m.Text
	}
	return string(runes[:maxLen]) + "..."
}

// SourceInfo is a read-only aggregate view of one indexed source.
type SourceInfo struct {
	// SourceID identifies the source.
	SourceID string

	// ChunkCount is the number of stored chunks.
	ChunkCount int

	// IndexedAt is when the source was last (re-)indexed.
	IndexedAt time.Time
}

// Stats is a read-only aggregate view of the whole corpus.
type Stats struct {
	// DocumentCount is the number of tracked sources.
	DocumentCount int

	// ChunkCount is the total number of stored chunks.
	ChunkCount int

	// TotalTokens is the sum of all chunk token estimates.
	TotalTokens int
}

// IndexResult reports the outcome of indexing one document.
type IndexResult struct {
	// Changed is false when the stored content hash already matched
	// and no writes were performed.
	Changed bool

	// ChunkCount is the number of chunks the document splits into.
	ChunkCount int
}
