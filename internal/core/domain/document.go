package domain

import "time"

// Document represents a tracked source in the chunk store.
// It records the content hash used to decide whether re-indexing
// a source requires any work.
type Document struct {
	// SourceID is the opaque identifier of the originating document
	// (file path, URL, or logical key).
	SourceID string

	// ContentHash is a hex-encoded digest of the full raw content.
	// All chunks stored for SourceID were produced from content
	// matching this hash.
	ContentHash string

	// ChunkCount is the number of chunks currently stored.
	ChunkCount int

	// CreatedAt is when the source was first indexed.
	CreatedAt time.Time

	// UpdatedAt is when the chunk set was last replaced.
	UpdatedAt time.Time
}

// Chunk is the atomic retrievable unit within a document.
// Documents are split into overlapping windows for granular retrieval.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// SourceID links to the originating document. Many chunks share
	// one SourceID.
	SourceID string

	// Index is the zero-based position within the source. The index
	// sequence for a source is dense and gap-free.
	Index int

	// Text is the chunk's trimmed substring of the source content.
	Text string

	// TokenCount is a whitespace-token estimate used for budgeting
	// and display only. It plays no part in similarity math.
	TokenCount int

	// Vector is the unit-normalised embedding, or the zero vector
	// for content that produced no tokens.
	Vector []float32

	// IndexedAt is when the chunk was last written.
	IndexedAt time.Time
}
