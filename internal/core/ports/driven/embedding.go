package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// The deterministic hashing generator is the baseline implementation;
// a learned-model generator is a drop-in replacement behind this same
// interface with no caller changes.
//
// Vectors are unit-normalised (L2 norm 1), or the zero vector for text
// that produces no tokens. Dimensions is fixed per instance and must
// match between index time and query time; the store does not reconcile
// mismatched dimensions.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	// More efficient than calling Embed in a loop for large batches.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string
}
