// Package hashing provides a deterministic, dependency-free embedding
// service based on hashed token buckets.
//
// Each token is hashed with 32-bit FNV-1a; the hash selects a bucket and
// its top bit selects a sign, and the accumulated vector is L2-normalised.
// The result is cheap, fully reproducible across runs and machines, and
// needs no external model, which keeps indexing and tests deterministic.
// A learned-model generator can replace it behind the same port.
package hashing

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultDimensions is the default embedding vector size.
const DefaultDimensions = 256

// modelName identifies this generator in stats and diagnostics.
const modelName = "fnv1a-bucket"

// EmbeddingService generates hashed-bucket embeddings.
type EmbeddingService struct {
	dimensions int
}

// NewEmbeddingService creates a hashing embedding service with the given
// vector size. Returns domain.ErrInvalidInput when dimensions is not
// positive. A zero value selects DefaultDimensions.
func NewEmbeddingService(dimensions int) (*EmbeddingService, error) {
	if dimensions == 0 {
		dimensions = DefaultDimensions
	}
	if dimensions < 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %d", domain.ErrInvalidInput, dimensions)
	}
	return &EmbeddingService{dimensions: dimensions}, nil
}

// Embed generates a unit-normalised vector embedding for the given text.
// Text with no alphanumeric tokens yields the zero vector, which is a
// valid (if useless for ranking) embedding, not an error.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	vector := make([]float32, s.dimensions)

	for _, token := range tokenise(text) {
		h := fnv.New32a()
		h.Write([]byte(token)) //nolint:errcheck // fnv never fails
		sum := h.Sum32()

		bucket := int(sum % uint32(s.dimensions))
		if sum&0x80000000 != 0 {
			vector[bucket]--
		} else {
			vector[bucket]++
		}
	}

	normalise(vector)
	return vector, nil
}

// EmbedBatch generates embeddings for multiple texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embedding, err := s.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d: %w", i, err)
		}
		embeddings[i] = embedding
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return modelName
}

// tokenise lowercases text and splits it into maximal runs of letters
// and digits. Every other character is a separator and is never emitted.
func tokenise(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// normalise scales the vector to unit L2 norm in place.
// The zero vector stays as-is.
func normalise(vector []float32) {
	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares == 0 {
		return
	}

	norm := math.Sqrt(sumSquares)
	for i := range vector {
		vector[i] = float32(float64(vector[i]) / norm)
	}
}
