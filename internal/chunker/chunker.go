// Package chunker provides fixed-size overlapping text chunking.
package chunker

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Chunker splits document content into fixed-size overlapping windows.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		c.chunkSize = size
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		c.overlap = overlap
	}
}

// New creates a new chunker with the given options.
// Returns domain.ErrInvalidInput when the chunk size is not positive or
// the overlap falls outside [0, chunkSize).
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidInput, c.chunkSize)
	}
	if c.overlap < 0 || c.overlap >= c.chunkSize {
		return nil, fmt.Errorf("%w: overlap must be in [0, %d), got %d", domain.ErrInvalidInput, c.chunkSize, c.overlap)
	}

	return c, nil
}

// ChunkSize returns the configured window size.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap returns the configured window overlap.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Chunk splits content into trimmed overlapping windows. Windows advance
// by chunkSize-overlap characters; a window that is empty after trimming
// is dropped, and indices are assigned only to emitted chunks so the
// sequence stays dense. Empty or whitespace-only content yields no chunks.
//
// Line endings are normalised first so platform newlines never move
// chunk boundaries. Windowing operates on runes, not bytes, so
// multi-byte text never splits mid-character.
//
// SourceID, Vector and IndexedAt are left for the caller to fill in.
func (c *Chunker) Chunk(content string) []domain.Chunk {
	runes := []rune(normaliseNewlines(content))
	total := len(runes)
	if total == 0 {
		return nil
	}

	step := c.chunkSize - c.overlap
	chunks := make([]domain.Chunk, 0, total/step+1)

	index := 0
	for start := 0; start < total; start += step {
		end := start + c.chunkSize
		if end > total {
			end = total
		}

		text := strings.TrimSpace(string(runes[start:end]))
		if text != "" {
			chunks = append(chunks, domain.Chunk{
				ID:         uuid.New().String(),
				Index:      index,
				Text:       text,
				TokenCount: len(strings.Fields(text)),
			})
			index++
		}

		// The window that reaches the end of content is the last one;
		// stepping again would re-emit a shorter copy of its tail.
		if end == total {
			break
		}
	}

	return chunks
}

// normaliseNewlines rewrites CRLF and bare CR line endings to LF.
func normaliseNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
