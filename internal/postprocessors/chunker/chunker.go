// Package chunker provides fixed-size overlapping text chunking.
package chunker

import (
	"fmt"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 500

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 100

// Chunker splits normalised document text into fixed-size overlapping
// windows. Boundaries are character-offset based, not token- or
// sentence-aware: a deliberate simplicity/compute tradeoff, since the
// overlap keeps sentences split by a boundary retrievable from the
// neighbouring chunk.
type Chunker struct {
	size    int
	overlap int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithSize sets the chunk size in characters.
func WithSize(size int) Option {
	return func(c *Chunker) {
		c.size = size
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		c.overlap = overlap
	}
}

// New creates a chunker. It requires size > overlap >= 0: any other
// combination makes the step size non-positive and the split would
// never terminate, so it is rejected here instead of looping later.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		size:    DefaultChunkSize,
		overlap: DefaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.overlap < 0 || c.size <= c.overlap {
		return nil, fmt.Errorf("%w: size %d must exceed overlap %d (overlap >= 0)",
			domain.ErrInvalidChunking, c.size, c.overlap)
	}
	return c, nil
}

// Size returns the configured chunk size.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int { return c.overlap }

// Split produces the ordered chunk texts for text. Chunk i covers
// [i*step, i*step+size) where step = size-overlap; the last chunk may
// be shorter. Empty text yields no chunks.
func (c *Chunker) Split(text string) []string {
	if text == "" {
		return nil
	}

	// Offsets are in runes, not bytes, so multibyte text is never cut
	// mid-character.
	runes := []rune(text)
	step := c.size - c.overlap
	chunks := make([]string, 0, len(runes)/step+1)

	for start := 0; start < len(runes); start += step {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// Chunks splits text and wraps the pieces as domain chunks belonging to
// documentID, indexed in order.
func (c *Chunker) Chunks(documentID, text string) []domain.Chunk {
	parts := c.Split(text)
	chunks := make([]domain.Chunk, len(parts))
	for i, p := range parts {
		chunks[i] = domain.Chunk{
			DocumentID: documentID,
			Index:      i,
			Text:       p,
		}
	}
	return chunks
}
