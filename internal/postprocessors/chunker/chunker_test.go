package chunker

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c, err := New()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Size() != DefaultChunkSize {
			t.Errorf("expected size %d, got %d", DefaultChunkSize, c.Size())
		}
		if c.Overlap() != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, c.Overlap())
		}
	})

	t.Run("custom size and overlap", func(t *testing.T) {
		c, err := New(WithSize(200), WithOverlap(50))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Size() != 200 {
			t.Errorf("expected size 200, got %d", c.Size())
		}
		if c.Overlap() != 50 {
			t.Errorf("expected overlap 50, got %d", c.Overlap())
		}
	})

	t.Run("zero overlap allowed", func(t *testing.T) {
		if _, err := New(WithSize(100), WithOverlap(0)); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("overlap equal to size rejected", func(t *testing.T) {
		_, err := New(WithSize(100), WithOverlap(100))
		if !errors.Is(err, domain.ErrInvalidChunking) {
			t.Errorf("expected ErrInvalidChunking, got %v", err)
		}
	})

	t.Run("overlap exceeding size rejected", func(t *testing.T) {
		_, err := New(WithSize(100), WithOverlap(150))
		if !errors.Is(err, domain.ErrInvalidChunking) {
			t.Errorf("expected ErrInvalidChunking, got %v", err)
		}
	})

	t.Run("negative overlap rejected", func(t *testing.T) {
		_, err := New(WithSize(100), WithOverlap(-1))
		if !errors.Is(err, domain.ErrInvalidChunking) {
			t.Errorf("expected ErrInvalidChunking, got %v", err)
		}
	})
}

func TestChunker_Split_Empty(t *testing.T) {
	c, _ := New()
	if chunks := c.Split(""); len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty text, got %d", len(chunks))
	}
}

func TestChunker_Split_SmallText(t *testing.T) {
	c, _ := New(WithSize(100), WithOverlap(20))
	chunks := c.Split("short text")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "short text" {
		t.Errorf("expected full text back, got %q", chunks[0])
	}
}

func TestChunker_Split_Offsets(t *testing.T) {
	c, _ := New(WithSize(10), WithOverlap(4))
	text := "abcdefghijklmnopqrstuvwxyz"

	chunks := c.Split(text)

	// step = 6, so chunk i starts at offset i*6
	step := c.Size() - c.Overlap()
	for i, chunk := range chunks {
		start := i * step
		end := start + c.Size()
		if end > len(text) {
			end = len(text)
		}
		if chunk != text[start:end] {
			t.Errorf("chunk %d: expected %q, got %q", i, text[start:end], chunk)
		}
	}

	// Last chunk must reach the end of the text
	last := chunks[len(chunks)-1]
	if !strings.HasSuffix(text, last) {
		t.Errorf("last chunk %q is not a suffix of the text", last)
	}
}

func TestChunker_Split_OverlapAlignment(t *testing.T) {
	c, _ := New(WithSize(10), WithOverlap(4))
	chunks := c.Split(strings.Repeat("0123456789", 5))

	for i := 1; i < len(chunks); i++ {
		prev, cur := chunks[i-1], chunks[i]
		overlap := c.Overlap()
		if len(cur) < overlap {
			continue // short tail chunk
		}
		if prev[len(prev)-overlap:] != cur[:overlap] {
			t.Errorf("chunks %d and %d do not overlap by %d characters", i-1, i, overlap)
		}
	}
}

func TestChunker_Split_CoversAllText(t *testing.T) {
	c, _ := New(WithSize(7), WithOverlap(3))
	text := "the quick brown fox jumps over the lazy dog"

	chunks := c.Split(text)

	// Reassembling first (size-overlap) characters of each chunk plus
	// the final chunk tail must reproduce the input.
	step := c.Size() - c.Overlap()
	var b strings.Builder
	for i, chunk := range chunks {
		if i == len(chunks)-1 {
			b.WriteString(chunk)
			break
		}
		if len(chunk) >= step {
			b.WriteString(chunk[:step])
		} else {
			b.WriteString(chunk)
		}
	}
	if got := b.String(); got != text {
		t.Errorf("reassembled text mismatch:\n  want %q\n  got  %q", text, got)
	}
}

func TestChunker_Split_MultibyteRunes(t *testing.T) {
	c, _ := New(WithSize(5), WithOverlap(1))
	text := strings.Repeat("é", 5) + "日本語テキスト"

	chunks := c.Split(text)

	for i, chunk := range chunks {
		if !utf8.ValidString(chunk) {
			t.Errorf("chunk %d is not valid UTF-8: %q", i, chunk)
		}
	}

	// Offsets count runes, so every chunk except the tail holds exactly
	// size runes.
	for i, chunk := range chunks[:len(chunks)-1] {
		if n := utf8.RuneCountInString(chunk); n != c.Size() {
			t.Errorf("chunk %d: expected %d runes, got %d", i, c.Size(), n)
		}
	}

	runes := []rune(text)
	step := c.Size() - c.Overlap()
	for i, chunk := range chunks {
		start := i * step
		end := start + c.Size()
		if end > len(runes) {
			end = len(runes)
		}
		if want := string(runes[start:end]); chunk != want {
			t.Errorf("chunk %d: expected %q, got %q", i, want, chunk)
		}
	}
}

func TestChunker_Chunks(t *testing.T) {
	c, _ := New(WithSize(10), WithOverlap(2))
	chunks := c.Chunks("doc-1", "abcdefghijklmnop")

	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	for i, chunk := range chunks {
		if chunk.DocumentID != "doc-1" {
			t.Errorf("chunk %d: expected document doc-1, got %s", i, chunk.DocumentID)
		}
		if chunk.Index != i {
			t.Errorf("chunk %d: expected index %d, got %d", i, i, chunk.Index)
		}
	}
	if chunks[0].VectorID() != "doc-1_0" {
		t.Errorf("expected vector id doc-1_0, got %s", chunks[0].VectorID())
	}
}

func TestChunker_Chunks_Empty(t *testing.T) {
	c, _ := New()
	if chunks := c.Chunks("doc-1", ""); len(chunks) != 0 {
		t.Errorf("expected 0 chunks, got %d", len(chunks))
	}
}
