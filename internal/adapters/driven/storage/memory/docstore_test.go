package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestDocStore_SaveAndGet(t *testing.T) {
	store := NewDocStore()
	ctx := context.Background()

	doc := domain.Document{
		ID:         "doc-1",
		Filename:   "notes.txt",
		ChunkCount: 2,
		CreatedAt:  time.Now(),
	}
	if err := store.SaveDocument(ctx, doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetDocument(ctx, "doc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Filename != "notes.txt" || got.ChunkCount != 2 {
		t.Errorf("document mismatch: %+v", got)
	}
}

func TestDocStore_GetMissing(t *testing.T) {
	store := NewDocStore()

	_, err := store.GetDocument(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDocStore_Chunks(t *testing.T) {
	store := NewDocStore()
	ctx := context.Background()

	if err := store.SaveDocument(ctx, domain.Document{ID: "doc-1"}); err != nil {
		t.Fatal(err)
	}

	// Saved out of order; read back ordered by index.
	chunks := []domain.Chunk{
		{DocumentID: "doc-1", Index: 2, Text: "third"},
		{DocumentID: "doc-1", Index: 0, Text: "first"},
		{DocumentID: "doc-1", Index: 1, Text: "second"},
	}
	if err := store.SaveChunks(ctx, chunks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetChunks(ctx, "doc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, c := range got {
		if c.Index != i {
			t.Errorf("position %d holds chunk index %d", i, c.Index)
		}
	}
	if got[0].Text != "first" || got[2].Text != "third" {
		t.Errorf("chunk order wrong: %+v", got)
	}
}

func TestDocStore_SaveChunks_MixedDocuments(t *testing.T) {
	store := NewDocStore()

	err := store.SaveChunks(context.Background(), []domain.Chunk{
		{DocumentID: "doc-1", Index: 0},
		{DocumentID: "doc-2", Index: 1},
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDocStore_GetChunks_MissingDocument(t *testing.T) {
	store := NewDocStore()

	_, err := store.GetChunks(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("a missing document must be an error, got %v", err)
	}
}

func TestDocStore_ListDocuments(t *testing.T) {
	store := NewDocStore()
	ctx := context.Background()

	base := time.Now()
	for i, id := range []string{"doc-b", "doc-a", "doc-c"} {
		if err := store.SaveDocument(ctx, domain.Document{
			ID:        id,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatal(err)
		}
	}

	docs, err := store.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}
	// Ordered by creation time, not id.
	if docs[0].ID != "doc-b" || docs[2].ID != "doc-c" {
		t.Errorf("unexpected order: %s, %s, %s", docs[0].ID, docs[1].ID, docs[2].ID)
	}
}

func TestDocStore_MarkIndexed(t *testing.T) {
	store := NewDocStore()
	ctx := context.Background()

	if err := store.SaveDocument(ctx, domain.Document{ID: "doc-1"}); err != nil {
		t.Fatal(err)
	}
	if err := store.MarkIndexed(ctx, "doc-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc, _ := store.GetDocument(ctx, "doc-1")
	if !doc.Indexed {
		t.Error("expected indexed flag set")
	}

	if err := store.MarkIndexed(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
