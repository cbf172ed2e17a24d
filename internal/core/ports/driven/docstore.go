package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// DocumentStore persists document metadata and chunk text.
// Backed by SQLite for durable storage.
//
// Errors are always returned, never collapsed into empty results: an
// empty document list from a store outage must not look identical to a
// genuinely empty store.
type DocumentStore interface {
	// SaveDocument stores or updates a document's metadata.
	SaveDocument(ctx context.Context, doc domain.Document) error

	// SaveChunks stores the chunks produced at ingestion.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetDocument retrieves a document by id, or domain.ErrNotFound.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetChunks retrieves a document's chunks ordered by index.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// ListDocuments returns all documents.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// MarkIndexed sets the document's indexed flag. A failure here must
	// be reported to the caller; swallowing it would leave the document
	// silently unsearchable.
	MarkIndexed(ctx context.Context, id string) error
}
