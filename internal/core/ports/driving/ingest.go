package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// IngestService runs the ingestion side of the pipeline: extracting and
// chunking uploaded files, and pushing chunk embeddings into the vector
// index.
type IngestService interface {
	// Upload extracts text from the file at path, normalises and chunks
	// it, and persists the document metadata plus chunks. The returned
	// document is not yet indexed.
	Upload(ctx context.Context, path string) (*domain.Document, error)

	// Index embeds every chunk of the document and submits them to the
	// vector index as one batch. The document's indexed flag is set
	// only after the whole batch is accepted.
	Index(ctx context.Context, documentID string) error

	// Documents lists all ingested documents.
	Documents(ctx context.Context) ([]domain.Document, error)

	// Document returns a single ingested document by id.
	Document(ctx context.Context, documentID string) (*domain.Document, error)
}
