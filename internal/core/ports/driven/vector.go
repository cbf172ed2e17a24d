package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// VectorEntry is one chunk vector plus the metadata stored alongside it.
type VectorEntry struct {
	// ID is the stable vector identifier, domain.VectorID(doc, index).
	ID string

	// Vector is the chunk's embedding.
	Vector []float32

	// Text is the chunk's raw content, stored for retrieval.
	Text string

	// Ref locates the chunk within its document.
	Ref domain.ChunkRef
}

// VectorIndex stores chunk vectors and answers nearest-neighbour
// queries scoped to a single document. Backed by an external index;
// its internal search structure is not this package's concern.
type VectorIndex interface {
	// Upsert submits a batch of entries. The batch either succeeds as a
	// whole or returns an error; callers must not mark a document
	// indexed after a failed submission.
	Upsert(ctx context.Context, entries []VectorEntry) error

	// Query returns the topK nearest chunks to the query vector,
	// filtered server-side to the given document id and ordered by
	// ascending cosine distance. Cross-document results are a
	// correctness violation.
	Query(ctx context.Context, vector []float32, documentID string, topK int) ([]domain.RetrievedChunk, error)

	// Close releases resources.
	Close() error
}
