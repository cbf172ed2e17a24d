package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// QueryService answers natural-language questions against a single
// previously ingested document.
type QueryService interface {
	// Answer resolves a (document id, question) pair to a grounded
	// answer payload, consulting the answer cache first. A cached
	// payload is returned unchanged even if the document has been
	// re-indexed since; the cache TTL is the only staleness bound.
	Answer(ctx context.Context, documentID, question string) (*domain.Answer, error)
}
