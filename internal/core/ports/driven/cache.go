package driven

import (
	"context"
	"time"
)

// AnswerCache maps a deterministic cache key to a previously computed
// answer payload, with expiration.
//
// The cache is an optimisation, not a correctness requirement: callers
// treat both operations as fire-and-forget on failure, so an outage
// degrades to always-miss and never blocks answering. Entries are
// immutable once written until they expire; concurrent identical
// queries may both write, last write wins.
type AnswerCache interface {
	// Get returns the payload stored under key, or ok=false on a miss.
	Get(ctx context.Context, key string) (payload []byte, ok bool, err error)

	// Set stores payload under key for ttl.
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}
