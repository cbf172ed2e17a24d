package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// DefaultTopK is the number of nearest chunks retrieved per question.
const DefaultTopK = 5

// DefaultCacheTTL bounds how stale a cached answer may get.
const DefaultCacheTTL = time.Hour

// QueryService orchestrates the answer pipeline: cache short-circuit,
// question embedding, document-scoped retrieval, grounded generation,
// cache write-back.
type QueryService struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	llm      driven.GenerationService
	cache    driven.AnswerCache

	topK     int
	cacheTTL time.Duration
}

// QueryOption configures the query service.
type QueryOption func(*QueryService)

// WithTopK sets how many nearest chunks are retrieved per question.
func WithTopK(k int) QueryOption {
	return func(s *QueryService) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithCacheTTL sets the answer cache entry lifetime.
func WithCacheTTL(ttl time.Duration) QueryOption {
	return func(s *QueryService) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// NewQueryService creates the orchestrator. The cache may be nil, in
// which case every question is computed fresh.
func NewQueryService(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	llm driven.GenerationService,
	cache driven.AnswerCache,
	opts ...QueryOption,
) *QueryService {
	s := &QueryService{
		embedder: embedder,
		index:    index,
		llm:      llm,
		cache:    cache,
		topK:     DefaultTopK,
		cacheTTL: DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Answer resolves a (document id, question) pair to a grounded answer.
//
// Cache reads and writes are soft: an unreachable cache degrades to
// always-miss and is never allowed to fail the question. The hard
// dependencies (embedding, vector index, generation) propagate their
// failures so the caller can tell "no relevant content" apart from
// "the pipeline is broken".
func (s *QueryService) Answer(ctx context.Context, documentID, question string) (*domain.Answer, error) {
	logger.Section("Answer")
	logger.Debug("Document: %s, question: %q", documentID, question)

	key := domain.CacheKey(documentID, question)

	if cached := s.cacheGet(ctx, key); cached != nil {
		logger.Info("Cache hit for %s", key)
		return cached, nil
	}

	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}
	logger.Debug("Question embedded, dimension %d", len(vector))

	matches, err := s.index.Query(ctx, vector, documentID, s.topK)
	if err != nil {
		return nil, fmt.Errorf("querying vector index: %w", err)
	}

	// The index filters server-side, but a scoping bug there would leak
	// other documents' text into the answer. Drop anything foreign.
	matches = filterToDocument(matches, documentID)
	logger.Debug("Retrieved %d chunks", len(matches))

	if len(matches) == 0 {
		answer := &domain.Answer{
			Question:    question,
			Text:        domain.NoMatchAnswer,
			ContextUsed: []domain.RetrievedChunk{},
		}
		// No-match answers are cached like any other.
		s.cacheSet(ctx, key, answer)
		return answer, nil
	}

	contextText := assembleContext(matches)

	generated, err := s.llm.Generate(ctx, question, contextText)
	if err != nil {
		// Failed generations are never cached.
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	answer := &domain.Answer{
		Question:    question,
		Text:        generated,
		ContextUsed: matches,
	}
	s.cacheSet(ctx, key, answer)
	return answer, nil
}

// cacheGet reads a cached answer, treating any cache failure as a miss.
func (s *QueryService) cacheGet(ctx context.Context, key string) *domain.Answer {
	if s.cache == nil {
		return nil
	}
	payload, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("Answer cache read failed, treating as miss: %v", err)
		return nil
	}
	if !ok {
		return nil
	}
	var answer domain.Answer
	if err := json.Unmarshal(payload, &answer); err != nil {
		logger.Warn("Discarding undecodable cache entry %s: %v", key, err)
		return nil
	}
	return &answer
}

// cacheSet writes an answer, ignoring cache failures.
func (s *QueryService) cacheSet(ctx context.Context, key string, answer *domain.Answer) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(answer)
	if err != nil {
		logger.Warn("Failed to encode answer for cache: %v", err)
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cacheTTL); err != nil {
		logger.Warn("Answer cache write failed: %v", err)
	}
}

// filterToDocument keeps only matches belonging to documentID,
// preserving their order.
func filterToDocument(matches []domain.RetrievedChunk, documentID string) []domain.RetrievedChunk {
	kept := matches[:0]
	for _, m := range matches {
		if m.Metadata.DocumentID == documentID {
			kept = append(kept, m)
		} else {
			logger.Warn("Dropping cross-document result from %s", m.Metadata.DocumentID)
		}
	}
	return kept
}

// assembleContext joins the retrieved chunk texts, most similar first,
// separated by paragraph breaks.
func assembleContext(matches []domain.RetrievedChunk) string {
	texts := make([]string, len(matches))
	for i, m := range matches {
		texts[i] = m.Text
	}
	return strings.Join(texts, "\n\n")
}
