package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
	"github.com/custodia-labs/docqa/internal/normalisers"
	"github.com/custodia-labs/docqa/internal/postprocessors/chunker"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// DefaultEmbedWorkers bounds the embedding fan-out during indexing.
const DefaultEmbedWorkers = 4

// IngestService handles the ingestion path: upload (extract, normalise,
// chunk, persist) and index (embed, batch-upsert, mark indexed).
type IngestService struct {
	extractors *normalisers.Registry
	chunker    *chunker.Chunker
	store      driven.DocumentStore
	embedder   driven.EmbeddingService
	index      driven.VectorIndex

	workers int
	limiter *rate.Limiter
}

// IngestOption configures the ingest service.
type IngestOption func(*IngestService)

// WithEmbedWorkers sets the embedding fan-out bound.
func WithEmbedWorkers(n int) IngestOption {
	return func(s *IngestService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithEmbedRateLimit caps embedding requests per second so bulk
// indexing does not overwhelm the embedding service.
func WithEmbedRateLimit(perSecond float64, burst int) IngestOption {
	return func(s *IngestService) {
		if perSecond > 0 && burst > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// NewIngestService creates the ingestion service.
func NewIngestService(
	extractors *normalisers.Registry,
	ch *chunker.Chunker,
	store driven.DocumentStore,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	opts ...IngestOption,
) *IngestService {
	s := &IngestService{
		extractors: extractors,
		chunker:    ch,
		store:      store,
		embedder:   embedder,
		index:      index,
		workers:    DefaultEmbedWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload extracts and chunks the file at path, then persists the new
// document's metadata and chunks. The document starts unindexed.
func (s *IngestService) Upload(ctx context.Context, path string) (*domain.Document, error) {
	logger.Section("Upload")
	logger.Debug("File: %s", path)

	extractor, ok := s.extractors.For(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filepath.Ext(path))
	}

	raw, err := extractor.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", path, err)
	}

	text := normalisers.CleanText(raw)

	doc := &domain.Document{
		ID:        uuid.New().String(),
		Filename:  filepath.Base(path),
		CreatedAt: time.Now(),
	}

	chunks := s.chunker.Chunks(doc.ID, text)
	doc.ChunkCount = len(chunks)
	logger.Info("Extracted %d characters into %d chunks", len(text), len(chunks))

	if err := s.store.SaveDocument(ctx, *doc); err != nil {
		return nil, fmt.Errorf("saving document metadata: %w", err)
	}
	if err := s.store.SaveChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("saving chunks: %w", err)
	}
	return doc, nil
}

// Index embeds every chunk of the document and submits the vectors to
// the index as one batch. The indexed flag is set only after the batch
// is accepted: a failed submission must not advertise a half-indexed
// document as searchable.
func (s *IngestService) Index(ctx context.Context, documentID string) error {
	logger.Section("Index")
	logger.Debug("Document: %s", documentID)

	if _, err := s.store.GetDocument(ctx, documentID); err != nil {
		return fmt.Errorf("loading document %s: %w", documentID, err)
	}

	chunks, err := s.store.GetChunks(ctx, documentID)
	if err != nil {
		return fmt.Errorf("loading chunks for %s: %w", documentID, err)
	}
	if len(chunks) == 0 {
		return fmt.Errorf("%w: document %s has no chunks", domain.ErrInvalidInput, documentID)
	}

	vectors, err := s.embedChunks(ctx, chunks)
	if err != nil {
		return err
	}

	entries := make([]driven.VectorEntry, len(chunks))
	for i, c := range chunks {
		entries[i] = driven.VectorEntry{
			ID:     c.VectorID(),
			Vector: vectors[i],
			Text:   c.Text,
			Ref: domain.ChunkRef{
				DocumentID: c.DocumentID,
				ChunkIndex: c.Index,
			},
		}
	}

	if err := s.index.Upsert(ctx, entries); err != nil {
		return fmt.Errorf("submitting vectors for %s: %w", documentID, err)
	}
	logger.Info("Stored %d vectors for %s", len(entries), documentID)

	// Not a soft failure: without the flag the document stays
	// invisible to queries even though its vectors are stored.
	if err := s.store.MarkIndexed(ctx, documentID); err != nil {
		return fmt.Errorf("marking %s indexed: %w", documentID, err)
	}
	return nil
}

// Documents lists all ingested documents.
func (s *IngestService) Documents(ctx context.Context) ([]domain.Document, error) {
	return s.store.ListDocuments(ctx)
}

// Document returns a single ingested document by id.
func (s *IngestService) Document(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.store.GetDocument(ctx, documentID)
}

// embedChunks fans the embedding calls out over a bounded worker pool.
// Results are written by chunk position, so the returned slice is
// aligned with chunks regardless of completion order. All vectors must
// share one dimensionality.
func (s *IngestService) embedChunks(ctx context.Context, chunks []domain.Chunk) ([][]float32, error) {
	vectors := make([][]float32, len(chunks))
	errs := make([]error, len(chunks))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup

	for i, c := range chunks {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			errs[i] = ctx.Err()
			continue
		}

		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			defer func() { <-sem }()

			if s.limiter != nil {
				if err := s.limiter.Wait(ctx); err != nil {
					errs[i] = err
					return
				}
			}

			vec, err := s.embedder.Embed(ctx, text)
			if err != nil {
				errs[i] = fmt.Errorf("embedding chunk %d: %w", i, err)
				cancel()
				return
			}
			vectors[i] = vec
		}(i, c.Text)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: chunk 0 has %d dimensions, chunk %d has %d",
				domain.ErrDimensionMismatch, dim, i, len(v))
		}
	}
	return vectors, nil
}
