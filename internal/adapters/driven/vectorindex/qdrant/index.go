// Package qdrant provides a vector index adapter backed by Qdrant's
// REST API.
package qdrant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultCollection = "documents"
	DefaultTimeout    = 15 * time.Second
)

// Config holds connection details for a Qdrant instance.
type Config struct {
	// URL is the Qdrant base URL (required), e.g. http://localhost:6333.
	URL string

	// APIKey is sent in the api-key header when non-empty.
	APIKey string

	// Collection is the collection name (default: documents).
	Collection string

	// Timeout is the per-request timeout (default: 15s).
	Timeout time.Duration
}

// Index is a minimal REST client to Qdrant. It uses cosine distance
// and creates the collection on first upsert.
type Index struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client

	mu      sync.Mutex
	ensured bool
}

// New creates a Qdrant-backed vector index.
func New(cfg Config) (*Index, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: qdrant URL", domain.ErrMissingConfig)
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Index{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// ensureCollection creates the collection if it does not exist yet.
// Qdrant answers 200 when it already exists with the same schema.
func (x *Index) ensureCollection(ctx context.Context, dimension int) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.ensured {
		return nil
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	if err := x.doJSON(ctx, http.MethodPut,
		fmt.Sprintf("%s/collections/%s", x.url, x.collection), body, nil); err != nil {
		return err
	}
	x.ensured = true
	return nil
}

// Upsert submits a batch of chunk vectors with their payloads.
func (x *Index) Upsert(ctx context.Context, entries []driven.VectorEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := x.ensureCollection(ctx, len(entries[0].Vector)); err != nil {
		return err
	}

	points := make([]map[string]any, len(entries))
	for i, e := range entries {
		points[i] = map[string]any{
			"id":     qdrantPointID(e.ID),
			"vector": e.Vector,
			"payload": map[string]any{
				"vector_id":   e.ID,
				"document_id": e.Ref.DocumentID,
				"chunk_index": e.Ref.ChunkIndex,
				"text":        e.Text,
			},
		}
	}
	body := map[string]any{"points": points}
	return x.doJSON(ctx, http.MethodPut,
		fmt.Sprintf("%s/collections/%s/points?wait=true", x.url, x.collection), body, nil)
}

// Query returns the topK nearest chunks for vector, restricted to
// documentID with a server-side payload filter. Qdrant scores cosine as
// similarity (higher = closer), so scores are converted to cosine
// distance before returning.
func (x *Index) Query(ctx context.Context, vector []float32, documentID string, topK int) ([]domain.RetrievedChunk, error) {
	if topK <= 0 {
		topK = 5
	}

	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
		"filter": map[string]any{
			"must": []map[string]any{
				{
					"key":   "document_id",
					"match": map[string]any{"value": documentID},
				},
			},
		},
	}

	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := x.doJSON(ctx, http.MethodPost,
		fmt.Sprintf("%s/collections/%s/points/search", x.url, x.collection), req, &resp); err != nil {
		return nil, err
	}

	results := make([]domain.RetrievedChunk, 0, len(resp.Result))
	for _, r := range resp.Result {
		chunk := domain.RetrievedChunk{
			Score: 1 - r.Score,
		}
		if v, ok := r.Payload["text"].(string); ok {
			chunk.Text = v
		}
		if v, ok := r.Payload["document_id"].(string); ok {
			chunk.Metadata.DocumentID = v
		}
		if v, ok := r.Payload["chunk_index"].(float64); ok {
			chunk.Metadata.ChunkIndex = int(v)
		}
		results = append(results, chunk)
	}
	return results, nil
}

// Close releases resources.
func (x *Index) Close() error {
	return nil
}

// doJSON issues a JSON request and optionally decodes the response.
// Any failure is reported as a vector index error.
func (x *Index) doJSON(ctx context.Context, method, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if x.apiKey != "" {
		req.Header.Set("api-key", x.apiKey)
	}

	resp, err := x.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrVectorIndex, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s %s returned %s", domain.ErrVectorIndex, method, url, resp.Status)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: undecodable response: %v", domain.ErrVectorIndex, err)
		}
	}
	return nil
}

// qdrantPointID maps the stable chunk id onto a Qdrant-accepted point
// id. Qdrant only takes unsigned integers or UUIDs, so the id is
// embedded in a deterministic UUIDv5-style form via the payload; the
// numeric point id is a stable hash of the chunk id.
func qdrantPointID(id string) uint64 {
	// FNV-1a, inlined to keep the id derivation obvious and stable.
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	var h uint64 = offset64
	for i := 0; i < len(id); i++ {
		h ^= uint64(id[i])
		h *= prime64
	}
	return h
}
