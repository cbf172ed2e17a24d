// Package milvus provides a vector index adapter backed by Milvus.
package milvus

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/milvus-io/milvus/client/v2/column"
	"github.com/milvus-io/milvus/client/v2/entity"
	milvusindex "github.com/milvus-io/milvus/client/v2/index"
	"github.com/milvus-io/milvus/client/v2/milvusclient"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

var _ driven.VectorIndex = (*Index)(nil)

// DefaultCollection is the collection documents are indexed into.
const DefaultCollection = "documents"

// Field names in the collection schema.
const (
	fieldID         = "id"
	fieldDocumentID = "document_id"
	fieldChunkIndex = "chunk_index"
	fieldText       = "text"
	fieldVector     = "vector"
)

// Config holds connection details for a Milvus instance.
type Config struct {
	// Address is the Milvus server address (required), e.g. localhost:19530.
	Address string

	// Collection is the collection name (default: documents).
	Collection string
}

// Index stores chunk vectors in a Milvus collection with a cosine HNSW
// index and searches them with a server-side document filter.
type Index struct {
	client     *milvusclient.Client
	collection string

	mu      sync.Mutex
	ensured bool
}

// New connects to Milvus and returns a vector index.
func New(ctx context.Context, cfg Config) (*Index, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("%w: milvus address", domain.ErrMissingConfig)
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	client, err := milvusclient.New(ctx, &milvusclient.ClientConfig{
		Address: cfg.Address,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: connecting to milvus: %v", domain.ErrVectorIndex, err)
	}

	return &Index{
		client:     client,
		collection: cfg.Collection,
	}, nil
}

// ensureCollection creates and loads the collection if it does not
// exist yet.
func (x *Index) ensureCollection(ctx context.Context, dimension int) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.ensured {
		return nil
	}

	hasOpt := milvusclient.NewHasCollectionOption(x.collection)
	exists, err := x.client.HasCollection(ctx, hasOpt)
	if err != nil {
		return fmt.Errorf("%w: checking collection: %v", domain.ErrVectorIndex, err)
	}

	if !exists {
		schema := &entity.Schema{
			CollectionName: x.collection,
			Description:    "Document chunks with dense embeddings",
			Fields: []*entity.Field{
				{
					Name:       fieldID,
					DataType:   entity.FieldTypeVarChar,
					PrimaryKey: true,
					AutoID:     false,
					TypeParams: map[string]string{
						"max_length": "255",
					},
				},
				{
					Name:     fieldDocumentID,
					DataType: entity.FieldTypeVarChar,
					TypeParams: map[string]string{
						"max_length": "255",
					},
				},
				{
					Name:     fieldChunkIndex,
					DataType: entity.FieldTypeInt64,
				},
				{
					Name:     fieldText,
					DataType: entity.FieldTypeVarChar,
					TypeParams: map[string]string{
						"max_length": "65535",
					},
				},
				{
					Name:     fieldVector,
					DataType: entity.FieldTypeFloatVector,
					TypeParams: map[string]string{
						"dim": fmt.Sprintf("%d", dimension),
					},
				},
			},
		}

		createOpt := milvusclient.NewCreateCollectionOption(x.collection, schema)
		createOpt.WithShardNum(2)
		if err := x.client.CreateCollection(ctx, createOpt); err != nil {
			return fmt.Errorf("%w: creating collection: %v", domain.ErrVectorIndex, err)
		}

		denseIdx := milvusindex.NewHNSWIndex(entity.COSINE, 16, 200)
		indexOpt := milvusclient.NewCreateIndexOption(x.collection, fieldVector, denseIdx)
		if _, err := x.client.CreateIndex(ctx, indexOpt); err != nil {
			return fmt.Errorf("%w: creating vector index: %v", domain.ErrVectorIndex, err)
		}
	}

	loadOpt := milvusclient.NewLoadCollectionOption(x.collection)
	if _, err := x.client.LoadCollection(ctx, loadOpt); err != nil {
		return fmt.Errorf("%w: loading collection: %v", domain.ErrVectorIndex, err)
	}

	x.ensured = true
	return nil
}

// Upsert submits a batch of chunk vectors as columns.
func (x *Index) Upsert(ctx context.Context, entries []driven.VectorEntry) error {
	if len(entries) == 0 {
		return nil
	}
	dimension := len(entries[0].Vector)
	if err := x.ensureCollection(ctx, dimension); err != nil {
		return err
	}

	ids := make([]string, len(entries))
	docIDs := make([]string, len(entries))
	chunkIdxs := make([]int64, len(entries))
	texts := make([]string, len(entries))
	vectors := make([][]float32, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
		docIDs[i] = e.Ref.DocumentID
		chunkIdxs[i] = int64(e.Ref.ChunkIndex)
		texts[i] = e.Text
		vectors[i] = e.Vector
	}

	insertOpt := milvusclient.NewColumnBasedInsertOption(x.collection,
		column.NewColumnVarChar(fieldID, ids),
		column.NewColumnVarChar(fieldDocumentID, docIDs),
		column.NewColumnInt64(fieldChunkIndex, chunkIdxs),
		column.NewColumnVarChar(fieldText, texts),
		column.NewColumnFloatVector(fieldVector, dimension, vectors),
	)
	if _, err := x.client.Upsert(ctx, insertOpt); err != nil {
		return fmt.Errorf("%w: upserting %d vectors: %v", domain.ErrVectorIndex, len(entries), err)
	}
	return nil
}

// Query returns the topK nearest chunks for vector, restricted to
// documentID with a filter expression. Milvus reports cosine scores as
// similarity, so they are converted to cosine distance before
// returning.
func (x *Index) Query(ctx context.Context, vector []float32, documentID string, topK int) ([]domain.RetrievedChunk, error) {
	if topK <= 0 {
		topK = 5
	}
	if err := x.ensureCollection(ctx, len(vector)); err != nil {
		return nil, err
	}

	expr := fmt.Sprintf(`%s == "%s"`, fieldDocumentID, escapeFilterValue(documentID))
	searchOpt := milvusclient.NewSearchOption(x.collection, topK, []entity.Vector{
		entity.FloatVector(vector),
	}).
		WithFilter(expr).
		WithANNSField(fieldVector).
		WithOutputFields(fieldDocumentID, fieldChunkIndex, fieldText)

	resultSets, err := x.client.Search(ctx, searchOpt)
	if err != nil {
		return nil, fmt.Errorf("%w: searching %s: %v", domain.ErrVectorIndex, x.collection, err)
	}

	var results []domain.RetrievedChunk
	for _, rs := range resultSets {
		docCol := rs.GetColumn(fieldDocumentID)
		idxCol := rs.GetColumn(fieldChunkIndex)
		textCol := rs.GetColumn(fieldText)
		if docCol == nil || idxCol == nil || textCol == nil {
			return nil, fmt.Errorf("%w: search result missing output fields", domain.ErrVectorIndex)
		}

		for i := 0; i < rs.ResultCount; i++ {
			var chunk domain.RetrievedChunk
			chunk.Score = 1 - float64(rs.Scores[i])

			docID, err := docCol.GetAsString(i)
			if err != nil {
				return nil, fmt.Errorf("%w: reading document_id: %v", domain.ErrVectorIndex, err)
			}
			chunk.Metadata.DocumentID = docID

			chunkIdx, err := idxCol.GetAsInt64(i)
			if err != nil {
				return nil, fmt.Errorf("%w: reading chunk_index: %v", domain.ErrVectorIndex, err)
			}
			chunk.Metadata.ChunkIndex = int(chunkIdx)

			text, err := textCol.GetAsString(i)
			if err != nil {
				return nil, fmt.Errorf("%w: reading text: %v", domain.ErrVectorIndex, err)
			}
			chunk.Text = text

			results = append(results, chunk)
		}
	}
	return results, nil
}

// Close disconnects from Milvus.
func (x *Index) Close() error {
	return x.client.Close(context.Background())
}

// escapeFilterValue keeps quotes and backslashes in ids from breaking
// the filter expression.
func escapeFilterValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `"`, `\"`)
}
