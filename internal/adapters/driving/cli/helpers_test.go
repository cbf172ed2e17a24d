package cli

import (
	"context"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// mockQueryService implements driving.QueryService for command tests.
type mockQueryService struct {
	answer *domain.Answer
	err    error
}

var _ driving.QueryService = (*mockQueryService)(nil)

func (m *mockQueryService) Answer(_ context.Context, _, question string) (*domain.Answer, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.answer != nil {
		return m.answer, nil
	}
	return &domain.Answer{
		Question:    question,
		Text:        "mock answer",
		ContextUsed: []domain.RetrievedChunk{},
	}, nil
}

// mockIngestService implements driving.IngestService for command tests.
type mockIngestService struct {
	docs      []domain.Document
	uploadErr error
	indexErr  error
}

var _ driving.IngestService = (*mockIngestService)(nil)

func (m *mockIngestService) Upload(_ context.Context, path string) (*domain.Document, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	return &domain.Document{
		ID:         "mock-doc-id",
		Filename:   path,
		ChunkCount: 3,
		CreatedAt:  time.Now(),
	}, nil
}

func (m *mockIngestService) Index(_ context.Context, _ string) error {
	return m.indexErr
}

func (m *mockIngestService) Documents(_ context.Context) ([]domain.Document, error) {
	return m.docs, nil
}

func (m *mockIngestService) Document(_ context.Context, id string) (*domain.Document, error) {
	for _, d := range m.docs {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, domain.ErrNotFound
}

// setupTestServices swaps in mock services and returns a restore func.
func setupTestServices() func() {
	oldQuery := queryService
	oldIngest := ingestService
	queryService = &mockQueryService{}
	ingestService = &mockIngestService{docs: []domain.Document{
		{ID: "doc-1", Filename: "a.txt", ChunkCount: 2, Indexed: true},
		{ID: "doc-2", Filename: "b.md", ChunkCount: 4},
	}}
	return func() {
		queryService = oldQuery
		ingestService = oldIngest
	}
}
