package openai

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestNewEmbeddingService(t *testing.T) {
	t.Run("requires base URL", func(t *testing.T) {
		_, err := NewEmbeddingService(Config{})
		if !errors.Is(err, domain.ErrMissingConfig) {
			t.Fatalf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		s, err := NewEmbeddingService(Config{BaseURL: "http://localhost"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.ModelName() != DefaultModel {
			t.Errorf("expected model %s, got %s", DefaultModel, s.ModelName())
		}
	})
}

func TestEmbeddingService_Embed(t *testing.T) {
	var gotAuth, gotPath string
	var gotReq embeddingRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"embedding": []float64{0.1, 0.2, 0.3}, "index": 0},
			},
		})
	}))
	defer server.Close()

	s, err := NewEmbeddingService(Config{BaseURL: server.URL, APIKey: "key-123", Model: "test-model"})
	if err != nil {
		t.Fatal(err)
	}

	vector, err := s.Embed(t.Context(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(vector) != 3 || vector[1] != float32(0.2) {
		t.Errorf("unexpected vector: %v", vector)
	}
	if gotPath != "/embeddings" {
		t.Errorf("expected /embeddings, got %s", gotPath)
	}
	if gotAuth != "Bearer key-123" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if gotReq.Model != "test-model" || gotReq.Input != "hello" {
		t.Errorf("unexpected request: %+v", gotReq)
	}
	if s.Dimensions() != 3 {
		t.Errorf("expected dimensions learned as 3, got %d", s.Dimensions())
	}
}

func TestEmbeddingService_Embed_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "model not found", "type": "invalid_request_error"},
		})
	}))
	defer server.Close()

	s, _ := NewEmbeddingService(Config{BaseURL: server.URL})
	_, err := s.Embed(t.Context(), "hello")
	if !errors.Is(err, domain.ErrEmbeddingService) {
		t.Fatalf("expected ErrEmbeddingService, got %v", err)
	}
}

func TestEmbeddingService_Embed_EmptyData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))
	defer server.Close()

	s, _ := NewEmbeddingService(Config{BaseURL: server.URL})
	_, err := s.Embed(t.Context(), "hello")
	if !errors.Is(err, domain.ErrEmbeddingService) {
		t.Fatalf("expected ErrEmbeddingService, got %v", err)
	}
}

func TestEmbeddingService_Embed_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	s, _ := NewEmbeddingService(Config{BaseURL: server.URL})
	_, err := s.Embed(t.Context(), "hello")
	if !errors.Is(err, domain.ErrEmbeddingService) {
		t.Fatalf("expected ErrEmbeddingService, got %v", err)
	}
}

func TestEmbeddingService_Embed_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))
	defer server.Close()

	s, _ := NewEmbeddingService(Config{BaseURL: server.URL, Timeout: 20 * time.Millisecond})
	_, err := s.Embed(t.Context(), "hello")
	if !errors.Is(err, domain.ErrEmbeddingTimeout) {
		t.Fatalf("expected ErrEmbeddingTimeout, got %v", err)
	}
}

func TestEmbeddingService_Embed_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	server.Close() // refuse connections

	s, _ := NewEmbeddingService(Config{BaseURL: server.URL})
	_, err := s.Embed(t.Context(), "hello")
	if !errors.Is(err, domain.ErrEmbeddingService) {
		t.Fatalf("a refused connection is a service error, got %v", err)
	}
}
