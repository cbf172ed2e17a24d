// Command docqa answers questions grounded in uploaded documents.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	cachememory "github.com/custodia-labs/docqa/internal/adapters/driven/cache/memory"
	"github.com/custodia-labs/docqa/internal/adapters/driven/config/file"
	embeddingopenai "github.com/custodia-labs/docqa/internal/adapters/driven/embedding/openai"
	llmopenai "github.com/custodia-labs/docqa/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docqa/internal/adapters/driven/vectorindex/milvus"
	"github.com/custodia-labs/docqa/internal/adapters/driven/vectorindex/qdrant"
	"github.com/custodia-labs/docqa/internal/adapters/driving/cli"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/services"
	"github.com/custodia-labs/docqa/internal/normalisers"
	"github.com/custodia-labs/docqa/internal/normalisers/docx"
	"github.com/custodia-labs/docqa/internal/normalisers/markdown"
	"github.com/custodia-labs/docqa/internal/normalisers/plaintext"
	"github.com/custodia-labs/docqa/internal/postprocessors/chunker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is fine; explicit environment still applies.
	_ = godotenv.Load()

	cfg, err := file.Load(os.Getenv("DOCQA_CONFIG"))
	if err != nil {
		return err
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	embedder, err := embeddingopenai.NewEmbeddingService(embeddingopenai.Config{
		BaseURL: cfg.Embedding.BaseURL,
		APIKey:  cfg.Embedding.APIKey,
		Model:   cfg.Embedding.Model,
		Timeout: cfg.Embedding.Timeout(),
	})
	if err != nil {
		return fmt.Errorf("configuring embedding service: %w", err)
	}
	defer embedder.Close()

	llm, err := llmopenai.NewGenerationService(llmopenai.Config{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout(),
	})
	if err != nil {
		return fmt.Errorf("configuring llm service: %w", err)
	}
	defer llm.Close()

	index, err := newVectorIndex(cfg.Vector)
	if err != nil {
		return fmt.Errorf("configuring vector index: %w", err)
	}
	defer index.Close()

	cache, err := newAnswerCache(cfg.Cache, store)
	if err != nil {
		return err
	}

	ch, err := chunker.New(
		chunker.WithSize(cfg.Chunking.Size),
		chunker.WithOverlap(cfg.Chunking.Overlap),
	)
	if err != nil {
		return fmt.Errorf("configuring chunker: %w", err)
	}

	registry := normalisers.NewRegistry(
		plaintext.New(),
		markdown.New(),
		docx.New(),
	)

	ingestOpts := []services.IngestOption{
		services.WithEmbedWorkers(cfg.Indexing.Workers),
	}
	if cfg.Indexing.EmbedsPerSecond > 0 {
		ingestOpts = append(ingestOpts,
			services.WithEmbedRateLimit(cfg.Indexing.EmbedsPerSecond, cfg.Indexing.EmbedBurst))
	}

	ingest := services.NewIngestService(registry, ch, store.DocumentStore(), embedder, index, ingestOpts...)
	query := services.NewQueryService(embedder, index, llm, cache,
		services.WithTopK(cfg.Retrieval.TopK),
		services.WithCacheTTL(cfg.Cache.TTL()),
	)

	cli.SetServices(query, ingest)
	return cli.Execute()
}

// newVectorIndex builds the configured vector index backend.
func newVectorIndex(cfg file.VectorConfig) (driven.VectorIndex, error) {
	switch cfg.Backend {
	case "", "qdrant":
		return qdrant.New(qdrant.Config{
			URL:        cfg.URL,
			APIKey:     cfg.APIKey,
			Collection: cfg.Collection,
		})
	case "milvus":
		return milvus.New(context.Background(), milvus.Config{
			Address:    cfg.URL,
			Collection: cfg.Collection,
		})
	default:
		return nil, fmt.Errorf("unknown vector backend %q", cfg.Backend)
	}
}

// newAnswerCache builds the configured answer cache backend.
func newAnswerCache(cfg file.CacheConfig, store *sqlite.Store) (driven.AnswerCache, error) {
	switch cfg.Backend {
	case "", "sqlite":
		return store.AnswerCache(), nil
	case "memory":
		return cachememory.New(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
