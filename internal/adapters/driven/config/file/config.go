// Package file loads the docqa configuration from a TOML file with
// environment variable overrides.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the full application configuration.
type Config struct {
	DataDir   string          `toml:"data_dir"`
	Chunking  ChunkingConfig  `toml:"chunking"`
	Embedding ServiceConfig   `toml:"embedding"`
	LLM       ServiceConfig   `toml:"llm"`
	Vector    VectorConfig    `toml:"vector"`
	Cache     CacheConfig     `toml:"cache"`
	Indexing  IndexingConfig  `toml:"indexing"`
	Retrieval RetrievalConfig `toml:"retrieval"`
}

// ChunkingConfig controls how extracted text is split.
type ChunkingConfig struct {
	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`
}

// ServiceConfig describes an OpenAI-compatible HTTP service.
type ServiceConfig struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the configured timeout, or zero if unset.
func (c ServiceConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// VectorConfig selects and configures the vector index backend.
type VectorConfig struct {
	// Backend is either "qdrant" or "milvus".
	Backend    string `toml:"backend"`
	URL        string `toml:"url"`
	APIKey     string `toml:"api_key"`
	Collection string `toml:"collection"`
}

// CacheConfig controls the answer cache.
type CacheConfig struct {
	// Backend is either "sqlite" or "memory".
	Backend    string `toml:"backend"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// TTL returns the configured answer TTL, or zero if unset.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// IndexingConfig controls embedding fan-out during indexing.
type IndexingConfig struct {
	Workers         int     `toml:"workers"`
	EmbedsPerSecond float64 `toml:"embeds_per_second"`
	EmbedBurst      int     `toml:"embed_burst"`
}

// RetrievalConfig controls retrieval during querying.
type RetrievalConfig struct {
	TopK int `toml:"top_k"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Chunking: ChunkingConfig{Size: 500, Overlap: 100},
		Embedding: ServiceConfig{
			BaseURL:        "http://localhost:8080/v1",
			Model:          "bge-m3",
			TimeoutSeconds: 30,
		},
		LLM: ServiceConfig{
			BaseURL:        "http://localhost:8081/v1",
			Model:          "gpt-oss-20b",
			TimeoutSeconds: 60,
		},
		Vector: VectorConfig{
			Backend:    "qdrant",
			URL:        "http://localhost:6333",
			Collection: "documents",
		},
		Cache: CacheConfig{
			Backend:    "sqlite",
			TTLSeconds: 3600,
		},
		Indexing:  IndexingConfig{Workers: 4},
		Retrieval: RetrievalConfig{TopK: 5},
	}
}

// Load reads configuration from path, falling back to
// ~/.docqa/config.toml when path is empty. A missing file is not an
// error; defaults apply. Environment variables override file values.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, ".docqa", "config.toml")
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// Defaults apply
		default:
			return cfg, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv overlays DOCQA_* environment variables onto cfg.
func applyEnv(cfg *Config) {
	setString(&cfg.DataDir, "DOCQA_DATA_DIR")
	setString(&cfg.Embedding.BaseURL, "DOCQA_EMBEDDING_URL")
	setString(&cfg.Embedding.APIKey, "DOCQA_EMBEDDING_API_KEY")
	setString(&cfg.Embedding.Model, "DOCQA_EMBEDDING_MODEL")
	setString(&cfg.LLM.BaseURL, "DOCQA_LLM_URL")
	setString(&cfg.LLM.APIKey, "DOCQA_LLM_API_KEY")
	setString(&cfg.LLM.Model, "DOCQA_LLM_MODEL")
	setString(&cfg.Vector.Backend, "DOCQA_VECTOR_BACKEND")
	setString(&cfg.Vector.URL, "DOCQA_VECTOR_URL")
	setString(&cfg.Vector.APIKey, "DOCQA_VECTOR_API_KEY")
	setString(&cfg.Vector.Collection, "DOCQA_VECTOR_COLLECTION")
	setString(&cfg.Cache.Backend, "DOCQA_CACHE_BACKEND")
	setInt(&cfg.Cache.TTLSeconds, "DOCQA_CACHE_TTL_SECONDS")
	setInt(&cfg.Chunking.Size, "DOCQA_CHUNK_SIZE")
	setInt(&cfg.Chunking.Overlap, "DOCQA_CHUNK_OVERLAP")
	setInt(&cfg.Indexing.Workers, "DOCQA_INDEX_WORKERS")
	setInt(&cfg.Retrieval.TopK, "DOCQA_TOP_K")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
