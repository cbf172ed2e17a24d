package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidChunking indicates chunk size/overlap parameters that
	// would make the split non-terminating. Fatal at configuration
	// time, never recoverable per request.
	ErrInvalidChunking = errors.New("invalid chunking parameters")

	// ErrMissingConfig indicates a required endpoint or credential is
	// absent from the configuration. Fatal at startup.
	ErrMissingConfig = errors.New("missing required configuration")

	// ErrUnsupportedFormat indicates an uploaded file's format has no
	// registered extractor.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNotIndexed indicates the document exists but its embeddings
	// have not been stored, so it cannot be queried yet.
	ErrNotIndexed = errors.New("document not indexed")

	// Hard dependency errors. A failure in any of these surfaces to the
	// caller as a request-level failure; an answer is never fabricated
	// without context.

	// ErrEmbeddingService indicates the embedding service returned a
	// non-2xx response or a malformed payload.
	ErrEmbeddingService = errors.New("embedding service failed")

	// ErrEmbeddingTimeout indicates the embedding call exceeded its
	// deadline. Kept distinct from ErrEmbeddingService so callers can
	// tell "service slow" from "service rejected request".
	ErrEmbeddingTimeout = errors.New("embedding service timed out")

	// ErrGenerationService indicates the generation service returned a
	// non-2xx response or a malformed payload.
	ErrGenerationService = errors.New("generation service failed")

	// ErrGenerationTimeout indicates the generation call exceeded its
	// deadline.
	ErrGenerationTimeout = errors.New("generation service timed out")

	// ErrVectorIndex indicates the vector store is unavailable. During
	// ingestion the indexed flag is withheld when this occurs.
	ErrVectorIndex = errors.New("vector index unavailable")

	// ErrDimensionMismatch indicates an embedding whose dimensionality
	// differs from the vectors already stored. This is a fatal
	// ingestion error, never silently ignored.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
