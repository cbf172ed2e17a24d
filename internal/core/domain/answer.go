package domain

// NoMatchAnswer is the fixed answer returned when the vector index has
// no chunks for the requested document. It is cached like any other
// answer so repeated unanswerable questions skip retrieval entirely.
const NoMatchAnswer = "Tidak ditemukan data relevan di dokumen."

// ChunkRef identifies a retrieved chunk's position within its document.
type ChunkRef struct {
	// DocumentID is the owning document.
	DocumentID string `json:"document_id"`

	// ChunkIndex is the chunk's zero-based position in the document.
	ChunkIndex int `json:"chunk_index"`
}

// RetrievedChunk is one nearest-neighbour hit from the vector index.
// It is ephemeral, produced per query and never persisted outside the
// answer cache payload.
type RetrievedChunk struct {
	// Text is the chunk's content.
	Text string `json:"chunk"`

	// Score is the cosine distance to the query vector. Lower is more
	// similar.
	Score float64 `json:"score"`

	// Metadata locates the chunk within its document.
	Metadata ChunkRef `json:"metadata"`
}

// Answer is the payload produced for a (document, question) pair and
// the value stored in the answer cache. Once written it is immutable
// until the cache entry expires.
type Answer struct {
	// Question is the question exactly as asked.
	Question string `json:"question"`

	// Text is the generated answer, or NoMatchAnswer when retrieval
	// found nothing.
	Text string `json:"answer"`

	// ContextUsed lists the retrieved chunks the answer was grounded
	// on, ordered by ascending distance. Empty for no-match answers.
	ContextUsed []RetrievedChunk `json:"context_used"`
}
