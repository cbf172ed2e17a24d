package domain

import (
	"fmt"
	"time"
)

// Document represents an ingested document's metadata.
// The raw file contents are not kept here; only the extracted,
// normalised text survives ingestion, split into chunks.
type Document struct {
	// ID is the opaque unique identifier generated at ingestion.
	ID string

	// Filename is the original name of the uploaded file.
	Filename string

	// ChunkCount is the number of chunks produced at ingestion.
	ChunkCount int

	// Indexed reports whether embeddings for every chunk have been
	// stored in the vector index. False until indexing completes.
	Indexed bool

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}

// Chunk is a bounded, possibly-overlapping substring of a document's
// extracted text. It is the unit of embedding and retrieval.
//
// A chunk's external identity is the (DocumentID, Index) pair. Re-chunking
// a document with different windowing parameters breaks the mapping
// between chunk index and stored vector entry, so the same parameters
// must be used for the document's whole lifetime.
type Chunk struct {
	// DocumentID links to the parent Document.
	DocumentID string

	// Index is the zero-based position within the document.
	Index int

	// Text is the chunk's content.
	Text string
}

// VectorID returns the chunk's identifier in the vector index,
// derived from the stable (document id, index) pair.
func (c Chunk) VectorID() string {
	return VectorID(c.DocumentID, c.Index)
}

// VectorID derives the vector index identifier for a chunk position.
func VectorID(documentID string, index int) string {
	return fmt.Sprintf("%s_%d", documentID, index)
}
