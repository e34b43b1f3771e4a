package store

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/pkg/errors"
)

// ErrChunkExists is the distinguishable duplicate signal raised when a chunk
// with the same content hash is already persisted. Callers treat it as an
// expected dedup outcome, not a failure.
var ErrChunkExists = errors.New("chunk with identical content already exists")

// DocumentChunk is one persisted chunk row. Rows are written once by the
// ingestion worker and are read-only thereafter.
//
// The content hash is unique across ALL documents, not per document: an
// identical paragraph ingested under a second document collides and only the
// first row is retained, still attributed to the first document. This mirrors
// the upstream behavior and is deliberately left as-is.
type DocumentChunk struct {
	ID          int64
	DocID       string
	Title       string
	Source      string
	ChunkIndex  int
	Content     string
	ContentHash string
	Embedding   []float32
	CreatedTs   int64
}

// ChunkSearchResult pairs a chunk with its cosine distance to a query vector.
type ChunkSearchResult struct {
	Chunk    *DocumentChunk
	Distance float64
}

// FindDocumentChunk is the filter for listing chunks.
type FindDocumentChunk struct {
	DocID *string
	Limit *int
}

// ContentHash computes the deterministic dedup key for chunk content.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
