package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that a chunk store database driver must implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	// CreateChunk persists a chunk if its content hash is new, inside its
	// own transaction. It returns ErrChunkExists on a content-hash or
	// (doc_id, chunk_index) collision and never overwrites existing rows.
	CreateChunk(ctx context.Context, create *DocumentChunk) (*DocumentChunk, error)

	// SearchChunks returns up to limit chunks ordered by ascending cosine
	// distance to the query vector.
	SearchChunks(ctx context.Context, vector []float32, limit int) ([]*ChunkSearchResult, error)

	// ListChunks lists persisted chunks.
	ListChunks(ctx context.Context, find *FindDocumentChunk) ([]*DocumentChunk, error)
}
