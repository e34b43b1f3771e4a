package store

import (
	"context"

	"github.com/hrygo/ragcore/internal/profile"
)

// Store provides database access to persisted chunks.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// CreateChunk persists a chunk with dedup semantics; see Driver.CreateChunk.
func (s *Store) CreateChunk(ctx context.Context, create *DocumentChunk) (*DocumentChunk, error) {
	if create.ContentHash == "" {
		create.ContentHash = ContentHash(create.Content)
	}
	return s.driver.CreateChunk(ctx, create)
}

// SearchChunks returns up to limit chunks ordered by ascending distance.
func (s *Store) SearchChunks(ctx context.Context, vector []float32, limit int) ([]*ChunkSearchResult, error) {
	return s.driver.SearchChunks(ctx, vector, limit)
}

// ListChunks lists persisted chunks.
func (s *Store) ListChunks(ctx context.Context, find *FindDocumentChunk) ([]*DocumentChunk, error) {
	return s.driver.ListChunks(ctx, find)
}
