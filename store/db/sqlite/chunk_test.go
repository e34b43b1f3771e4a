package sqlite

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/ragcore/internal/profile"
	"github.com/hrygo/ragcore/store"
)

func newTestDB(t *testing.T) store.Driver {
	t.Helper()
	p := &profile.Profile{
		Mode:                "dev",
		Driver:              "sqlite",
		Data:                t.TempDir(),
		EmbeddingDimensions: 4,
	}
	require.NoError(t, p.Validate())

	driver, err := NewDB(p)
	require.NoError(t, err)
	t.Cleanup(func() { driver.Close() })
	return driver
}

func makeChunk(docID string, index int, content string, embedding []float32) *store.DocumentChunk {
	return &store.DocumentChunk{
		DocID:       docID,
		ChunkIndex:  index,
		Content:     content,
		ContentHash: store.ContentHash(content),
		Embedding:   embedding,
		CreatedTs:   1700000000,
	}
}

func TestCreateAndListChunks(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()

	created, err := d.CreateChunk(ctx, makeChunk("doc-1", 0, "first chunk", []float32{1, 0, 0, 0}))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	_, err = d.CreateChunk(ctx, makeChunk("doc-1", 1, "second chunk", []float32{0, 1, 0, 0}))
	require.NoError(t, err)

	docID := "doc-1"
	chunks, err := d.ListChunks(ctx, &store.FindDocumentChunk{DocID: &docID})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "first chunk", chunks[0].Content)
	assert.Equal(t, []float32{0, 1, 0, 0}, chunks[1].Embedding)
}

func TestCreateChunkDuplicateContent(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()

	_, err := d.CreateChunk(ctx, makeChunk("doc-1", 0, "the same paragraph", []float32{1, 0, 0, 0}))
	require.NoError(t, err)

	// Identical content from an unrelated document collides on the global
	// content hash and is rejected, not overwritten.
	_, err = d.CreateChunk(ctx, makeChunk("doc-2", 0, "the same paragraph", []float32{1, 0, 0, 0}))
	assert.True(t, errors.Is(err, store.ErrChunkExists))

	chunks, err := d.ListChunks(ctx, &store.FindDocumentChunk{})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "doc-1", chunks[0].DocID)
}

func TestCreateChunkDuplicateIndex(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()

	_, err := d.CreateChunk(ctx, makeChunk("doc-1", 0, "content a", []float32{1, 0, 0, 0}))
	require.NoError(t, err)

	_, err = d.CreateChunk(ctx, makeChunk("doc-1", 0, "content b", []float32{0, 1, 0, 0}))
	assert.True(t, errors.Is(err, store.ErrChunkExists))
}

func TestSearchChunksRanksByCosineDistance(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()

	_, err := d.CreateChunk(ctx, makeChunk("doc-1", 0, "orthogonal", []float32{0, 1, 0, 0}))
	require.NoError(t, err)
	_, err = d.CreateChunk(ctx, makeChunk("doc-1", 1, "identical direction", []float32{2, 0, 0, 0}))
	require.NoError(t, err)
	_, err = d.CreateChunk(ctx, makeChunk("doc-1", 2, "opposite", []float32{-1, 0, 0, 0}))
	require.NoError(t, err)

	results, err := d.SearchChunks(ctx, []float32{1, 0, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "identical direction", results[0].Chunk.Content)
	assert.InDelta(t, 0, results[0].Distance, 1e-6)
	assert.Equal(t, "orthogonal", results[1].Chunk.Content)
	assert.InDelta(t, 1, results[1].Distance, 1e-6)
	assert.Equal(t, "opposite", results[2].Chunk.Content)
	assert.InDelta(t, 2, results[2].Distance, 1e-6)
}

func TestSearchChunksLimit(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := d.CreateChunk(ctx, makeChunk("doc-1", i, string(rune('a'+i))+" content", []float32{float32(i), 1, 0, 0}))
		require.NoError(t, err)
	}

	results, err := d.SearchChunks(ctx, []float32{1, 0, 0, 0}, 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}
