package postgres

import (
	"context"
	"strings"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	"github.com/hrygo/ragcore/store"
)

// CreateChunk inserts a chunk inside its own transaction. Unique violations
// on content_hash or (doc_id, chunk_index) surface as store.ErrChunkExists;
// the existing row is never touched.
func (d *DB) CreateChunk(ctx context.Context, create *store.DocumentChunk) (*store.DocumentChunk, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	stmt := `
		INSERT INTO document_chunk (doc_id, title, source, chunk_index, content, content_hash, embedding, created_ts)
		VALUES (` + placeholders(8) + `)
		RETURNING id
	`

	vector := pgvector.NewVector(create.Embedding)
	err = tx.QueryRowContext(ctx, stmt,
		create.DocID,
		create.Title,
		create.Source,
		create.ChunkIndex,
		create.Content,
		create.ContentHash,
		vector,
		create.CreatedTs,
	).Scan(&create.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrChunkExists
		}
		return nil, errors.Wrap(err, "failed to insert document chunk")
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit document chunk")
	}

	return create, nil
}

// SearchChunks performs vector similarity search using pgvector.
// The <=> operator computes cosine distance (1 - cosine_similarity), so
// ordering by it ascending returns the most similar chunks first.
func (d *DB) SearchChunks(ctx context.Context, vector []float32, limit int) ([]*store.ChunkSearchResult, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT
			id, doc_id, title, source, chunk_index, content, content_hash, created_ts,
			embedding <=> ` + placeholder(1) + ` AS distance
		FROM document_chunk
		ORDER BY embedding <=> ` + placeholder(2) + `
		LIMIT ` + placeholder(3)

	queryVector := pgvector.NewVector(vector)
	rows, err := d.db.QueryContext(ctx, query, queryVector, queryVector, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search chunks")
	}
	defer rows.Close()

	results := []*store.ChunkSearchResult{}
	for rows.Next() {
		var chunk store.DocumentChunk
		var distance float64
		err := rows.Scan(
			&chunk.ID,
			&chunk.DocID,
			&chunk.Title,
			&chunk.Source,
			&chunk.ChunkIndex,
			&chunk.Content,
			&chunk.ContentHash,
			&chunk.CreatedTs,
			&distance,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan chunk search result")
		}
		results = append(results, &store.ChunkSearchResult{Chunk: &chunk, Distance: distance})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// ListChunks lists persisted chunks, newest document order first.
func (d *DB) ListChunks(ctx context.Context, find *store.FindDocumentChunk) ([]*store.DocumentChunk, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.DocID != nil {
		where, args = append(where, "doc_id = "+placeholder(len(args)+1)), append(args, *find.DocID)
	}

	query := `
		SELECT id, doc_id, title, source, chunk_index, content, content_hash, embedding, created_ts
		FROM document_chunk
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY doc_id, chunk_index
	`
	if find.Limit != nil {
		query += " LIMIT " + placeholder(len(args)+1)
		args = append(args, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list chunks")
	}
	defer rows.Close()

	list := []*store.DocumentChunk{}
	for rows.Next() {
		var chunk store.DocumentChunk
		var vector pgvector.Vector
		err := rows.Scan(
			&chunk.ID,
			&chunk.DocID,
			&chunk.Title,
			&chunk.Source,
			&chunk.ChunkIndex,
			&chunk.Content,
			&chunk.ContentHash,
			&vector,
			&chunk.CreatedTs,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan chunk")
		}
		chunk.Embedding = vector.Slice()
		list = append(list, &chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
