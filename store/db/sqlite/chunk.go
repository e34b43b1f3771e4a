package sqlite

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/hrygo/ragcore/plugin/ai"
	"github.com/hrygo/ragcore/store"
)

// CreateChunk inserts a chunk inside its own transaction. Duplicate content
// (or a repeated (doc_id, chunk_index) pair) maps to store.ErrChunkExists.
func (d *DB) CreateChunk(ctx context.Context, create *store.DocumentChunk) (*store.DocumentChunk, error) {
	embedding, err := json.Marshal(create.Embedding)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode embedding")
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	stmt := `
		INSERT INTO document_chunk (doc_id, title, source, chunk_index, content, content_hash, embedding, created_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, stmt,
		create.DocID,
		create.Title,
		create.Source,
		create.ChunkIndex,
		create.Content,
		create.ContentHash,
		string(embedding),
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

// SearchChunks loads every chunk and ranks by cosine distance in-process.
// Acceptable for the dev/testing corpora this driver targets.
func (d *DB) SearchChunks(ctx context.Context, vector []float32, limit int) ([]*store.ChunkSearchResult, error) {
	if limit <= 0 {
		limit = 10
	}

	chunks, err := d.ListChunks(ctx, &store.FindDocumentChunk{})
	if err != nil {
		return nil, err
	}

	results := make([]*store.ChunkSearchResult, 0, len(chunks))
	for _, chunk := range chunks {
		results = append(results, &store.ChunkSearchResult{
			Chunk:    chunk,
			Distance: ai.CosineDistance(vector, chunk.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// ListChunks lists persisted chunks.
func (d *DB) ListChunks(ctx context.Context, find *store.FindDocumentChunk) ([]*store.DocumentChunk, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.DocID != nil {
		where, args = append(where, "doc_id = ?"), append(args, *find.DocID)
	}

	query := `
		SELECT id, doc_id, title, source, chunk_index, content, content_hash, embedding, created_ts
		FROM document_chunk
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY doc_id, chunk_index
	`
	if find.Limit != nil {
		query += " LIMIT ?"
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
		var embedding string
		err := rows.Scan(
			&chunk.ID,
			&chunk.DocID,
			&chunk.Title,
			&chunk.Source,
			&chunk.ChunkIndex,
			&chunk.Content,
			&chunk.ContentHash,
			&embedding,
			&chunk.CreatedTs,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan chunk")
		}
		if err := json.Unmarshal([]byte(embedding), &chunk.Embedding); err != nil {
			return nil, errors.Wrap(err, "failed to decode embedding")
		}
		list = append(list, &chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// isUniqueViolation reports whether err is a SQLite unique constraint
// violation. modernc.org/sqlite does not export a stable error type for
// this, so match the canonical message.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
