package postgres

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	// Import the PostgreSQL driver.
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/hrygo/ragcore/internal/profile"
	"github.com/hrygo/ragcore/store"
)

// ============================================================================
// POSTGRESQL SUPPORT (Production - Full Support)
// ============================================================================
// PostgreSQL is the PRIMARY database for production use. Vector similarity
// search runs inside the database via the pgvector extension, so ranked scans
// stay index-friendly regardless of corpus size.
// ============================================================================

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}

	db, err := sql.Open("postgres", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database: %s", profile.DSN)
	}

	// The ingestion worker and the query path are the only consumers, so a
	// small pool is plenty.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(2 * time.Hour)
	db.SetConnMaxIdleTime(15 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	driver := &DB{db: db, profile: profile}
	if err := driver.ensureSchema(); err != nil {
		return nil, errors.Wrap(err, "failed to ensure schema")
	}

	return driver, nil
}

// ensureSchema bootstraps the pgvector extension and the chunk table. The
// vector column width is fixed per deployment and must match the embedding
// provider's dimensionality; a mismatch fails here, at startup.
func (d *DB) ensureSchema() error {
	if _, err := d.db.Exec(`CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return errors.Wrap(err, "failed to create vector extension")
	}

	stmt := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS document_chunk (
			id BIGSERIAL PRIMARY KEY,
			doc_id TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL DEFAULT '',
			chunk_index INTEGER NOT NULL,
			content TEXT NOT NULL,
			content_hash TEXT NOT NULL UNIQUE,
			embedding vector(%d) NOT NULL,
			created_ts BIGINT NOT NULL,
			UNIQUE (doc_id, chunk_index)
		)
	`, d.profile.EmbeddingDimensions)
	if _, err := d.db.Exec(stmt); err != nil {
		return errors.Wrap(err, "failed to create document_chunk table")
	}

	return nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

// placeholder returns a positional parameter placeholder ($1, $2, ...).
func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// placeholders returns a comma-joined list of positional placeholders.
func placeholders(n int) string {
	list := []string{}
	for i := 1; i <= n; i++ {
		list = append(list, placeholder(i))
	}
	return strings.Join(list, ", ")
}
