package sqlite

import (
	"database/sql"

	"github.com/pkg/errors"
	// Import the pure-Go SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/hrygo/ragcore/internal/profile"
	"github.com/hrygo/ragcore/store"
)

// ============================================================================
// SQLITE SUPPORT (Development / Testing - Limited)
// ============================================================================
// SQLite has no pgvector equivalent. Embeddings are stored as JSON text and
// the ranked scan loads candidate rows and computes cosine distance in-process.
// Fine for dev corpora; use PostgreSQL in production.
// ============================================================================

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}

	db, err := sql.Open("sqlite", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database: %s", profile.DSN)
	}

	// SQLite serializes writes anyway; more connections just contend.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	driver := &DB{db: db, profile: profile}
	if err := driver.ensureSchema(); err != nil {
		return nil, errors.Wrap(err, "failed to ensure schema")
	}

	return driver, nil
}

func (d *DB) ensureSchema() error {
	stmt := `
		CREATE TABLE IF NOT EXISTS document_chunk (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			doc_id TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL DEFAULT '',
			chunk_index INTEGER NOT NULL,
			content TEXT NOT NULL,
			content_hash TEXT NOT NULL UNIQUE,
			embedding TEXT NOT NULL,
			created_ts BIGINT NOT NULL,
			UNIQUE (doc_id, chunk_index)
		)
	`
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
