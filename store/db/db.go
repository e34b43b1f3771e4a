package db

import (
	"github.com/pkg/errors"

	"github.com/hrygo/ragcore/internal/profile"
	"github.com/hrygo/ragcore/store"
	"github.com/hrygo/ragcore/store/db/postgres"
	"github.com/hrygo/ragcore/store/db/sqlite"
)

// ============================================================================
// DATABASE SUPPORT POLICY
// ============================================================================
// PostgreSQL: Full support for production use (pgvector similarity search).
// SQLite: Limited support for development/testing only. Embeddings are stored
// as JSON and ranked in-process, which does not scale past small corpora.
// ============================================================================

// NewDBDriver creates new db driver based on profile.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.New("unknown db driver: only 'postgres' and 'sqlite' are supported")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
