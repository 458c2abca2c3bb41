// Package dbtest provisions migrated SQLite databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"pharmacy/m/internal/database"
	"pharmacy/m/internal/migrations"
)

// New returns a migrated database backed by a file in t.TempDir.
func New(t testing.TB) *sqlx.DB {
	t.Helper()
	db, err := database.Connect(filepath.Join(t.TempDir(), "pharmacy.db"), 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Run(db))
	return db
}
