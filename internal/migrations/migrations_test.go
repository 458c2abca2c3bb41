package migrations

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pharmacy/m/internal/database"
)

func TestRunIsIdempotent(t *testing.T) {
	db, err := database.Connect(filepath.Join(t.TempDir(), "schema.db"), time.Second)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Run(db))
	require.NoError(t, Run(db))

	var tables []string
	require.NoError(t, db.Select(&tables,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('medicines','clients','recipes','supplies','sales') ORDER BY name`))
	require.Equal(t, []string{"clients", "medicines", "recipes", "sales", "supplies"}, tables)
}
