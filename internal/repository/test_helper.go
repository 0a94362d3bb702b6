package repository

import (
	"testing"

	"github.com/smartpos/pos-engine/pkg/sqlite"
	"github.com/stretchr/testify/require"
)

// setupTestDB opens an in-memory database and runs the real
// migrations, so tests see the exact production schema including the
// partial unique indexes and the seeded settings row.
func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()

	db, err := sqlite.OpenMemory()
	require.NoError(t, err)
	require.NoError(t, db.Migrate())

	return db
}
