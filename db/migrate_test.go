package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate(t *testing.T) {
	t.Run("applies all migrations", func(t *testing.T) {
		database, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
		require.NoError(t, err)
		defer database.Close()

		require.NoError(t, Migrate(database, nil))

		// Dataset tables exist
		for _, table := range []string{"schema_migrations", "datasets", "dataset_rows"} {
			var name string
			err := database.QueryRow(
				"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
			).Scan(&name)
			require.NoError(t, err, "table %s should exist", table)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		database, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
		require.NoError(t, err)
		defer database.Close()

		require.NoError(t, Migrate(database, nil))
		require.NoError(t, Migrate(database, nil))

		var count int
		err = database.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 2, count, "each migration recorded exactly once")
	})
}
