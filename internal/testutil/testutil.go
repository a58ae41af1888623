// Package testutil provides shared test helpers for creating config files and SQLite databases.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/vocabreview/internal/config"
	"github.com/at-ishikawa/vocabreview/internal/database"
	"github.com/at-ishikawa/vocabreview/schemas"
)

// SetupTestConfig creates a config file for user "alice" and source "toefl" backed by a
// SQLite database in tmpDir. Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	configContent := fmt.Sprintf(`user_id: alice
source: toefl
database:
  driver: sqlite
  path: %s
learning:
  max_prep_days: 5
progress:
  debounce: 0s
`,
		filepath.Join(tmpDir, "vocabreview.db"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// OpenTestDatabase opens an in-memory SQLite database with every migration applied.
// The database is closed when the test ends.
func OpenTestDatabase(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{Driver: database.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = database.Migrate(context.Background(), db, schemas.Migrations)
	require.NoError(t, err)
	return db
}
