package migration

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	ups, err := fs.Glob(migrationFS, "sql/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrationFS, "sql/*.down.sql")
	require.NoError(t, err)

	require.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups), "every up migration needs a down migration")

	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		assert.Contains(t, downs, down)
	}
}

func TestEmbeddedMigrations_CreateAllTables(t *testing.T) {
	var all strings.Builder
	ups, err := fs.Glob(migrationFS, "sql/*.up.sql")
	require.NoError(t, err)
	for _, up := range ups {
		b, err := fs.ReadFile(migrationFS, up)
		require.NoError(t, err)
		all.Write(b)
	}

	for _, table := range []string{"users", "employees", "documents", "population_records", "investments", "activities"} {
		assert.Contains(t, all.String(), "CREATE TABLE IF NOT EXISTS "+table+" (", table)
	}
}
