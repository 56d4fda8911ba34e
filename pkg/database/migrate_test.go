package database

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewclock.service/internal/config"
)

func TestParseVersion(t *testing.T) {
	v, err := parseVersion("0001_init.sql")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = parseVersion("init.sql")
	assert.Error(t, err)
	_, err = parseVersion("abc_init.sql")
	assert.Error(t, err)
}

func TestEmbeddedMigrationsAreVersioned(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "sql/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	seen := map[int]bool{}
	for _, f := range files {
		v, err := parseVersion(f[len("sql/"):])
		require.NoError(t, err, f)
		assert.False(t, seen[v], "duplicate migration version %d", v)
		seen[v] = true
	}
}

func TestDSN(t *testing.T) {
	cfg := config.Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d"}
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", DSN(cfg))
}
