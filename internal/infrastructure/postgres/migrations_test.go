package postgres

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateURL(t *testing.T) {
	cases := map[string]string{
		"postgres://app:p%40ss@db:5432/ledger?sslmode=disable": "pgx5://app:p%40ss@db:5432/ledger?sslmode=disable",
		"postgresql://app@db/ledger":                           "pgx5://app@db/ledger",
		"pgx5://app@db/ledger":                                 "pgx5://app@db/ledger",
	}
	for in, want := range cases {
		got, err := migrateURL(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := migrateURL("host=db user=app dbname=ledger")
	assert.Error(t, err)
}

func TestMigrationSource_ScriptsEmbebidos(t *testing.T) {
	src, err := migrationSource()
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	up, ident, err := src.ReadUp(first)
	require.NoError(t, err)
	defer up.Close()
	assert.Equal(t, "init", ident)
	body, err := io.ReadAll(up)
	require.NoError(t, err)
	assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS stock_batches")

	down, _, err := src.ReadDown(first)
	require.NoError(t, err)
	defer down.Close()
	body, err = io.ReadAll(down)
	require.NoError(t, err)
	assert.Contains(t, string(body), "DROP TABLE IF EXISTS stock_batches")
}
