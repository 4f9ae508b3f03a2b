package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_FileDatabaseEnablesForeignKeys(t *testing.T) {
	database, err := Open(context.Background(), filepath.Join(t.TempDir(), "rates.db"))
	require.NoError(t, err)
	defer database.Close()

	var enabled int
	require.NoError(t, database.QueryRow(`PRAGMA foreign_keys`).Scan(&enabled))
	assert.Equal(t, 1, enabled)
}

func TestOpen_MemoryDatabaseKeepsSingleConnection(t *testing.T) {
	database, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer database.Close()

	_, err = database.Exec(`CREATE TABLE probe (id INTEGER)`)
	require.NoError(t, err)

	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM probe`).Scan(&n))
	assert.Zero(t, n)
	assert.Equal(t, 1, database.Stats().MaxOpenConnections)
}
