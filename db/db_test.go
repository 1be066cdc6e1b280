package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryantanww/MovAI/apperror"
	"github.com/ryantanww/MovAI/config"
)

func memoryConfig() *config.DatabaseConfig {
	return &config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:", MaxOpenConns: 4}
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file::memory:?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", SQLiteDSN(":memory:"))
	assert.Equal(t, "file:/tmp/movai.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", SQLiteDSN("/tmp/movai.db"))
}

func TestOpen_MemoryDatabaseUsesSingleConnection(t *testing.T) {
	conn, err := Open(context.Background(), memoryConfig())
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, 1, conn.Stats().MaxOpenConnections)

	var fk int
	require.NoError(t, conn.Get(&fk, "PRAGMA foreign_keys"))
	assert.Equal(t, 1, fk)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.DatabaseConfig{Driver: "mysql"})
	require.Error(t, err)
	appErr, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.ConfigError, appErr.Type)
}

func TestRunMigrations_CreatesSchemaAndIsIdempotent(t *testing.T) {
	cfg := memoryConfig()
	conn, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, RunMigrations(conn, cfg))
	require.NoError(t, RunMigrations(conn, cfg), "second run must be a no-op")

	var tables []string
	require.NoError(t, conn.Select(&tables,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'watchlist') ORDER BY name`))
	assert.Equal(t, []string{"users", "watchlist"}, tables)

	version, dirty, ok, err := MigrationVersion(conn, cfg)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), version)

	// The shared handle must survive the migrator.
	require.NoError(t, conn.Ping())
}

func TestRunMigrations_CascadeDeletesWatchlist(t *testing.T) {
	cfg := memoryConfig()
	conn, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, RunMigrations(conn, cfg))

	conn.MustExec(`INSERT INTO users (username, email, password) VALUES ('ann', 'ann@example.com', 'x')`)
	conn.MustExec(`INSERT INTO watchlist (user_id, movie_id, title) VALUES (1, 550, 'Fight Club')`)
	conn.MustExec(`DELETE FROM users WHERE user_id = 1`)

	var n int
	require.NoError(t, conn.Get(&n, `SELECT COUNT(*) FROM watchlist`))
	assert.Zero(t, n)
}

func TestRollbackMigrations(t *testing.T) {
	cfg := &config.DatabaseConfig{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "movai.db"), MaxOpenConns: 1}
	conn, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer conn.Close()

	_, _, ok, err := MigrationVersion(conn, cfg)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, RunMigrations(conn, cfg))
	require.NoError(t, RollbackMigrations(conn, cfg))

	var n int
	require.NoError(t, conn.Get(&n, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'users'`))
	assert.Zero(t, n)
}
