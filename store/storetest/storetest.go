// Package storetest gives tests in other packages a real, migrated,
// in-memory store.
package storetest

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/ryantanww/MovAI/config"
	"github.com/ryantanww/MovAI/db"
	"github.com/ryantanww/MovAI/store"
)

// New opens an in-memory SQLite database, applies the migrations and closes
// it when the test ends.
func New(t testing.TB) *store.SQLStore {
	t.Helper()
	s, _ := NewWithDB(t)
	return s
}

// NewWithDB is New plus the underlying handle, for tests that need to change
// rows behind the store's back.
func NewWithDB(t testing.TB) (*store.SQLStore, *sqlx.DB) {
	t.Helper()
	cfg := &config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:", MaxOpenConns: 1}
	conn, err := db.Open(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(conn, cfg))

	s := store.NewSQLStore(conn)
	t.Cleanup(func() { _ = s.Close() })
	return s, conn
}
