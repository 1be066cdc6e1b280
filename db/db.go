// Package db opens the MovAI relational store and keeps its schema current.
//
// SQLite (pure Go, modernc.org/sqlite) is the default and is what the tests
// run against. PostgreSQL is supported through pgx's database/sql adapter.
// Both are exposed as a single *sqlx.DB so the store has one code path.
// Schema migrations are embedded in the binary and applied with golang-migrate.
package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // registers the postgres:// migrate URL scheme
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // used by migrate's postgres driver when it dials DATABASE_URL itself
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/ryantanww/MovAI/apperror"
	"github.com/ryantanww/MovAI/config"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// Names under which the drivers register with database/sql.
const (
	sqliteDriverName = "sqlite"
	pgxDriverName    = "pgx"
)

// Open connects to the configured database, applies pool settings and pings it.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	var (
		conn *sqlx.DB
		err  error
	)
	switch cfg.Driver {
	case config.DriverSQLite:
		conn, err = sqlx.Open(sqliteDriverName, SQLiteDSN(cfg.Path))
	case config.DriverPostgres:
		conn, err = sqlx.Open(pgxDriverName, cfg.URL)
	default:
		return nil, apperror.NewConfigError(fmt.Sprintf("unsupported database driver %q", cfg.Driver), nil)
	}
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to open database", err)
	}

	maxOpen := cfg.MaxOpenConns
	if cfg.Driver == config.DriverSQLite && isMemoryPath(cfg.Path) {
		// Every new connection to :memory: is a fresh, empty database.
		maxOpen = 1
	}
	if maxOpen > 0 {
		conn.SetMaxOpenConns(maxOpen)
		conn.SetMaxIdleConns(maxOpen)
	}
	if cfg.Driver == config.DriverPostgres {
		conn.SetConnMaxIdleTime(10 * time.Minute)
		conn.SetConnMaxLifetime(30 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, apperror.NewDatabaseError("failed to connect to database", err)
	}
	return conn, nil
}

// SQLiteDSN builds a modernc.org/sqlite DSN for path with foreign keys enforced
// and a busy timeout set on every connection.
func SQLiteDSN(path string) string {
	const pragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if isMemoryPath(path) {
		return "file::memory:?" + pragmas
	}
	return "file:" + path + "?" + pragmas
}

func isMemoryPath(path string) bool {
	return path == "" || path == ":memory:" || strings.HasPrefix(path, "file::memory:")
}

// RunMigrations applies every pending "up" migration for the configured driver.
// migrate.ErrNoChange is not an error.
func RunMigrations(conn *sqlx.DB, cfg *config.DatabaseConfig) error {
	m, done, err := newMigrator(conn, cfg)
	if err != nil {
		return err
	}
	defer done()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return apperror.NewMigrationError("failed to run migrations", err)
	}
	return nil
}

// RollbackMigrations reverts the most recent migration step.
func RollbackMigrations(conn *sqlx.DB, cfg *config.DatabaseConfig) error {
	m, done, err := newMigrator(conn, cfg)
	if err != nil {
		return err
	}
	defer done()

	if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return apperror.NewMigrationError("failed to roll back migration", err)
	}
	return nil
}

// MigrationVersion reports the applied schema version. ok is false on a
// database that has never been migrated.
func MigrationVersion(conn *sqlx.DB, cfg *config.DatabaseConfig) (version uint, dirty bool, ok bool, err error) {
	m, done, err := newMigrator(conn, cfg)
	if err != nil {
		return 0, false, false, err
	}
	defer done()

	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, apperror.NewMigrationError("failed to read migration version", err)
	}
	return version, dirty, true, nil
}

// newMigrator builds a migrate instance over the embedded SQL for cfg.Driver.
// The returned func releases whatever the migrator opened itself; it never
// closes conn, which the caller keeps using.
func newMigrator(conn *sqlx.DB, cfg *config.DatabaseConfig) (*migrate.Migrate, func(), error) {
	src, err := iofs.New(migrationsFS, "migrations/"+cfg.Driver)
	if err != nil {
		return nil, nil, apperror.NewMigrationError("failed to load embedded migrations", err)
	}

	switch cfg.Driver {
	case config.DriverSQLite:
		// Run on the shared handle: an in-memory database only exists there.
		drv, err := migratesqlite.WithInstance(conn.DB, &migratesqlite.Config{})
		if err != nil {
			return nil, nil, apperror.NewMigrationError("failed to create sqlite migration driver", err)
		}
		m, err := migrate.NewWithInstance("iofs", src, "sqlite", drv)
		if err != nil {
			return nil, nil, apperror.NewMigrationError("failed to create migrator", err)
		}
		// m.Close would close conn, so only the source is released.
		return m, func() { _ = src.Close() }, nil

	case config.DriverPostgres:
		// The postgres driver pins a connection for its advisory lock, so it
		// gets its own short-lived connection instead of one from the pool.
		m, err := migrate.NewWithSourceInstance("iofs", src, cfg.URL)
		if err != nil {
			return nil, nil, apperror.NewMigrationError("failed to create migrator", err)
		}
		return m, func() { _, _ = m.Close() }, nil

	default:
		return nil, nil, apperror.NewConfigError(fmt.Sprintf("unsupported database driver %q", cfg.Driver), nil)
	}
}
