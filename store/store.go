// Package store is the MovAI credential store: accounts and watchlist entries
// kept in one relational database.
//
// Every write is a single statement. Uniqueness of usernames, emails and
// (user, movie) pairs is enforced by the schema, never by a read-then-write.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrConstraintViolation is returned when a write breaks a uniqueness constraint.
	ErrConstraintViolation = errors.New("constraint violation")
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// Store is the persistence contract used by the services.
type Store interface {
	CreateAccount(ctx context.Context, username, email, passwordHash string) (int64, error)
	FindAccountByIdentifier(ctx context.Context, identifier string) (*Account, error)
	FindAccountByID(ctx context.Context, userID int64) (*Account, error)

	AddWatchlistEntry(ctx context.Context, entry NewWatchlistEntry) error
	ListWatchlist(ctx context.Context, userID int64) ([]WatchlistEntry, error)
	RemoveWatchlistEntry(ctx context.Context, userID, movieID int64) (int64, error)

	Ping(ctx context.Context) error
	Close() error
}

// SQLStore implements Store on top of sqlx. Queries are written with '?'
// placeholders and rebound for the underlying driver.
type SQLStore struct {
	db *sqlx.DB
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore creates a SQLStore on an open, migrated handle. Close closes db.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

// CreateAccount inserts a new account and returns its id.
func (s *SQLStore) CreateAccount(ctx context.Context, username, email, passwordHash string) (int64, error) {
	query := s.db.Rebind(
		`INSERT INTO users (username, email, password)
		 VALUES (?, ?, ?)
		 RETURNING user_id`)

	var id int64
	err := s.db.QueryRowxContext(ctx, query, username, email, passwordHash).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("create account: %w", ErrConstraintViolation)
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

// FindAccountByIdentifier looks an account up by username or by email.
// Emails are stored lower-cased, so the email comparison uses the lower-cased
// identifier. If the identifier is one user's username and another's email,
// the username match wins.
func (s *SQLStore) FindAccountByIdentifier(ctx context.Context, identifier string) (*Account, error) {
	query := s.db.Rebind(
		`SELECT user_id, username, email, password FROM users
		 WHERE username = ? OR email = ?
		 ORDER BY CASE WHEN username = ? THEN 0 ELSE 1 END
		 LIMIT 1`)

	var acc Account
	err := s.db.GetContext(ctx, &acc, query, identifier, strings.ToLower(identifier), identifier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &acc, nil
}

// FindAccountByID returns the account with userID, or ErrNotFound.
func (s *SQLStore) FindAccountByID(ctx context.Context, userID int64) (*Account, error) {
	query := s.db.Rebind(
		`SELECT user_id, username, email, password FROM users
		 WHERE user_id = ?`)

	var acc Account
	err := s.db.GetContext(ctx, &acc, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &acc, nil
}

// AddWatchlistEntry adds a movie to a watchlist. Adding a movie that is
// already there is a no-op.
func (s *SQLStore) AddWatchlistEntry(ctx context.Context, entry NewWatchlistEntry) error {
	query := s.db.Rebind(
		`INSERT INTO watchlist (user_id, movie_id, title, poster_path)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id, movie_id) DO NOTHING`)

	if _, err := s.db.ExecContext(ctx, query, entry.UserID, entry.MovieID, entry.Title, entry.PosterPath); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListWatchlist returns a user's entries in insertion order. The slice is
// empty, not nil, when there are none.
func (s *SQLStore) ListWatchlist(ctx context.Context, userID int64) ([]WatchlistEntry, error) {
	query := s.db.Rebind(
		`SELECT watchlist_id, user_id, movie_id, title, poster_path FROM watchlist
		 WHERE user_id = ?
		 ORDER BY watchlist_id`)

	entries := []WatchlistEntry{}
	if err := s.db.SelectContext(ctx, &entries, query, userID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entries, nil
}

// RemoveWatchlistEntry deletes one entry and reports how many rows went away.
func (s *SQLStore) RemoveWatchlistEntry(ctx context.Context, userID, movieID int64) (int64, error) {
	query := s.db.Rebind(
		`DELETE FROM watchlist
		 WHERE user_id = ? AND movie_id = ?`)

	res, err := s.db.ExecContext(ctx, query, userID, movieID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// Ping checks that the database answers.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// isUniqueViolation recognizes unique and primary key failures from both
// supported drivers.
func isUniqueViolation(err error) bool {
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}
