package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryantanww/MovAI/config"
	"github.com/ryantanww/MovAI/db"
)

// newTestStore returns a store over a migrated in-memory SQLite database.
func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	cfg := &config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"}
	conn, err := db.Open(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(conn, cfg))
	s := NewSQLStore(conn)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newMockStore(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return NewSQLStore(sqlx.NewDb(mockDB, "sqlmock")), mock
}

func strPtr(s string) *string { return &s }

func TestCreateAccount_AssignsIncreasingIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id1, err := s.CreateAccount(ctx, "ann", "ann@example.com", "h1")
	require.NoError(t, err)
	id2, err := s.CreateAccount(ctx, "bob", "bob@example.com", "h2")
	require.NoError(t, err)

	assert.Greater(t, id2, id1)
}

func TestCreateAccount_DuplicateUsernameOrEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateAccount(ctx, "ann", "ann@example.com", "h")
	require.NoError(t, err)

	_, err = s.CreateAccount(ctx, "ann", "other@example.com", "h")
	assert.ErrorIs(t, err, ErrConstraintViolation)

	_, err = s.CreateAccount(ctx, "other", "ann@example.com", "h")
	assert.ErrorIs(t, err, ErrConstraintViolation)
}

func TestFindAccountByIdentifier(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateAccount(ctx, "Ann", "ann@example.com", "hash")
	require.NoError(t, err)

	byName, err := s.FindAccountByIdentifier(ctx, "Ann")
	require.NoError(t, err)
	want := &Account{UserID: id, Username: "Ann", Email: "ann@example.com", PasswordHash: "hash"}
	if diff := cmp.Diff(want, byName); diff != "" {
		t.Fatalf("account mismatch (-want +got):\n%s", diff)
	}

	byEmail, err := s.FindAccountByIdentifier(ctx, "ANN@Example.com")
	require.NoError(t, err)
	assert.Equal(t, id, byEmail.UserID)

	_, err = s.FindAccountByIdentifier(ctx, "ann")
	assert.ErrorIs(t, err, ErrNotFound, "usernames are case-sensitive")
}

func TestFindAccountByIdentifier_PrefersUsernameMatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	emailOwner, err := s.CreateAccount(ctx, "first", "shared@example.com", "h")
	require.NoError(t, err)
	nameOwner, err := s.CreateAccount(ctx, "shared@example.com", "second@example.com", "h")
	require.NoError(t, err)
	require.NotEqual(t, emailOwner, nameOwner)

	acc, err := s.FindAccountByIdentifier(ctx, "shared@example.com")
	require.NoError(t, err)
	assert.Equal(t, nameOwner, acc.UserID)
}

func TestFindAccountByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateAccount(ctx, "ann", "ann@example.com", "h")
	require.NoError(t, err)

	acc, err := s.FindAccountByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ann", acc.Username)

	_, err = s.FindAccountByID(ctx, id+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWatchlist_AddListRemove(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	uid, err := s.CreateAccount(ctx, "ann", "ann@example.com", "h")
	require.NoError(t, err)

	empty, err := s.ListWatchlist(ctx, uid)
	require.NoError(t, err)
	require.NotNil(t, empty)
	assert.Empty(t, empty)

	require.NoError(t, s.AddWatchlistEntry(ctx, NewWatchlistEntry{UserID: uid, MovieID: 550, Title: "Fight Club", PosterPath: strPtr("/p.jpg")}))
	require.NoError(t, s.AddWatchlistEntry(ctx, NewWatchlistEntry{UserID: uid, MovieID: 13, Title: "Forrest Gump"}))
	// Duplicate is a no-op and keeps the original title.
	require.NoError(t, s.AddWatchlistEntry(ctx, NewWatchlistEntry{UserID: uid, MovieID: 550, Title: "Changed"}))

	got, err := s.ListWatchlist(ctx, uid)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(550), got[0].MovieID)
	assert.Equal(t, "Fight Club", got[0].Title)
	require.NotNil(t, got[0].PosterPath)
	assert.Equal(t, "/p.jpg", *got[0].PosterPath)
	assert.Nil(t, got[1].PosterPath)

	n, err := s.RemoveWatchlistEntry(ctx, uid, 550)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.RemoveWatchlistEntry(ctx, uid, 550)
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err = s.ListWatchlist(ctx, uid)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(13), got[0].MovieID)
}

func TestWatchlist_IsolatedPerUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ann, err := s.CreateAccount(ctx, "ann", "ann@example.com", "h")
	require.NoError(t, err)
	bob, err := s.CreateAccount(ctx, "bob", "bob@example.com", "h")
	require.NoError(t, err)

	require.NoError(t, s.AddWatchlistEntry(ctx, NewWatchlistEntry{UserID: ann, MovieID: 1, Title: "A"}))
	require.NoError(t, s.AddWatchlistEntry(ctx, NewWatchlistEntry{UserID: bob, MovieID: 1, Title: "A"}))

	n, err := s.RemoveWatchlistEntry(ctx, bob, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := s.ListWatchlist(ctx, ann)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestCreateAccount_PostgresUniqueViolation(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+users\s*\(username,\s*email,\s*password\).*RETURNING\s+user_id$`).
		WithArgs("ann", "ann@example.com", "h").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := s.CreateAccount(context.Background(), "ann", "ann@example.com", "h")
	assert.ErrorIs(t, err, ErrConstraintViolation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAccount_DBError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).WillReturnError(errors.New("db down"))

	_, err := s.CreateAccount(context.Background(), "ann", "ann@example.com", "h")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConstraintViolation)
	assert.Contains(t, err.Error(), "db error: db down")
}

func TestFindAccountByIdentifier_DBError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT\s+user_id,\s*username,\s*email,\s*password\s+FROM\s+users`).
		WithArgs("Ann@X.io", "ann@x.io", "Ann@X.io").
		WillReturnError(errors.New("boom"))

	_, err := s.FindAccountByIdentifier(context.Background(), "Ann@X.io")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListWatchlist_DBError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT\s+watchlist_id`).WithArgs(int64(7)).WillReturnError(errors.New("boom"))

	got, err := s.ListWatchlist(context.Background(), 7)
	require.Error(t, err)
	assert.Nil(t, got)
}

func TestRemoveWatchlistEntry_DBError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`DELETE\s+FROM\s+watchlist`).WithArgs(int64(7), int64(550)).WillReturnError(errors.New("boom"))

	_, err := s.RemoveWatchlistEntry(context.Background(), 7, 550)
	assert.Error(t, err)
}

func TestAddWatchlistEntry_DBError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`(?s)INSERT\s+INTO\s+watchlist.*ON\s+CONFLICT`).WillReturnError(errors.New("boom"))

	err := s.AddWatchlistEntry(context.Background(), NewWatchlistEntry{UserID: 1, MovieID: 2, Title: "t"})
	assert.Error(t, err)
}
