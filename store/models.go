package store

// Account is a registered user. PasswordHash is the bcrypt hash and is never
// serialized.
type Account struct {
	UserID       int64  `db:"user_id" json:"user_id"`
	Username     string `db:"username" json:"username"`
	Email        string `db:"email" json:"email"`
	PasswordHash string `db:"password" json:"-"`
}

// WatchlistEntry is one movie on one user's watchlist.
type WatchlistEntry struct {
	WatchlistID int64   `db:"watchlist_id" json:"watchlist_id"`
	UserID      int64   `db:"user_id" json:"user_id"`
	MovieID     int64   `db:"movie_id" json:"movie_id"`
	Title       string  `db:"title" json:"title"`
	PosterPath  *string `db:"poster_path" json:"poster_path"`
}

// NewWatchlistEntry holds the fields needed to add a movie to a watchlist.
type NewWatchlistEntry struct {
	UserID     int64
	MovieID    int64
	Title      string
	PosterPath *string
}
