// Package watchlist manages each user's list of saved movies.
//
// The owner of a watchlist is always the identity in the session token. A
// client-supplied userId is accepted for compatibility but must name the
// caller; anything else is refused.
package watchlist

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ryantanww/MovAI/apperror"
	"github.com/ryantanww/MovAI/auth"
	"github.com/ryantanww/MovAI/logging"
	"github.com/ryantanww/MovAI/store"
)

const (
	msgAdded            = "Movie added to watchlist!"
	msgRemoved          = "Movie removed from watchlist!"
	msgNotInWatchlist   = "Movie not found in watchlist!"
	msgAddFields        = "A positive movieId and a title are required!"
	msgRemoveFields     = "A positive movieId is required!"
	msgNotYourWatchlist = "You can only access your own watchlist!"
	msgAddFailed        = "Failed to add movie to watchlist!"
	msgFetchFailed      = "Failed to fetch watchlist!"
	msgRemoveFailed     = "Failed to remove movie from watchlist!"
)

// WatchlistService implements add, list and remove for the caller's watchlist.
type WatchlistService struct {
	store    store.Store
	validate *validator.Validate
	log      logging.Logger
}

// NewWatchlistService creates a WatchlistService over st. Request DTOs are
// validated with a shared validator instance.
func NewWatchlistService(st store.Store, log logging.Logger) *WatchlistService {
	return &WatchlistService{
		store:    st,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log.With("component", "watchlist"),
	}
}

// owner resolves whose watchlist a request is about.
func owner(requester auth.Identity, claimed UserRef) (int64, error) {
	if claimed != 0 && int64(claimed) != requester.UserID {
		return 0, apperror.NewForbiddenError(msgNotYourWatchlist, nil)
	}
	return requester.UserID, nil
}

// Add puts a movie on the caller's watchlist. Adding it twice is not an error
// and leaves the first entry untouched.
func (s *WatchlistService) Add(ctx context.Context, requester auth.Identity, req AddRequest) (*MessageResponse, error) {
	userID, err := owner(requester, req.UserID)
	if err != nil {
		return nil, err
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validate.Struct(req); err != nil {
		return nil, apperror.NewValidationError(msgAddFields, err)
	}

	err = s.store.AddWatchlistEntry(ctx, store.NewWatchlistEntry{
		UserID:     userID,
		MovieID:    req.MovieID,
		Title:      req.Title,
		PosterPath: req.PosterPath,
	})
	if err != nil {
		return nil, apperror.NewDatabaseError(msgAddFailed, err)
	}

	s.log.Debug(ctx, "watchlist entry added", "user_id", userID, "movie_id", req.MovieID)
	return &MessageResponse{Message: msgAdded}, nil
}

// List returns the caller's entries, oldest first. Never nil.
func (s *WatchlistService) List(ctx context.Context, requester auth.Identity, claimed UserRef) ([]store.WatchlistEntry, error) {
	userID, err := owner(requester, claimed)
	if err != nil {
		return nil, err
	}
	entries, err := s.store.ListWatchlist(ctx, userID)
	if err != nil {
		return nil, apperror.NewDatabaseError(msgFetchFailed, err)
	}
	if entries == nil {
		entries = []store.WatchlistEntry{}
	}
	return entries, nil
}

// Remove takes a movie off the caller's watchlist. Removing a movie that is
// not there is NotFound.
func (s *WatchlistService) Remove(ctx context.Context, requester auth.Identity, req RemoveRequest) (*MessageResponse, error) {
	userID, err := owner(requester, req.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, apperror.NewValidationError(msgRemoveFields, err)
	}

	n, err := s.store.RemoveWatchlistEntry(ctx, userID, req.MovieID)
	if err != nil {
		return nil, apperror.NewDatabaseError(msgRemoveFailed, err)
	}
	if n == 0 {
		return nil, apperror.NewNotFoundError(msgNotInWatchlist, nil)
	}

	s.log.Debug(ctx, "watchlist entry removed", "user_id", userID, "movie_id", req.MovieID)
	return &MessageResponse{Message: msgRemoved}, nil
}
