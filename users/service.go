// Package users serves account lookups other than login: today, resolving a
// user id to its username.
package users

import (
	"context"
	"errors"

	"github.com/ryantanww/MovAI/apperror"
	"github.com/ryantanww/MovAI/auth"
	"github.com/ryantanww/MovAI/store"
)

const (
	msgUserNotFound  = "User not found!"
	msgInvalidUserID = "Invalid user id!"
	msgDatabaseError = "Database error!"
)

// UserService reads account data for authenticated callers.
type UserService struct {
	store store.Store
}

// NewUserService creates a UserService reading accounts from st.
func NewUserService(st store.Store) *UserService {
	return &UserService{store: st}
}

// GetUsername returns the username of targetID. Any authenticated caller may
// look up any user; only the username is revealed. The store is always
// consulted, since a valid token can outlive its account.
func (s *UserService) GetUsername(ctx context.Context, requester auth.Identity, targetID int64) (*UsernameResponse, error) {
	if targetID <= 0 {
		return nil, apperror.NewValidationError(msgInvalidUserID, nil)
	}
	acc, err := s.store.FindAccountByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.NewNotFoundError(msgUserNotFound, nil)
		}
		return nil, apperror.NewDatabaseError(msgDatabaseError, err)
	}
	return &UsernameResponse{Username: acc.Username}, nil
}
