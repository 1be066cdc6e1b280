// Package auth handles accounts and sessions: signup, login, and verifying
// the signed session token on protected routes.
//
// Sessions are stateless HS256 tokens. Password hashing and comparison run on
// the background.Hasher pool, never on the request goroutine.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/ryantanww/MovAI/apperror"
	"github.com/ryantanww/MovAI/config"
	"github.com/ryantanww/MovAI/logging"
	"github.com/ryantanww/MovAI/store"
)

// Client-facing messages. The mobile client shows these verbatim.
const (
	msgSignupFieldsRequired = "Username, email and password are required!"
	msgInvalidEmail         = "Please provide a valid email address!"
	msgPasswordTooLong      = "Password must be at most 72 bytes!"
	msgLoginFieldsRequired  = "Username or email and password are required!"
	msgDuplicateAccount     = "Username or email already exists!"
	msgInvalidCredentials   = "Invalid credentials!"
	msgUserCreated          = "User created successfully!"
	msgDatabaseError        = "Database error!"
	msgServerError          = "Server error!"
	msgNoToken              = "Access token is missing!"
	msgInvalidToken         = "Invalid or expired token!"
)

// PasswordHasher is the subset of background.Hasher the service needs.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Compare(ctx context.Context, hash, password string) error
	CompareDummy(ctx context.Context, password string) error
}

// AuthService implements signup, login and token authentication.
type AuthService struct {
	store    store.Store
	hasher   PasswordHasher
	secret   []byte
	ttl      time.Duration
	validate *validator.Validate
	log      logging.Logger
}

// NewAuthService wires the service to its store, hasher and auth settings.
func NewAuthService(st store.Store, hasher PasswordHasher, cfg *config.AuthConfig, log logging.Logger) *AuthService {
	return &AuthService{
		store:    st,
		hasher:   hasher,
		secret:   []byte(cfg.JWTSecret),
		ttl:      cfg.TokenDuration,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log.With("component", "auth"),
	}
}

// Signup creates an account. The email is stored lower-cased; the username
// is kept as given.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*MessageResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := s.validate.Struct(req); err != nil {
		return nil, signupValidationError(err)
	}

	hash, err := s.hasher.Hash(ctx, req.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperror.NewValidationError(msgPasswordTooLong, err)
		}
		return nil, apperror.NewInternalError(msgServerError, err)
	}

	id, err := s.store.CreateAccount(ctx, req.Username, req.Email, hash)
	if err != nil {
		if errors.Is(err, store.ErrConstraintViolation) {
			return nil, apperror.NewDuplicateAccountError(msgDuplicateAccount, err)
		}
		return nil, apperror.NewDatabaseError(msgDatabaseError, err)
	}

	s.log.Info(ctx, "account created", "user_id", id)
	return &MessageResponse{Msg: msgUserCreated}, nil
}

// Login verifies credentials and issues a session token. An unknown
// identifier and a wrong password produce the same error, and both pay for
// one bcrypt comparison.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	req.UsernameOrEmail = strings.TrimSpace(req.UsernameOrEmail)
	if err := s.validate.Struct(req); err != nil {
		return nil, apperror.NewValidationError(msgLoginFieldsRequired, err)
	}

	acc, err := s.store.FindAccountByIdentifier(ctx, req.UsernameOrEmail)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, apperror.NewDatabaseError(msgDatabaseError, err)
		}
		if err := s.hasher.CompareDummy(ctx, req.Password); err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apperror.NewInternalError(msgServerError, err)
		}
		s.log.Info(ctx, "login rejected", "reason", "unknown account")
		return nil, apperror.NewInvalidCredentialsError(msgInvalidCredentials, nil)
	}

	if err := s.hasher.Compare(ctx, acc.PasswordHash, req.Password); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.log.Info(ctx, "login rejected", "reason", "wrong password", "user_id", acc.UserID)
			return nil, apperror.NewInvalidCredentialsError(msgInvalidCredentials, nil)
		}
		return nil, apperror.NewInternalError(msgServerError, err)
	}

	token, err := IssueToken(Identity{UserID: acc.UserID, Username: acc.Username}, s.secret, s.ttl)
	if err != nil {
		return nil, apperror.NewInternalError(msgServerError, err)
	}

	s.log.Info(ctx, "login succeeded", "user_id", acc.UserID)
	return &LoginResponse{Token: token, UserID: acc.UserID}, nil
}

// Authenticate turns the raw bearer token into an Identity. An empty token is
// Unauthenticated (401); any verification failure is Forbidden (403).
func (s *AuthService) Authenticate(token string) (Identity, error) {
	if token == "" {
		return Identity{}, apperror.NewUnauthenticatedError(msgNoToken, nil)
	}
	id, err := VerifyToken(token, s.secret)
	if err != nil {
		return Identity{}, apperror.NewForbiddenError(msgInvalidToken, err)
	}
	return id, nil
}

func signupValidationError(err error) *apperror.AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "email" {
				return apperror.NewValidationError(msgInvalidEmail, err)
			}
		}
	}
	return apperror.NewValidationError(msgSignupFieldsRequired, err)
}
