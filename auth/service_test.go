package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ryantanww/MovAI/apperror"
	"github.com/ryantanww/MovAI/background"
	"github.com/ryantanww/MovAI/config"
	"github.com/ryantanww/MovAI/logging"
	"github.com/ryantanww/MovAI/store"
	"github.com/ryantanww/MovAI/store/storetest"
)

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:     string(testSecret),
		TokenDuration: time.Hour,
		BcryptCost:    bcrypt.MinCost,
		HashWorkers:   2,
	}
}

func newTestService(t *testing.T) (*AuthService, *store.SQLStore) {
	t.Helper()
	st := storetest.New(t)
	hasher, err := background.NewHasher(2, bcrypt.MinCost, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(hasher.Stop)
	return NewAuthService(st, hasher, testAuthConfig(), logging.Nop()), st
}

func requireAppError(t *testing.T, err error, want apperror.ErrorType, msg string) {
	t.Helper()
	appErr, ok := apperror.FromError(err)
	require.True(t, ok, "expected *apperror.AppError, got %v", err)
	assert.Equal(t, want, appErr.Type)
	if msg != "" {
		assert.Equal(t, msg, appErr.Message)
	}
}

func TestSignup_Success(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Signup(ctx, SignupRequest{Username: "alice", Email: "A@X.com", Password: "pw123456"})
	require.NoError(t, err)
	assert.Equal(t, "User created successfully!", resp.Msg)

	acc, err := st.FindAccountByIdentifier(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", acc.Email, "email is stored lower-cased")
	assert.NotEqual(t, "pw123456", acc.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte("pw123456")))
}

func TestSignup_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name string
		req  SignupRequest
		msg  string
	}{
		{"missing username", SignupRequest{Email: "a@x.com", Password: "p"}, msgSignupFieldsRequired},
		{"blank username", SignupRequest{Username: "   ", Email: "a@x.com", Password: "p"}, msgSignupFieldsRequired},
		{"missing email", SignupRequest{Username: "a", Password: "p"}, msgSignupFieldsRequired},
		{"missing password", SignupRequest{Username: "a", Email: "a@x.com"}, msgSignupFieldsRequired},
		{"bad email", SignupRequest{Username: "a", Email: "not-an-email", Password: "p"}, msgInvalidEmail},
		{"password too long", SignupRequest{Username: "a", Email: "a@x.com", Password: strings.Repeat("x", 73)}, msgPasswordTooLong},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tc.req)
			requireAppError(t, err, apperror.ValidationError, tc.msg)
		})
	}
}

func TestSignup_Duplicate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Username: "alice", Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, SignupRequest{Username: "alice", Email: "other@x.com", Password: "pw"})
	requireAppError(t, err, apperror.DuplicateAccountError, "Username or email already exists!")

	// Email uniqueness ignores case.
	_, err = svc.Signup(ctx, SignupRequest{Username: "bob", Email: "A@X.COM", Password: "pw"})
	requireAppError(t, err, apperror.DuplicateAccountError, "Username or email already exists!")
}

func TestSignup_ConcurrentSameUsername(t *testing.T) {
	svc, _ := newTestService(t)

	const n = 8
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			_, err := svc.Signup(context.Background(), SignupRequest{
				Username: "race", Email: strings.Repeat("r", i+1) + "@x.com", Password: "pw",
			})
			errs <- err
		}(i)
	}

	var ok, dup int
	for i := 0; i < n; i++ {
		err := <-errs
		switch {
		case err == nil:
			ok++
		case apperror.IsDuplicateAccount(err):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, dup)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Username: "alice", Email: "a@x.com", Password: "pw123456"})
	require.NoError(t, err)

	for _, ident := range []string{"alice", "a@x.com", "A@X.COM"} {
		resp, err := svc.Login(ctx, LoginRequest{UsernameOrEmail: ident, Password: "pw123456"})
		require.NoError(t, err, ident)
		assert.Positive(t, resp.UserID)

		id, err := VerifyToken(resp.Token, testSecret)
		require.NoError(t, err)
		assert.Equal(t, Identity{UserID: resp.UserID, Username: "alice"}, id)
	}
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Username: "alice", Email: "a@x.com", Password: "pw123456"})
	require.NoError(t, err)

	_, wrongPw := svc.Login(ctx, LoginRequest{UsernameOrEmail: "alice", Password: "nope"})
	_, noUser := svc.Login(ctx, LoginRequest{UsernameOrEmail: "mallory", Password: "pw123456"})
	_, wrongCase := svc.Login(ctx, LoginRequest{UsernameOrEmail: "Alice", Password: "pw123456"})

	for _, err := range []error{wrongPw, noUser, wrongCase} {
		requireAppError(t, err, apperror.InvalidCredentialsError, "Invalid credentials!")
		appErr, _ := apperror.FromError(err)
		assert.Equal(t, 400, appErr.StatusCode())
	}
}

func TestLogin_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), LoginRequest{UsernameOrEmail: "alice"})
	requireAppError(t, err, apperror.ValidationError, msgLoginFieldsRequired)

	_, err = svc.Login(context.Background(), LoginRequest{Password: "x"})
	requireAppError(t, err, apperror.ValidationError, msgLoginFieldsRequired)
}

// failingStore fails every call with err.
type failingStore struct {
	store.Store
	err error
}

func (f failingStore) CreateAccount(context.Context, string, string, string) (int64, error) {
	return 0, f.err
}

func (f failingStore) FindAccountByIdentifier(context.Context, string) (*store.Account, error) {
	return nil, f.err
}

func TestService_StoreFailuresAreInternal(t *testing.T) {
	hasher, err := background.NewHasher(1, bcrypt.MinCost, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(hasher.Stop)
	svc := NewAuthService(failingStore{err: errors.New("disk full")}, hasher, testAuthConfig(), logging.Nop())

	_, err = svc.Signup(context.Background(), SignupRequest{Username: "a", Email: "a@x.com", Password: "p"})
	requireAppError(t, err, apperror.DatabaseError, "Database error!")

	_, err = svc.Login(context.Background(), LoginRequest{UsernameOrEmail: "a", Password: "p"})
	requireAppError(t, err, apperror.DatabaseError, "Database error!")
}

func TestSignup_HasherStopped(t *testing.T) {
	st := storetest.New(t)
	hasher, err := background.NewHasher(1, bcrypt.MinCost, logging.Nop())
	require.NoError(t, err)
	hasher.Stop()
	svc := NewAuthService(st, hasher, testAuthConfig(), logging.Nop())

	_, err = svc.Signup(context.Background(), SignupRequest{Username: "a", Email: "a@x.com", Password: "p"})
	requireAppError(t, err, apperror.InternalError, "")
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Authenticate("")
	requireAppError(t, err, apperror.UnauthenticatedError, "")

	_, err = svc.Authenticate("garbage")
	requireAppError(t, err, apperror.ForbiddenError, "")

	tok, err := IssueToken(Identity{UserID: 3, Username: "c"}, testSecret, time.Hour)
	require.NoError(t, err)
	id, err := svc.Authenticate(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(3), id.UserID)
}
