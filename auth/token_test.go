package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestIssueAndVerifyToken(t *testing.T) {
	tok, err := IssueToken(Identity{UserID: 42, Username: "alice"}, testSecret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	id, err := VerifyToken(tok, testSecret)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: 42, Username: "alice"}, id)
}

func TestIssueToken_PayloadShape(t *testing.T) {
	tok, err := IssueToken(Identity{UserID: 7, Username: "bob"}, testSecret, 7*24*time.Hour)
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, claims)
	require.NoError(t, err)

	user, ok := claims["user"].(map[string]any)
	require.True(t, ok, "payload must nest identity under \"user\"")
	assert.EqualValues(t, 7, user["user_id"])
	assert.Equal(t, "bob", user["username"])
	assert.Equal(t, TokenIssuer, claims["iss"])
	assert.Equal(t, "7", claims["sub"])
	assert.NotEmpty(t, claims["jti"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), exp.Time, time.Minute)
}

func TestIssueToken_UniqueIDs(t *testing.T) {
	a, err := IssueToken(Identity{UserID: 1, Username: "a"}, testSecret, time.Hour)
	require.NoError(t, err)
	b, err := IssueToken(Identity{UserID: 1, Username: "a"}, testSecret, time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyToken_Expired(t *testing.T) {
	tok, err := IssueToken(Identity{UserID: 1, Username: "a"}, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken(tok, testSecret)
	require.ErrorIs(t, err, ErrInvalidToken)
	assert.Contains(t, err.Error(), "expired")
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	tok, err := IssueToken(Identity{UserID: 1, Username: "a"}, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = VerifyToken(tok, []byte("other"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_Tampered(t *testing.T) {
	tok, err := IssueToken(Identity{UserID: 1, Username: "a"}, testSecret, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	forged, err := IssueToken(Identity{UserID: 2, Username: "b"}, []byte("attacker"), time.Hour)
	require.NoError(t, err)
	// Someone else's payload under the original signature.
	parts[1] = strings.Split(forged, ".")[1]

	_, err = VerifyToken(strings.Join(parts, "."), testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_RejectsNoneAlgorithm(t *testing.T) {
	claims := &CustomClaims{
		User: UserClaim{UserID: 1, Username: "a"},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    TokenIssuer,
			Subject:   "1",
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = VerifyToken(tok, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_MissingUserClaim(t *testing.T) {
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		Issuer:    TokenIssuer,
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, err = VerifyToken(tok, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_Garbage(t *testing.T) {
	_, err := VerifyToken("not-a-token", testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
