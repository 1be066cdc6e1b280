package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer is the "iss" claim of every token this service signs.
const TokenIssuer = "movai"

// ErrInvalidToken is returned for any token that fails verification: bad
// signature, wrong algorithm, expired, or missing identity claims.
var ErrInvalidToken = errors.New("invalid token")

// UserClaim is the identity carried under the "user" key of the token payload.
type UserClaim struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// CustomClaims is the session token payload: {"user": {...}} plus the
// registered claims.
type CustomClaims struct {
	User UserClaim `json:"user"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 session token for id that expires after ttl.
// There is no server-side session; the token alone is the session.
func IssueToken(id Identity, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &CustomClaims{
		User: UserClaim{UserID: id.UserID, Username: id.Username},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    TokenIssuer,
			Subject:   strconv.FormatInt(id.UserID, 10),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks the signature and expiry of tokenString and returns the
// identity it carries. Every failure wraps ErrInvalidToken.
func VerifyToken(tokenString string, secret []byte) (Identity, error) {
	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(TokenIssuer),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	if claims.User.UserID <= 0 || claims.User.Username == "" {
		return Identity{}, fmt.Errorf("%w: missing user claim", ErrInvalidToken)
	}
	if claims.Subject != strconv.FormatInt(claims.User.UserID, 10) {
		return Identity{}, fmt.Errorf("%w: subject does not match user", ErrInvalidToken)
	}
	return Identity{UserID: claims.User.UserID, Username: claims.User.Username}, nil
}
