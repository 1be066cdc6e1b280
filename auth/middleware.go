package auth

import (
	"net/http"
	"strings"
)

// JWTMiddleware rejects requests without a valid session token and puts the
// caller's Identity into the request context.
//
// No Authorization header, or one without a bearer token, is 401. A token
// that fails verification is 403.
func JWTMiddleware(svc *AuthService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := svc.Authenticate(bearerToken(r.Header.Get("Authorization")))
			if err != nil {
				WriteError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(NewContextWithIdentity(r.Context(), id)))
		})
	}
}

// bearerToken extracts the token from "Bearer <token>". It returns "" for any
// other shape.
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
