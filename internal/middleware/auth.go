// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/atinyakov/cardmaster/internal/models"
)

type ctxKey string

const (
	usernameKey ctxKey = "username"
	userKey     ctxKey = "user"
)

// TokenParser resolves a bearer token to the username it was issued for.
type TokenParser interface {
	Username(token string) (string, error)
}

// UserLookup finds an account by username.
type UserLookup interface {
	FindUser(username string) (models.User, bool)
}

// BearerAuth is a middleware that requires a valid bearer token.
//
// The token is read from the Authorization header. On success the username it
// was issued for is stored in the request context.
func BearerAuth(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			username, err := parser.Username(token)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), usernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoadUser is a middleware that loads the account of the authenticated
// username into the request context. Tokens of deleted accounts are rejected.
// It must run after BearerAuth.
func LoadUser(users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := users.FindUser(GetUsernameFromContext(r.Context()))
			if !ok {
				http.Error(w, "unknown user", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), userKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUsernameFromContext returns the authenticated username, or an empty
// string if there is none.
func GetUsernameFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(usernameKey).(string); ok {
		return s
	}
	return ""
}

// UserFromContext returns the account loaded by LoadUser.
func UserFromContext(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey).(models.User)
	return u, ok
}

// WithUser returns a copy of ctx carrying u, as LoadUser does.
func WithUser(ctx context.Context, u models.User) context.Context {
	ctx = context.WithValue(ctx, usernameKey, u.Username)
	return context.WithValue(ctx, userKey, u)
}
