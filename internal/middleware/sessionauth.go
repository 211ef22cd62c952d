// Package middleware provides HTTP middlewares for session authentication,
// CSRF enforcement and request logging.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/packlist/packlist/internal/session"
)

type ctxKey string

const (
	userKey    ctxKey = "user"
	sessionKey ctxKey = "session"
)

// reject writes the same {"error": ...} body the handler layer uses, so
// middleware rejections look no different from handler ones.
func reject(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// SessionAuth enforces an authenticated session.
//
// It reads the session cookie, resolves it against the session manager and
// rejects the request with 401 when the cookie is missing, unknown or
// expired. On success it stores the authenticated user id and the session
// id in the request context for downstream handlers.
func SessionAuth(manager *session.Manager, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil {
				reject(w, http.StatusUnauthorized, "authentication required")
				return
			}
			s := manager.Get(cookie.Value)
			if s == nil {
				reject(w, http.StatusUnauthorized, "authentication required")
				return
			}
			ctx := context.WithValue(r.Context(), userKey, s.UserID)
			ctx = context.WithValue(ctx, sessionKey, s.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext extracts the authenticated user id from the request
// context. Returns 0 and false if not present.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userKey).(int64)
	return id, ok
}

// SessionIDFromContext extracts the session id from the request context.
// Returns an empty string if not present.
func SessionIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(sessionKey).(string); ok {
		return s
	}
	return ""
}
