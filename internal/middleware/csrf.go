package middleware

import (
	"net/http"

	"github.com/packlist/packlist/internal/session"
)

// csrfHeader carries the CSRF token on mutating requests.
const csrfHeader = "X-CSRF-Token"

// RequireCSRF rejects mutating requests (anything other than GET, HEAD or
// OPTIONS) whose X-CSRF-Token header does not match the session's token.
// It must run after SessionAuth so the session id is in the context.
func RequireCSRF(manager *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}
			sid := SessionIDFromContext(r.Context())
			if sid == "" || !manager.VerifyCSRF(sid, r.Header.Get(csrfHeader)) {
				reject(w, http.StatusForbidden, "invalid request")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
