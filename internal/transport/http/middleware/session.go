package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/barangay-cms/internal/application/session"
)

type contextKey string

const authorityKey contextKey = "authority"

// Session resolves the caller's token (Bearer header first, then the session
// cookie) and stores the resulting Authority in the request context. Callers
// without a live session carry the anonymous Authority. A session store
// failure ends the request with 503.
func Session(svc session.Service, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth, err := svc.Load(r.Context(), TokenFromRequest(r, cookieName))
			if err != nil {
				slog.Error("session lookup failed", "path", r.URL.Path, "err", err, "request_id", requestID(r))
				writeJSONError(w, http.StatusServiceUnavailable, "session store unavailable")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithAuthority(r.Context(), auth)))
		})
	}
}

// TokenFromRequest returns the bearer token or the session cookie value.
func TokenFromRequest(r *http.Request, cookieName string) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

// WithAuthority returns a copy of ctx carrying auth.
func WithAuthority(ctx context.Context, auth *session.Authority) context.Context {
	return context.WithValue(ctx, authorityKey, auth)
}

// AuthorityFromContext returns the caller's Authority, anonymous when none was set.
func AuthorityFromContext(ctx context.Context) *session.Authority {
	if a, ok := ctx.Value(authorityKey).(*session.Authority); ok && a != nil {
		return a
	}
	return session.Anonymous()
}
