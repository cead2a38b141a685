package middleware

import (
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// TrustProxies applies chi's RealIP only to requests whose connection comes
// from one of the trusted proxy addresses. Everyone else keeps their
// RemoteAddr, whatever forwarding headers they send.
func TrustProxies(trusted []string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(trusted))
	for _, p := range trusted {
		if p = strings.TrimSpace(p); p != "" {
			set[p] = struct{}{}
		}
	}
	return func(next http.Handler) http.Handler {
		real := chimiddleware.RealIP(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := set[clientIP(r)]; ok {
				real.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
