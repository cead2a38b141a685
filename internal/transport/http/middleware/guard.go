package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/barangay-cms/internal/application/guard"
)

// GuardDenial is the JSON body sent to AJAX callers that hit the other
// role's page.
type GuardDenial struct {
	Error     string `json:"error"`
	Redirect  string `json:"redirect"`
	ShowLogin bool   `json:"show_login"`
}

// RouteGuard enforces role-exclusive pages. Browser navigation is redirected
// to the login page; AJAX requests get 403 with a redirect hint. Must run
// after Session.
func RouteGuard(g *guard.Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := g.Check(r.URL.Path, AuthorityFromContext(r.Context()))
			if d.Allow {
				next.ServeHTTP(w, r)
				return
			}
			slog.Warn("route guard denied", "path", r.URL.Path, "blocked_role", d.BlockedRole, "request_id", requestID(r))
			if isAJAX(r) {
				writeJSON(w, http.StatusForbidden, GuardDenial{
					Error:     "Access denied. Please log in with the correct account type.",
					Redirect:  d.Target,
					ShowLogin: true,
				})
				return
			}
			http.Redirect(w, r, d.Target+"?"+d.Hint+"=true", http.StatusFound)
		})
	}
}

func isAJAX(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest" ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}
