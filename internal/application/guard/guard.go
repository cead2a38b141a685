package guard

import (
	"fmt"
	"path"
	"strings"

	"github.com/barangay-cms/internal/domain"
)

// Where a denied caller is sent, and the hint telling the page to open its
// login prompt.
const (
	LoginTarget = "/index.html"
	LoginHint   = "show_login"
)

// Decision is the outcome of a route check. BlockedRole is the role of the
// session that was denied.
type Decision struct {
	Allow       bool
	Target      string
	Hint        string
	BlockedRole domain.Role
}

// Caller is what the guard needs to know about the requester.
type Caller interface {
	CurrentRole() (domain.Role, bool)
}

// Guard keeps each role's pages out of reach of the other role.
type Guard struct {
	owner map[string]domain.Role
}

// New builds a guard from the admin-only and user-only page sets. A path
// listed in both sets is a configuration error.
func New(adminOnly, userOnly []string) (*Guard, error) {
	g := &Guard{owner: make(map[string]domain.Role, len(adminOnly)+len(userOnly))}
	for _, p := range adminOnly {
		g.owner[normalize(p)] = domain.RoleAdmin
	}
	for _, p := range userOnly {
		n := normalize(p)
		if g.owner[n] == domain.RoleAdmin {
			return nil, fmt.Errorf("route %q is both admin-only and user-only", p)
		}
		g.owner[n] = domain.RoleUser
	}
	return g, nil
}

// Check decides whether caller may reach page p. Anonymous callers always pass;
// the page itself prompts for login.
func (g *Guard) Check(p string, caller Caller) Decision {
	role, ok := caller.CurrentRole()
	if !ok {
		return Decision{Allow: true}
	}
	owner, guarded := g.owner[normalize(p)]
	if !guarded || owner == role {
		return Decision{Allow: true}
	}
	return Decision{Target: LoginTarget, Hint: LoginHint, BlockedRole: role}
}

// normalize returns p in the cleaned form http.FileServer serves it under.
func normalize(p string) string {
	return path.Clean("/" + strings.TrimSpace(p))
}
