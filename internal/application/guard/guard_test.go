package guard

import (
	"testing"

	"github.com/barangay-cms/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type caller struct {
	role domain.Role
}

func (c caller) CurrentRole() (domain.Role, bool) { return c.role, c.role != "" }

var (
	anon  = caller{}
	user  = caller{role: domain.RoleUser}
	admin = caller{role: domain.RoleAdmin}
)

func newGuard(t *testing.T) *Guard {
	t.Helper()
	g, err := New(
		[]string{"/admin-dashboard.html", "/admin-complaints.html"},
		[]string{"/user.html", "/user-submit.html/"},
	)
	require.NoError(t, err)
	return g
}

func TestCheck_AnonymousAlwaysAllowed(t *testing.T) {
	g := newGuard(t)
	assert.True(t, g.Check("/admin-dashboard.html", anon).Allow)
	assert.True(t, g.Check("/user.html", anon).Allow)
}

func TestCheck_UserOnAdminPageRedirected(t *testing.T) {
	g := newGuard(t)
	d := g.Check("/admin-dashboard.html", user)
	assert.False(t, d.Allow)
	assert.Equal(t, "/index.html", d.Target)
	assert.Equal(t, "show_login", d.Hint)
	assert.Equal(t, domain.RoleUser, d.BlockedRole)
}

func TestCheck_AdminOnUserPageRedirected(t *testing.T) {
	g := newGuard(t)
	for _, p := range []string{"/user.html", "/user.html/", "/user-submit.html"} {
		d := g.Check(p, admin)
		assert.False(t, d.Allow, p)
		assert.Equal(t, domain.RoleAdmin, d.BlockedRole)
	}
}

func TestCheck_OwnRoleAndUnguardedAllowed(t *testing.T) {
	g := newGuard(t)
	assert.True(t, g.Check("/admin-complaints.html/", admin).Allow)
	assert.True(t, g.Check("/user-submit.html", user).Allow)
	assert.True(t, g.Check("/index.html", admin).Allow)
	assert.True(t, g.Check("/v1/session", user).Allow)
}

func TestNew_RejectsOverlap(t *testing.T) {
	_, err := New([]string{"/shared.html"}, []string{"/shared.html/"})
	assert.Error(t, err)
}

func TestCheck_NonCanonicalPathsStillGuarded(t *testing.T) {
	g := newGuard(t)
	for _, p := range []string{
		"//admin-dashboard.html",
		"/./admin-dashboard.html",
		"/x/../admin-dashboard.html",
		"admin-dashboard.html",
		"/admin-dashboard.html//",
	} {
		d := g.Check(p, user)
		assert.False(t, d.Allow, p)
		assert.Equal(t, domain.RoleUser, d.BlockedRole, p)
	}
	assert.False(t, g.Check("/a/b/../../user.html", admin).Allow)
}
