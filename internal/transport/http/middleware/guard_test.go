package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/barangay-cms/internal/application/guard"
	"github.com/barangay-cms/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouteGuard(t *testing.T) http.Handler {
	t.Helper()
	g, err := guard.New([]string{"/admin-dashboard.html"}, []string{"/user.html"})
	require.NoError(t, err)
	return RouteGuard(g)(http.HandlerFunc(okHandler))
}

func pageRequest(path string, role domain.Role) *http.Request {
	r := requestAs(role)
	r.URL.Path = path
	r.RequestURI = path
	return r
}

func TestRouteGuard_AnonymousPassesThrough(t *testing.T) {
	rr := httptest.NewRecorder()
	newRouteGuard(t).ServeHTTP(rr, pageRequest("/admin-dashboard.html", ""))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouteGuard_BrowserRedirect(t *testing.T) {
	rr := httptest.NewRecorder()
	newRouteGuard(t).ServeHTTP(rr, pageRequest("/admin-dashboard.html", domain.RoleUser))
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/index.html?show_login=true", rr.Header().Get("Location"))
}

func TestRouteGuard_AJAXForbidden(t *testing.T) {
	req := pageRequest("/user.html", domain.RoleAdmin)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	rr := httptest.NewRecorder()
	newRouteGuard(t).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	var body GuardDenial
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "/index.html", body.Redirect)
	assert.True(t, body.ShowLogin)
	assert.NotEmpty(t, body.Error)
}

func TestRouteGuard_AcceptJSONCountsAsAJAX(t *testing.T) {
	req := pageRequest("/user.html", domain.RoleAdmin)
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()
	newRouteGuard(t).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRouteGuard_OwnRoleAllowed(t *testing.T) {
	rr := httptest.NewRecorder()
	newRouteGuard(t).ServeHTTP(rr, pageRequest("/user.html", domain.RoleUser))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouteGuard_NonCanonicalPathsBeforeFileServer(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "admin-dashboard.html"), []byte("admin page"), 0o600))
	g, err := guard.New([]string{"/admin-dashboard.html"}, []string{"/user.html"})
	require.NoError(t, err)
	h := RouteGuard(g)(http.FileServer(http.Dir(dir)))

	for _, p := range []string{
		"/admin-dashboard.html",
		"//admin-dashboard.html",
		"/./admin-dashboard.html",
		"/x/../admin-dashboard.html",
	} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, pageRequest(p, domain.RoleUser))
		assert.Equal(t, http.StatusFound, rr.Code, p)
		assert.NotContains(t, rr.Body.String(), "admin page", p)
	}
}
