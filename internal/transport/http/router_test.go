package http

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/barangay-cms/internal/config"
	jwtinfra "github.com/barangay-cms/internal/infrastructure/jwt"
	"github.com/barangay-cms/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inbox captures outgoing mail and extracts the last code per recipient.
type inbox struct {
	mu    sync.Mutex
	codes map[string]string
}

var codePattern = regexp.MustCompile(`code is: (\d{6})`)

func (i *inbox) SendEmail(_ context.Context, to, _, body string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if m := codePattern.FindStringSubmatch(body); m != nil {
		i.codes[to] = m[1]
	}
	return nil
}

func (i *inbox) code(to string) string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.codes[to]
}

type testServer struct {
	handler http.Handler
	inbox   *inbox
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	cfg := config.Load()
	cfg.StaticDir = t.TempDir()
	box := &inbox{codes: map[string]string{}}

	h, err := NewRouter(cfg, &Deps{
		Identities: memory.NewIdentityRepo(),
		Challenges: memory.NewChallengeRepo(),
		Sessions:   memory.NewSessionRepo(),
		Mailer:     box,
		Tokens:     jwtinfra.NewProviderFromKey(key, time.Hour),
	})
	require.NoError(t, err)
	return &testServer{handler: h, inbox: box}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func sessionCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == "cms_session" {
			return c
		}
	}
	return nil
}

func TestRouter_UserJourney(t *testing.T) {
	s := newTestServer(t)
	user := map[string]string{
		"email": "a@x.com", "full_name": "Ana Cruz", "barangay": "San Isidro",
		"password": "secret1", "confirm_password": "secret1",
	}

	rr := s.do(t, http.MethodPost, "/v1/users/registration/code", user, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	verify := map[string]string{"otp": s.inbox.code("a@x.com")}
	for k, v := range user {
		verify[k] = v
	}
	rr = s.do(t, http.MethodPost, "/v1/users/registration/verify", verify, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = s.do(t, http.MethodPost, "/v1/users/registration/code", user, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = s.do(t, http.MethodPost, "/v1/users/login", map[string]string{"email": "a@x.com", "password": "secret1"}, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = s.do(t, http.MethodPost, "/v1/users/login/verify", map[string]string{"email": "a@x.com", "otp": s.inbox.code("a@x.com")}, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	cookie := sessionCookie(rr)
	require.NotNil(t, cookie)

	rr = s.do(t, http.MethodGet, "/v1/session", nil, cookie)
	var current map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &current))
	assert.Equal(t, true, current["authenticated"])
	assert.Equal(t, "user", current["role"])

	// user session on an admin page is bounced to the login prompt
	rr = s.do(t, http.MethodGet, "/admin-dashboard.html", nil, cookie)
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/index.html?show_login=true", rr.Header().Get("Location"))
	for _, p := range []string{"//admin-dashboard.html", "/./admin-dashboard.html", "/x/../admin-dashboard.html"} {
		rr = s.do(t, http.MethodGet, p, nil, cookie)
		assert.Equal(t, http.StatusFound, rr.Code, p)
	}

	rr = s.do(t, http.MethodPost, "/v1/sessions/logout", nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(t, http.MethodGet, "/v1/session", nil, cookie)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &current))
	assert.Equal(t, false, current["authenticated"])
}

func TestRouter_AdminJourney(t *testing.T) {
	s := newTestServer(t)
	admin := map[string]string{
		"email": "captain@x.com", "barangay": "San Isidro",
		"password": "secret1", "confirm_password": "secret1",
		"activation_key": "f32024", "access_key": "024680",
	}

	rr := s.do(t, http.MethodPost, "/v1/admins/registration/code", admin, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	verify := map[string]string{"otp": s.inbox.code("captain@x.com")}
	for k, v := range admin {
		verify[k] = v
	}
	rr = s.do(t, http.MethodPost, "/v1/admins/registration/verify", verify, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = s.do(t, http.MethodGet, "/v1/barangays/registered", nil, nil)
	assert.JSONEq(t, `{"barangays":["San Isidro"]}`, rr.Body.String())

	rr = s.do(t, http.MethodPost, "/v1/admins/login", map[string]string{"email": "captain@x.com", "password": "secret1"}, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"step":"access_key"`)

	rr = s.do(t, http.MethodPost, "/v1/admins/login/access-key", map[string]string{"email": "captain@x.com", "access_key": "1234"}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodPost, "/v1/admins/login/access-key", map[string]string{"email": "captain@x.com", "access_key": "024680"}, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"redirect":"/admin-dashboard.html"`)
	cookie := sessionCookie(rr)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/user.html", nil)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.AddCookie(cookie)
	out := httptest.NewRecorder()
	s.handler.ServeHTTP(out, req)
	assert.Equal(t, http.StatusForbidden, out.Code)
	assert.Contains(t, out.Body.String(), `"show_login":true`)
}

func TestRouter_AnonymousOnGuardedPageReachesHandler(t *testing.T) {
	s := newTestServer(t)
	rr := s.do(t, http.MethodGet, "/admin-dashboard.html", nil, nil)
	// no static file in the temp dir, but the guard let it through
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_LogoutRequiresSession(t *testing.T) {
	s := newTestServer(t)
	rr := s.do(t, http.MethodPost, "/v1/sessions/logout", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRouter_HealthPing(t *testing.T) {
	s := newTestServer(t)
	rr := s.do(t, http.MethodGet, "/v1/health-check/ping", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "pong")
}

func TestNewRouter_RejectsOverlappingGuards(t *testing.T) {
	cfg := config.Load()
	cfg.GuardUserRoutes = append(cfg.GuardUserRoutes, cfg.GuardAdminRoutes[0])
	_, err := NewRouter(cfg, &Deps{})
	assert.Error(t, err)
}
