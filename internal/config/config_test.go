package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "F32024", cfg.AdminActivationKey)
	assert.Equal(t, 10*time.Minute, cfg.OTPTTL)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Contains(t, cfg.GuardAdminRoutes, "/admin-dashboard.html")
	assert.Contains(t, cfg.GuardUserRoutes, "/user.html")
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("OTP_TTL_MINUTES", "5")
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("GUARD_USER_ROUTES", " /a.html, ,/b.html ")
	t.Setenv("SESSION_COOKIE_SECURE", "true")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 10.0.0.2")

	cfg := Load()

	assert.Equal(t, 5*time.Minute, cfg.OTPTTL)
	assert.Equal(t, "postgres", cfg.StoreBackend)
	assert.Equal(t, []string{"/a.html", "/b.html"}, cfg.GuardUserRoutes)
	assert.True(t, cfg.SessionCookieSecure)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.TrustedProxies)
}

func TestLoad_BadIntFallsBack(t *testing.T) {
	t.Setenv("SESSION_TTL_HOURS", "soon")
	assert.Equal(t, 24*time.Hour, Load().SessionTTL)
}
