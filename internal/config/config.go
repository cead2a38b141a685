package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	StoreBackend   string // "dynamo" | "postgres" | "memory"
	SessionBackend string // "dynamo" | "redis" | "memory"

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	DatabaseURL string
	RedisURL    string

	JWTPrivateKeyPath   string
	JWTPublicKeyPath    string
	SessionTTL          time.Duration
	SessionCookieName   string
	SessionCookieSecure bool

	AdminActivationKey string
	OTPTTL             time.Duration
	NotifyTimeout      time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string
	SNSEnabled   bool
	SNSRegion    string

	StaticDir        string
	GuardAdminRoutes []string
	GuardUserRoutes  []string
	AllowedOrigins   []string // CORS allowed origins

	// TrustedProxies are peer addresses whose forwarding headers are believed.
	TrustedProxies []string
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Identities    string
	OTPChallenges string
	Sessions      string
}

var (
	defaultAdminRoutes = []string{
		"/admin-dashboard.html",
		"/admin-complaints.html",
		"/admin-user.html",
		"/admin-history.html",
		"/admin-chat.html",
	}
	defaultUserRoutes = []string{
		"/user.html",
		"/user-submit.html",
		"/user-view.html",
		"/user-history.html",
	}
)

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:        getEnv("APP_PORT", "3000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		StoreBackend:   getEnv("STORE_BACKEND", "dynamo"),
		SessionBackend: getEnv("SESSION_BACKEND", "dynamo"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Identities:    getEnv("DYNAMO_TABLE_IDENTITIES", "identities"),
			OTPChallenges: getEnv("DYNAMO_TABLE_OTP_CHALLENGES", "otp_challenges"),
			Sessions:      getEnv("DYNAMO_TABLE_SESSIONS", "sessions"),
		},
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379/0"),
		JWTPrivateKeyPath:   getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:    getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		SessionTTL:          time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		SessionCookieName:   getEnv("SESSION_COOKIE_NAME", "cms_session"),
		SessionCookieSecure: getEnvBool("SESSION_COOKIE_SECURE", false),
		AdminActivationKey:  getEnv("ADMIN_ACTIVATION_KEY", "F32024"),
		OTPTTL:              time.Duration(getEnvInt("OTP_TTL_MINUTES", 10)) * time.Minute,
		NotifyTimeout:       time.Duration(getEnvInt("NOTIFY_TIMEOUT_SECONDS", 10)) * time.Second,
		SMTPHost:            getEnv("SMTP_HOST", "localhost"),
		SMTPPort:            getEnv("SMTP_PORT", "1025"),
		SMTPFrom:            getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername:        getEnv("SMTP_USERNAME", ""),
		SMTPPassword:        getEnv("SMTP_PASSWORD", ""),
		SNSEnabled:          getEnvBool("SNS_ENABLED", false),
		SNSRegion:           getEnv("SNS_REGION", "us-east-1"),
		StaticDir:           getEnv("STATIC_DIR", "./web"),
		GuardAdminRoutes:    getEnvList("GUARD_ADMIN_ROUTES", defaultAdminRoutes),
		GuardUserRoutes:     getEnvList("GUARD_USER_ROUTES", defaultUserRoutes),
		AllowedOrigins:      strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		TrustedProxies:      getEnvList("TRUSTED_PROXIES", nil),
	}
}

// IsDevelopment reports whether the app runs with development defaults.
func (c *Config) IsDevelopment() bool { return c.AppEnv == "development" }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
