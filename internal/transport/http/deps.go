package http

import (
	"github.com/barangay-cms/internal/application/credential"
	"github.com/barangay-cms/internal/application/otp"
	"github.com/barangay-cms/internal/application/session"
	"github.com/barangay-cms/internal/infrastructure/smtp"
	"github.com/barangay-cms/internal/infrastructure/sns"
	"github.com/barangay-cms/internal/transport/http/handler"
)

// IdentityRepository is the identity half of the profile store. Dynamo,
// postgres and memory adapters all satisfy it.
type IdentityRepository = credential.IdentityRepository

// ChallengeRepository is the OTP half of the profile store.
type ChallengeRepository = otp.ChallengeRepository

// SessionRepository is the server-side session store (dynamo, redis or memory).
type SessionRepository = session.Repository

// Deps holds all infrastructure dependencies for the router. Exactly one
// adapter per store is chosen at startup.
type Deps struct {
	Identities IdentityRepository
	Challenges ChallengeRepository
	Sessions   SessionRepository
	Mailer     smtp.Mailer
	// SMSSender is nil when SNS is disabled.
	SMSSender sns.SMSSender
	Tokens    session.TokenCodec
	// HealthChecks are pinged by /v1/health-check/ready.
	HealthChecks map[string]handler.Pinger
}
