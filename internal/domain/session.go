package domain

import "time"

// Session is the server-side record behind a session token. It carries a
// single Role, so a session is never both user- and admin-authenticated.
type Session struct {
	SessionID     string    `json:"id" dynamodbav:"session_id"`
	IdentityID    string    `json:"identity_id" dynamodbav:"identity_id"`
	Authenticated bool      `json:"authenticated" dynamodbav:"authenticated"`
	Role          Role      `json:"role" dynamodbav:"role"`
	Email         string    `json:"email" dynamodbav:"email"`
	DisplayName   string    `json:"display_name" dynamodbav:"display_name"`
	Barangay      string    `json:"barangay" dynamodbav:"barangay"`
	CreatedAt     time.Time `json:"created" dynamodbav:"created_at"`
	ExpiresAt     time.Time `json:"expires_at" dynamodbav:"expires_at"`
	ExpiresAtUnix int64     `json:"-" dynamodbav:"ttl"`
}

// Active reports whether the session is authenticated and not yet expired at now.
func (s *Session) Active(now time.Time) bool {
	return s != nil && s.Authenticated && s.Role.Valid() && now.Before(s.ExpiresAt)
}
