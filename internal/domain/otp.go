package domain

import "time"

// OTPChallenge is one outstanding one-time code for an email address.
// ExpiresAtUnix doubles as the DynamoDB TTL attribute.
type OTPChallenge struct {
	Email         string    `json:"email" dynamodbav:"email"`
	Code          string    `json:"-" dynamodbav:"code"`
	IssuedAt      time.Time `json:"issued_at" dynamodbav:"issued_at"`
	ExpiresAt     time.Time `json:"expires_at" dynamodbav:"expires_at"`
	ExpiresAtUnix int64     `json:"-" dynamodbav:"ttl"`
	Consumed      bool      `json:"consumed" dynamodbav:"consumed"`
}

// Expired reports whether the challenge is past its validity window at now.
func (c *OTPChallenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
