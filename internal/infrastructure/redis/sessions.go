package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/barangay-cms/internal/domain"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "cms:session:"

// SessionRepo keeps each session as one JSON value whose key expires with
// the session.
type SessionRepo struct {
	client redis.UniversalClient
	now    func() time.Time
}

func NewSessionRepo(client redis.UniversalClient) *SessionRepo {
	return &SessionRepo{client: client, now: time.Now}
}

// sessionRecord mirrors domain.Session with explicit JSON for every field.
type sessionRecord struct {
	SessionID     string    `json:"session_id"`
	IdentityID    string    `json:"identity_id"`
	Authenticated bool      `json:"authenticated"`
	Role          string    `json:"role"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"display_name"`
	Barangay      string    `json:"barangay"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

func (r *SessionRepo) Put(ctx context.Context, s *domain.Session) error {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", s.SessionID)
	}
	b, err := json.Marshal(sessionRecord{
		SessionID:     s.SessionID,
		IdentityID:    s.IdentityID,
		Authenticated: s.Authenticated,
		Role:          string(s.Role),
		Email:         s.Email,
		DisplayName:   s.DisplayName,
		Barangay:      s.Barangay,
		CreatedAt:     s.CreatedAt,
		ExpiresAt:     s.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return r.client.Set(ctx, sessionKey(s.SessionID), b, ttl).Err()
}

func (r *SessionRepo) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	b, err := r.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("session not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var rec sessionRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &domain.Session{
		SessionID:     rec.SessionID,
		IdentityID:    rec.IdentityID,
		Authenticated: rec.Authenticated,
		Role:          domain.Role(rec.Role),
		Email:         rec.Email,
		DisplayName:   rec.DisplayName,
		Barangay:      rec.Barangay,
		CreatedAt:     rec.CreatedAt,
		ExpiresAt:     rec.ExpiresAt,
		ExpiresAtUnix: rec.ExpiresAt.Unix(),
	}, nil
}

func (r *SessionRepo) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, sessionKey(sessionID)).Err()
}

func sessionKey(id string) string { return sessionKeyPrefix + id }
