package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/barangay-cms/internal/domain"
	"github.com/barangay-cms/internal/pkg/id"
)

const DefaultTTL = 24 * time.Hour

// Repository persists session records. Put stores a complete record in one
// write; Get returns domain.ErrNotFound for unknown IDs.
type Repository interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	Delete(ctx context.Context, sessionID string) error
}

type Service interface {
	// Establish writes a fully populated session for identity and returns it
	// with its signed token.
	Establish(ctx context.Context, identity *domain.Identity) (*domain.Session, string, error)
	// Load resolves a token to an Authority. Missing, invalid and expired
	// tokens yield the anonymous Authority without error.
	Load(ctx context.Context, token string) (*Authority, error)
	Clear(ctx context.Context, sessionID string) error
}

type ServiceDeps struct {
	Repo   Repository
	Tokens TokenCodec
	TTL    time.Duration
	Now    func() time.Time
}

// TokenCodec signs session IDs into bearer tokens and reads them back.
type TokenCodec interface {
	Sign(sessionID, role string) (string, error)
	SessionID(token string) (string, error)
}

type service struct {
	repo   Repository
	tokens TokenCodec
	ttl    time.Duration
	now    func() time.Time
}

func NewService(deps ServiceDeps) Service {
	s := &service{repo: deps.Repo, tokens: deps.Tokens, ttl: deps.TTL, now: deps.Now}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) Establish(ctx context.Context, identity *domain.Identity) (*domain.Session, string, error) {
	if identity == nil || !identity.Role.Valid() {
		return nil, "", fmt.Errorf("establish session: %w", domain.ErrBadRequest)
	}
	now := s.now().UTC()
	sess := &domain.Session{
		SessionID:     id.New(),
		IdentityID:    identity.IdentityID,
		Authenticated: true,
		Role:          identity.Role,
		Email:         identity.Email,
		DisplayName:   identity.DisplayName(),
		Barangay:      identity.Barangay(),
		CreatedAt:     now,
		ExpiresAt:     now.Add(s.ttl),
		ExpiresAtUnix: now.Add(s.ttl).Unix(),
	}
	token, err := s.tokens.Sign(sess.SessionID, string(sess.Role))
	if err != nil {
		return nil, "", fmt.Errorf("sign session token: %w", err)
	}
	if err := s.repo.Put(ctx, sess); err != nil {
		return nil, "", fmt.Errorf("put session: %v: %w", err, domain.ErrStoreUnavailable)
	}
	slog.Info("session established", "session_id", sess.SessionID, "role", sess.Role, "identity_id", sess.IdentityID)
	return sess, token, nil
}

func (s *service) Load(ctx context.Context, token string) (*Authority, error) {
	if token == "" {
		return Anonymous(), nil
	}
	sessionID, err := s.tokens.SessionID(token)
	if err != nil {
		return Anonymous(), nil
	}
	sess, err := s.repo.Get(ctx, sessionID)
	if errors.Is(err, domain.ErrNotFound) {
		return Anonymous(), nil
	}
	if err != nil {
		return Anonymous(), fmt.Errorf("get session: %v: %w", err, domain.ErrStoreUnavailable)
	}
	if !sess.Active(s.now()) {
		return Anonymous(), nil
	}
	return &Authority{session: sess}, nil
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %v: %w", err, domain.ErrStoreUnavailable)
	}
	slog.Info("session cleared", "session_id", sessionID)
	return nil
}
