package otp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/barangay-cms/internal/domain"
	"github.com/barangay-cms/internal/pkg/token"
	"github.com/barangay-cms/internal/pkg/validate"
)

// DefaultTTL is the validity window of an issued code.
const DefaultTTL = 10 * time.Minute

const codeLength = 6

// ChallengeRepository is the persistence the OTP store needs.
//
// Replace must drop every unconsumed challenge for c.Email and store c as one
// atomic unit. Find returns the unconsumed challenge matching (email, code) or
// domain.ErrNotFound. Consume marks that challenge consumed only if it is still
// unconsumed and returns domain.ErrConflict when another caller got there first.
type ChallengeRepository interface {
	Replace(ctx context.Context, c *domain.OTPChallenge) error
	Find(ctx context.Context, email, code string) (*domain.OTPChallenge, error)
	Consume(ctx context.Context, email, code string) error
}

type Service interface {
	Issue(ctx context.Context, email string) (string, error)
	Verify(ctx context.Context, email, code string) error
}

type ServiceDeps struct {
	Repo ChallengeRepository
	TTL  time.Duration
	// Now and NewCode default to time.Now and GenerateCode.
	Now     func() time.Time
	NewCode func() (string, error)
}

type service struct {
	repo    ChallengeRepository
	ttl     time.Duration
	now     func() time.Time
	newCode func() (string, error)
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		repo:    deps.Repo,
		ttl:     deps.TTL,
		now:     deps.Now,
		newCode: deps.NewCode,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newCode == nil {
		s.newCode = GenerateCode
	}
	return s
}

func (s *service) Issue(ctx context.Context, email string) (string, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return "", fmt.Errorf("email required: %w", domain.ErrValidation)
	}
	code, err := s.newCode()
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	now := s.now().UTC()
	c := &domain.OTPChallenge{
		Email:         email,
		Code:          code,
		IssuedAt:      now,
		ExpiresAt:     now.Add(s.ttl),
		ExpiresAtUnix: now.Add(s.ttl).Unix(),
	}
	if err := s.repo.Replace(ctx, c); err != nil {
		return "", fmt.Errorf("store challenge: %v: %w", err, domain.ErrStoreUnavailable)
	}
	return code, nil
}

func (s *service) Verify(ctx context.Context, email, code string) error {
	email = domain.NormalizeEmail(email)
	if !IsCode(code) {
		return domain.ErrInvalidCode
	}
	c, err := s.repo.Find(ctx, email, code)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrInvalidCode
	}
	if err != nil {
		return fmt.Errorf("find challenge: %v: %w", err, domain.ErrStoreUnavailable)
	}
	if c.Expired(s.now()) {
		return domain.ErrOTPExpired
	}
	err = s.repo.Consume(ctx, email, code)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrNotFound):
		// lost the race against a concurrent verify or a re-issue
		return domain.ErrInvalidCode
	default:
		return fmt.Errorf("consume challenge: %v: %w", err, domain.ErrStoreUnavailable)
	}
}

// GenerateCode returns a uniformly random 6-digit decimal string; leading zeros allowed.
func GenerateCode() (string, error) { return token.NewNumeric(codeLength) }

// IsCode reports whether s is exactly six ASCII digits.
func IsCode(s string) bool { return validate.IsDigits(s, codeLength) }
