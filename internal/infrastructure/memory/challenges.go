package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/barangay-cms/internal/domain"
)

// ChallengeRepo keeps OTP challenges in memory. Consumed challenges are kept
// until they would have expired, then dropped on the next Replace.
type ChallengeRepo struct {
	mu      sync.Mutex
	byEmail map[string][]domain.OTPChallenge
}

func NewChallengeRepo() *ChallengeRepo {
	return &ChallengeRepo{byEmail: make(map[string][]domain.OTPChallenge)}
}

func (r *ChallengeRepo) Replace(_ context.Context, c *domain.OTPChallenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.byEmail[c.Email][:0]
	for _, old := range r.byEmail[c.Email] {
		if old.Consumed && old.ExpiresAt.After(c.IssuedAt) {
			kept = append(kept, old)
		}
	}
	r.byEmail[c.Email] = append(kept, *c)
	return nil
}

func (r *ChallengeRepo) Find(_ context.Context, email, code string) (*domain.OTPChallenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byEmail[email] {
		if !c.Consumed && c.Code == code {
			out := c
			return &out, nil
		}
	}
	return nil, fmt.Errorf("challenge not found: %w", domain.ErrNotFound)
}

func (r *ChallengeRepo) Consume(_ context.Context, email, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.byEmail[email]
	for i := range list {
		if !list[i].Consumed && list[i].Code == code {
			list[i].Consumed = true
			return nil
		}
	}
	return fmt.Errorf("challenge already consumed: %w", domain.ErrConflict)
}

// Unconsumed returns the live challenges for email.
func (r *ChallengeRepo) Unconsumed(email string) []domain.OTPChallenge {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.OTPChallenge
	for _, c := range r.byEmail[email] {
		if !c.Consumed {
			out = append(out, c)
		}
	}
	return out
}

// Count returns every challenge ever stored for email, consumed or not.
func (r *ChallengeRepo) Count(email string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byEmail[email])
}
