package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/barangay-cms/internal/domain"
)

// IdentityRepo is a process-local identity store keyed by normalized email.
type IdentityRepo struct {
	mu    sync.RWMutex
	byKey map[string]domain.Identity
}

func NewIdentityRepo() *IdentityRepo {
	return &IdentityRepo{byKey: make(map[string]domain.Identity)}
}

// Create stores id unless its email is already held by any identity.
func (r *IdentityRepo) Create(_ context.Context, id *domain.Identity) error {
	key := domain.NormalizeEmail(id.Email)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byKey[key]; ok {
		return fmt.Errorf("identity %s: %w", key, domain.ErrDuplicateEmail)
	}
	r.byKey[key] = cloneIdentity(id)
	return nil
}

func (r *IdentityRepo) GetByEmail(_ context.Context, email string) (*domain.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byKey[domain.NormalizeEmail(email)]
	if !ok {
		return nil, fmt.Errorf("identity not found: %w", domain.ErrNotFound)
	}
	out := cloneIdentity(&id)
	return &out, nil
}

func (r *IdentityRepo) ListAdminBarangays(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	var out []string
	for _, id := range r.byKey {
		if id.Admin == nil || id.Admin.Barangay == "" {
			continue
		}
		if _, ok := seen[id.Admin.Barangay]; ok {
			continue
		}
		seen[id.Admin.Barangay] = struct{}{}
		out = append(out, id.Admin.Barangay)
	}
	sort.Strings(out)
	return out, nil
}

// Put overwrites an identity unconditionally. Used to seed fixtures.
func (r *IdentityRepo) Put(id *domain.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byKey[domain.NormalizeEmail(id.Email)] = cloneIdentity(id)
}

// Len returns the number of stored identities.
func (r *IdentityRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byKey)
}

func cloneIdentity(id *domain.Identity) domain.Identity {
	out := *id
	if id.User != nil {
		u := *id.User
		out.User = &u
	}
	if id.Admin != nil {
		a := *id.Admin
		out.Admin = &a
	}
	return out
}
