package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/barangay-cms/internal/domain"
)

// SessionRepo is a process-local session store.
type SessionRepo struct {
	mu   sync.RWMutex
	byID map[string]domain.Session
}

func NewSessionRepo() *SessionRepo {
	return &SessionRepo{byID: make(map[string]domain.Session)}
}

func (r *SessionRepo) Put(_ context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[s.SessionID] = *s
	return nil
}

func (r *SessionRepo) Get(_ context.Context, sessionID string) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[sessionID]
	if !ok {
		return nil, fmt.Errorf("session not found: %w", domain.ErrNotFound)
	}
	return &s, nil
}

func (r *SessionRepo) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, sessionID)
	return nil
}
