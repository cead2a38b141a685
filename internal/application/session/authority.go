package session

import "github.com/barangay-cms/internal/domain"

// Authority is the per-request view of the caller's session. It is
// immutable once built.
type Authority struct {
	session *domain.Session
}

var anonymous = &Authority{}

// Anonymous is the Authority of a caller without a live session.
func Anonymous() *Authority { return anonymous }

// NewAuthority wraps an already validated session record.
func NewAuthority(s *domain.Session) *Authority {
	if s == nil || !s.Authenticated || !s.Role.Valid() {
		return anonymous
	}
	cp := *s
	return &Authority{session: &cp}
}

func (a *Authority) IsAuthenticated() bool {
	return a != nil && a.session != nil
}

// CurrentRole returns the session role; ok is false for anonymous callers.
func (a *Authority) CurrentRole() (domain.Role, bool) {
	if !a.IsAuthenticated() {
		return "", false
	}
	return a.session.Role, true
}

// Session returns a copy of the backing record, or nil when anonymous.
func (a *Authority) Session() *domain.Session {
	if !a.IsAuthenticated() {
		return nil
	}
	cp := *a.session
	return &cp
}
