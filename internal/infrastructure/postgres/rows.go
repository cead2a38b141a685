package postgres

import (
	"time"

	"github.com/barangay-cms/internal/domain"
)

// identityRow is the flat table shape of a domain.Identity.
type identityRow struct {
	IdentityID    string    `db:"identity_id"`
	Email         string    `db:"email"`
	Role          string    `db:"role"`
	PasswordHash  string    `db:"password_hash"`
	FullName      string    `db:"full_name"`
	Barangay      string    `db:"barangay"`
	EmailVerified bool      `db:"email_verified"`
	AccessKeyHash string    `db:"access_key_hash"`
	IsStaff       bool      `db:"is_staff"`
	CreatedAt     time.Time `db:"created_at"`
}

func toRow(id *domain.Identity) identityRow {
	row := identityRow{
		IdentityID:   id.IdentityID,
		Email:        domain.NormalizeEmail(id.Email),
		Role:         string(id.Role),
		PasswordHash: id.PasswordHash,
		Barangay:     id.Barangay(),
		CreatedAt:    id.CreatedAt,
	}
	if id.User != nil {
		row.FullName = id.User.FullName
		row.EmailVerified = id.User.EmailVerified
	}
	if id.Admin != nil {
		row.AccessKeyHash = id.Admin.AccessKeyHash
		row.IsStaff = id.Admin.IsStaff
	}
	return row
}

func (r identityRow) toDomain() *domain.Identity {
	id := &domain.Identity{
		IdentityID:   r.IdentityID,
		Email:        r.Email,
		Role:         domain.Role(r.Role),
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
	switch id.Role {
	case domain.RoleUser:
		id.User = &domain.UserProfile{FullName: r.FullName, Barangay: r.Barangay, EmailVerified: r.EmailVerified}
	case domain.RoleAdmin:
		id.Admin = &domain.AdminProfile{Barangay: r.Barangay, AccessKeyHash: r.AccessKeyHash, IsStaff: r.IsStaff}
	}
	return id
}

type challengeRow struct {
	Email     string    `db:"email"`
	Code      string    `db:"code"`
	IssuedAt  time.Time `db:"issued_at"`
	ExpiresAt time.Time `db:"expires_at"`
	Consumed  bool      `db:"consumed"`
}

func (r challengeRow) toDomain() *domain.OTPChallenge {
	return &domain.OTPChallenge{
		Email:         r.Email,
		Code:          r.Code,
		IssuedAt:      r.IssuedAt,
		ExpiresAt:     r.ExpiresAt,
		ExpiresAtUnix: r.ExpiresAt.Unix(),
		Consumed:      r.Consumed,
	}
}
