package domain

import (
	"strings"
	"time"
)

// Role is the exclusive authorization class of an identity and of the session it establishes.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

// Identity is a registered principal. Exactly one of User / Admin is set,
// matching Role.
type Identity struct {
	IdentityID   string        `json:"id" dynamodbav:"identity_id"`
	Email        string        `json:"email" dynamodbav:"email"`
	Role         Role          `json:"role" dynamodbav:"role"`
	PasswordHash string        `json:"-" dynamodbav:"password_hash"`
	User         *UserProfile  `json:"user,omitempty" dynamodbav:"user,omitempty"`
	Admin        *AdminProfile `json:"admin,omitempty" dynamodbav:"admin,omitempty"`
	CreatedAt    time.Time     `json:"created" dynamodbav:"created_at"`
}

// UserProfile is the citizen attachment of an Identity.
type UserProfile struct {
	FullName      string `json:"full_name" dynamodbav:"full_name"`
	Barangay      string `json:"barangay" dynamodbav:"barangay"`
	EmailVerified bool   `json:"email_verified" dynamodbav:"email_verified"`
}

// AdminProfile is the administrator attachment of an Identity.
type AdminProfile struct {
	Barangay      string `json:"barangay" dynamodbav:"barangay"`
	AccessKeyHash string `json:"-" dynamodbav:"access_key_hash"`
	IsStaff       bool   `json:"is_staff" dynamodbav:"is_staff"`
}

// Barangay returns the barangay of whichever attachment is present.
func (i *Identity) Barangay() string {
	switch {
	case i.User != nil:
		return i.User.Barangay
	case i.Admin != nil:
		return i.Admin.Barangay
	}
	return ""
}

// DisplayName is the name shown for the identity in the session.
func (i *Identity) DisplayName() string {
	if i.User != nil && i.User.FullName != "" {
		return i.User.FullName
	}
	if i.Admin != nil {
		return "Admin - " + i.Admin.Barangay
	}
	return i.Email
}

// IdentityView is the public projection of an Identity (no hashes).
type IdentityView struct {
	IdentityID    string    `json:"id"`
	Email         string    `json:"email"`
	Role          Role      `json:"role"`
	FullName      string    `json:"full_name,omitempty"`
	Barangay      string    `json:"barangay"`
	EmailVerified bool      `json:"email_verified"`
	IsStaff       bool      `json:"is_staff,omitempty"`
	CreatedAt     time.Time `json:"created"`
}

// View builds the public projection of i.
func (i *Identity) View() IdentityView {
	v := IdentityView{
		IdentityID: i.IdentityID,
		Email:      i.Email,
		Role:       i.Role,
		Barangay:   i.Barangay(),
		CreatedAt:  i.CreatedAt,
	}
	if i.User != nil {
		v.FullName = i.User.FullName
		v.EmailVerified = i.User.EmailVerified
	}
	if i.Admin != nil {
		v.IsStaff = i.Admin.IsStaff
		v.EmailVerified = true
	}
	return v
}

// NormalizeEmail trims and lower-cases an address. Every store keys
// identities and challenges by the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
