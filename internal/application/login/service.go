package login

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/barangay-cms/internal/application/credential"
	"github.com/barangay-cms/internal/application/notification"
	"github.com/barangay-cms/internal/application/otp"
	"github.com/barangay-cms/internal/application/session"
	"github.com/barangay-cms/internal/domain"
	"github.com/barangay-cms/internal/pkg/validate"
)

// Second factor expected after a successful password check.
const (
	StepOTP       = "otp"
	StepAccessKey = "access_key"
)

// Pending is returned when the password was accepted and a second factor is
// required.
type Pending struct {
	Email          string `json:"email"`
	Step           string `json:"step"`
	DeliveryFailed bool   `json:"delivery_failed,omitempty"`
}

// Result is a completed login.
type Result struct {
	Session *domain.Session
	Token   string
}

type Service interface {
	RequestUserLogin(ctx context.Context, email, password string) (*Pending, error)
	CompleteUserLogin(ctx context.Context, email, code string) (*Result, error)
	RequestAdminLogin(ctx context.Context, email, password string) (*Pending, error)
	CompleteAdminLogin(ctx context.Context, email, accessKey string) (*Result, error)
	Logout(ctx context.Context, sessionID string) error
}

type ServiceDeps struct {
	OTP         otp.Service
	Credentials credential.Service
	Sender      notification.Sender
	Sessions    session.Service
}

type service struct {
	otp         otp.Service
	credentials credential.Service
	sender      notification.Sender
	sessions    session.Service
}

func NewService(deps ServiceDeps) Service {
	return &service{
		otp:         deps.OTP,
		credentials: deps.Credentials,
		sender:      deps.Sender,
		sessions:    deps.Sessions,
	}
}

func (s *service) RequestUserLogin(ctx context.Context, email, password string) (*Pending, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", domain.ErrValidation)
	}
	ident, err := s.find(ctx, email, domain.RoleUser)
	if err != nil {
		return nil, err
	}
	if ident.User == nil || !ident.User.EmailVerified {
		return nil, domain.ErrEmailNotVerified
	}
	if !s.credentials.CheckPassword(ident, password) {
		slog.Warn("login rejected", "role", domain.RoleUser, "reason", "password")
		return nil, domain.ErrInvalidCredentials
	}
	code, err := s.otp.Issue(ctx, email)
	if err != nil {
		return nil, err
	}
	out := &Pending{Email: email, Step: StepOTP}
	if err := s.sender.SendOTP(ctx, domain.ChannelEmail, email, code); err != nil {
		slog.Warn("login code not delivered", "email", email, "err", err)
		out.DeliveryFailed = true
	}
	return out, nil
}

func (s *service) CompleteUserLogin(ctx context.Context, email, code string) (*Result, error) {
	email = domain.NormalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return nil, fmt.Errorf("email and otp are required: %w", domain.ErrValidation)
	}
	if err := s.otp.Verify(ctx, email, code); err != nil {
		return nil, err
	}
	// re-load: the identity is the source of truth for the session role
	ident, err := s.find(ctx, email, domain.RoleUser)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, ident)
}

// RequestAdminLogin checks the password only. Admins prove the second factor
// with their access key instead of an emailed code.
func (s *service) RequestAdminLogin(ctx context.Context, email, password string) (*Pending, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", domain.ErrValidation)
	}
	ident, err := s.find(ctx, email, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if ident.Admin == nil || !ident.Admin.IsStaff {
		return nil, domain.ErrNotAuthorized
	}
	if !s.credentials.CheckPassword(ident, password) {
		slog.Warn("login rejected", "role", domain.RoleAdmin, "reason", "password")
		return nil, domain.ErrInvalidCredentials
	}
	return &Pending{Email: email, Step: StepAccessKey}, nil
}

func (s *service) CompleteAdminLogin(ctx context.Context, email, accessKey string) (*Result, error) {
	accessKey = strings.TrimSpace(accessKey)
	if !validate.IsDigits(accessKey, 6) {
		return nil, domain.ErrInvalidAccessKeyFormat
	}
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("email is required: %w", domain.ErrValidation)
	}
	ident, err := s.find(ctx, email, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if ident.Admin == nil || !ident.Admin.IsStaff {
		return nil, domain.ErrNotAuthorized
	}
	if !s.credentials.CheckAccessKey(ident, accessKey) {
		slog.Warn("login rejected", "role", domain.RoleAdmin, "reason", "access_key")
		return nil, domain.ErrInvalidCredentials
	}
	return s.establish(ctx, ident)
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Clear(ctx, sessionID)
}

// find maps unknown and wrong-role emails to the same generic error as a bad
// password.
func (s *service) find(ctx context.Context, email string, role domain.Role) (*domain.Identity, error) {
	ident, err := s.credentials.FindByEmail(ctx, email, role)
	if errors.Is(err, domain.ErrNotFound) {
		slog.Warn("login rejected", "role", role, "reason", "unknown")
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	return ident, nil
}

func (s *service) establish(ctx context.Context, ident *domain.Identity) (*Result, error) {
	sess, token, err := s.sessions.Establish(ctx, ident)
	if err != nil {
		return nil, err
	}
	return &Result{Session: sess, Token: token}, nil
}
