package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/barangay-cms/internal/application/credential"
	"github.com/barangay-cms/internal/application/notification"
	"github.com/barangay-cms/internal/application/otp"
	"github.com/barangay-cms/internal/domain"
	"github.com/barangay-cms/internal/pkg/validate"
)

const (
	minPasswordLength = 6
	// bcrypt only accepts secrets up to 72 bytes.
	maxPasswordBytes = 72
)

// UserDetails is the citizen sign-up form.
type UserDetails struct {
	Email           string `json:"email" validate:"required"`
	FullName        string `json:"full_name" validate:"required"`
	Barangay        string `json:"barangay" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// AdminDetails is the administrator sign-up form.
type AdminDetails struct {
	Email           string `json:"email" validate:"required"`
	Barangay        string `json:"barangay" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	ActivationKey   string `json:"activation_key" validate:"required"`
	AccessKey       string `json:"access_key" validate:"required,digits6"`
}

// CodeRequested is returned once a code was issued. DeliveryFailed is set
// when the mail could not be sent; the code stays valid for a resend.
type CodeRequested struct {
	Email          string `json:"email"`
	DeliveryFailed bool   `json:"delivery_failed"`
}

type Service interface {
	RequestUserCode(ctx context.Context, d UserDetails) (*CodeRequested, error)
	RequestAdminCode(ctx context.Context, d AdminDetails) (*CodeRequested, error)
	ResendCode(ctx context.Context, email string) (*CodeRequested, error)
	CompleteUserRegistration(ctx context.Context, code string, d UserDetails) (*domain.IdentityView, error)
	CompleteAdminRegistration(ctx context.Context, code string, d AdminDetails) (*domain.IdentityView, error)
}

type ServiceDeps struct {
	OTP         otp.Service
	Credentials credential.Service
	Sender      notification.Sender
	// ActivationKey gates admin sign-up. Compared case-insensitively.
	ActivationKey string
}

type service struct {
	otp           otp.Service
	credentials   credential.Service
	sender        notification.Sender
	activationKey string
}

func NewService(deps ServiceDeps) Service {
	return &service{
		otp:           deps.OTP,
		credentials:   deps.Credentials,
		sender:        deps.Sender,
		activationKey: deps.ActivationKey,
	}
}

func (s *service) RequestUserCode(ctx context.Context, d UserDetails) (*CodeRequested, error) {
	d = d.trimmed()
	if err := d.validate(true); err != nil {
		return nil, err
	}
	if err := s.ensureAvailable(ctx, d.Email); err != nil {
		return nil, err
	}
	return s.issue(ctx, d.Email)
}

func (s *service) RequestAdminCode(ctx context.Context, d AdminDetails) (*CodeRequested, error) {
	d = d.trimmed()
	if err := s.validateAdmin(d, true); err != nil {
		return nil, err
	}
	if err := s.ensureAvailable(ctx, d.Email); err != nil {
		return nil, err
	}
	return s.issue(ctx, d.Email)
}

// ResendCode re-issues a registration code, invalidating the previous one.
func (s *service) ResendCode(ctx context.Context, email string) (*CodeRequested, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("missing fields: email: %w", domain.ErrValidation)
	}
	if err := s.ensureAvailable(ctx, email); err != nil {
		return nil, err
	}
	return s.issue(ctx, email)
}

func (s *service) CompleteUserRegistration(ctx context.Context, code string, d UserDetails) (*domain.IdentityView, error) {
	d = d.trimmed()
	if err := d.validate(false); err != nil {
		return nil, err
	}
	hash, err := s.credentials.HashSecret(d.Password)
	if err != nil {
		return nil, err
	}
	if err := s.verify(ctx, d.Email, code); err != nil {
		return nil, err
	}
	ident, err := s.credentials.CreateUser(ctx, d.Email, d.FullName, d.Barangay, hash)
	if err != nil {
		return nil, err
	}
	slog.Info("user registered", "identity_id", ident.IdentityID, "barangay", d.Barangay)
	v := ident.View()
	return &v, nil
}

func (s *service) CompleteAdminRegistration(ctx context.Context, code string, d AdminDetails) (*domain.IdentityView, error) {
	d = d.trimmed()
	if err := s.validateAdmin(d, false); err != nil {
		return nil, err
	}
	passwordHash, err := s.credentials.HashSecret(d.Password)
	if err != nil {
		return nil, err
	}
	keyHash, err := s.credentials.HashSecret(d.AccessKey)
	if err != nil {
		return nil, err
	}
	if err := s.verify(ctx, d.Email, code); err != nil {
		return nil, err
	}
	ident, err := s.credentials.CreateAdmin(ctx, d.Email, d.Barangay, passwordHash, keyHash)
	if err != nil {
		return nil, err
	}
	slog.Info("admin registered", "identity_id", ident.IdentityID, "barangay", d.Barangay)
	v := ident.View()
	return &v, nil
}

// verify consumes the code, then re-checks the email since another
// registration may have completed while the code was outstanding.
func (s *service) verify(ctx context.Context, email, code string) error {
	if !otp.IsCode(strings.TrimSpace(code)) {
		return domain.ErrInvalidCode
	}
	if err := s.otp.Verify(ctx, email, strings.TrimSpace(code)); err != nil {
		return err
	}
	return s.ensureAvailable(ctx, email)
}

func (s *service) ensureAvailable(ctx context.Context, email string) error {
	taken, err := s.credentials.EmailTaken(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrDuplicateEmail
	}
	return nil
}

func (s *service) issue(ctx context.Context, email string) (*CodeRequested, error) {
	code, err := s.otp.Issue(ctx, email)
	if err != nil {
		return nil, err
	}
	out := &CodeRequested{Email: email}
	if err := s.sender.SendOTP(ctx, domain.ChannelEmail, email, code); err != nil {
		if !errors.Is(err, domain.ErrDeliveryFailure) {
			err = fmt.Errorf("%v: %w", err, domain.ErrDeliveryFailure)
		}
		slog.Warn("registration code not delivered", "email", email, "err", err)
		out.DeliveryFailed = true
	}
	return out, nil
}

func (s *service) validateAdmin(d AdminDetails, confirm bool) error {
	form := d
	form.Password = strings.TrimSpace(d.Password)
	form.ConfirmPassword = strings.TrimSpace(d.ConfirmPassword)
	if err := checkForm(form, confirm, d.Password, d.ConfirmPassword); err != nil {
		return err
	}
	if !strings.EqualFold(d.ActivationKey, s.activationKey) {
		return domain.ErrInvalidActivationKey
	}
	if len(validate.Failed(d, "digits6")) > 0 {
		return domain.ErrInvalidAccessKeyFormat
	}
	return nil
}

func (d UserDetails) validate(confirm bool) error {
	form := d
	form.Password = strings.TrimSpace(d.Password)
	form.ConfirmPassword = strings.TrimSpace(d.ConfirmPassword)
	return checkForm(form, confirm, d.Password, d.ConfirmPassword)
}

// checkForm applies the rules shared by both sign-up forms. form carries
// trimmed values for the required check; passwords are compared untrimmed.
// confirm_password is only required on the first step.
func checkForm(form interface{}, confirm bool, password, confirmPassword string) error {
	missing := validate.Missing(form)
	if !confirm {
		missing = without(missing, "confirm_password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing fields: %s: %w", strings.Join(missing, ", "), domain.ErrValidation)
	}
	if confirm || confirmPassword != "" {
		if password != confirmPassword {
			return domain.ErrPasswordMismatch
		}
	}
	if len(password) < minPasswordLength {
		return domain.ErrPasswordTooShort
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("password must be at most %d bytes: %w", maxPasswordBytes, domain.ErrValidation)
	}
	return nil
}

func without(fields []string, name string) []string {
	out := fields[:0]
	for _, f := range fields {
		if f != name {
			out = append(out, f)
		}
	}
	return out
}

func (d UserDetails) trimmed() UserDetails {
	d.Email = domain.NormalizeEmail(d.Email)
	d.FullName = strings.TrimSpace(d.FullName)
	d.Barangay = strings.TrimSpace(d.Barangay)
	return d
}

func (d AdminDetails) trimmed() AdminDetails {
	d.Email = domain.NormalizeEmail(d.Email)
	d.Barangay = strings.TrimSpace(d.Barangay)
	d.ActivationKey = strings.TrimSpace(d.ActivationKey)
	d.AccessKey = strings.TrimSpace(d.AccessKey)
	return d
}
