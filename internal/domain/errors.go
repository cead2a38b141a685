package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
)

// Authentication flow errors. Every flow method returns exactly one of these
// (wrapped) on failure.
var (
	ErrValidation             = errors.New("validation failed")
	ErrPasswordMismatch       = errors.New("passwords do not match")
	ErrPasswordTooShort       = errors.New("password must be at least 6 characters")
	ErrInvalidActivationKey   = errors.New("invalid activation key")
	ErrInvalidAccessKeyFormat = errors.New("admin access key must be exactly 6 digits")
	ErrDuplicateEmail         = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrEmailNotVerified       = errors.New("please verify your email before logging in")
	ErrInvalidCode            = errors.New("invalid OTP code")
	ErrOTPExpired             = errors.New("OTP has expired")
	ErrNotAuthorized          = errors.New("not authorized for this role")
	ErrDeliveryFailure        = errors.New("notification delivery failed")
	ErrStoreUnavailable       = errors.New("store unavailable")
)
