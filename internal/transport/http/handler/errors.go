package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/barangay-cms/internal/domain"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrBadRequest, http.StatusBadRequest},
	{domain.ErrPasswordMismatch, http.StatusBadRequest},
	{domain.ErrPasswordTooShort, http.StatusBadRequest},
	{domain.ErrInvalidActivationKey, http.StatusBadRequest},
	{domain.ErrInvalidAccessKeyFormat, http.StatusBadRequest},
	{domain.ErrDuplicateEmail, http.StatusConflict},
	{domain.ErrConflict, http.StatusConflict},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrInvalidCode, http.StatusUnauthorized},
	{domain.ErrOTPExpired, http.StatusUnauthorized},
	{domain.ErrUnauthorized, http.StatusUnauthorized},
	{domain.ErrNotAuthorized, http.StatusForbidden},
	{domain.ErrEmailNotVerified, http.StatusForbidden},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrDeliveryFailure, http.StatusBadGateway},
	{domain.ErrStoreUnavailable, http.StatusServiceUnavailable},
}

// statusFor maps a domain error to its HTTP status. Unknown errors are 500.
func statusFor(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// writeDomainError writes err with its mapped status. Server-side failures
// are logged and replaced with a generic message.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		msg = http.StatusText(status)
	}
	writeError(w, status, msg)
}
