package handler

import (
	"net/http"

	"github.com/barangay-cms/internal/application/registration"
)

// RegistrationHandler handles the two-step sign-up endpoints for both roles.
type RegistrationHandler struct {
	svc registration.Service
}

func NewRegistrationHandler(svc registration.Service) *RegistrationHandler {
	return &RegistrationHandler{svc: svc}
}

type userVerifyRequest struct {
	registration.UserDetails
	OTP string `json:"otp"`
}

type adminVerifyRequest struct {
	registration.AdminDetails
	OTP string `json:"otp"`
}

func (h *RegistrationHandler) RequestUserCode(w http.ResponseWriter, r *http.Request) {
	var req registration.UserDetails
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := h.svc.RequestUserCode(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, codeSent(res))
}

func (h *RegistrationHandler) ResendUserCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := h.svc.ResendCode(r.Context(), req.Email)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, codeSent(res))
}

func (h *RegistrationHandler) VerifyUser(w http.ResponseWriter, r *http.Request) {
	var req userVerifyRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	view, err := h.svc.CompleteUserRegistration(r.Context(), req.OTP, req.UserDetails)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, IdentityEnvelope{Message: "Registration successful. You can now log in.", Identity: view})
}

func (h *RegistrationHandler) RequestAdminCode(w http.ResponseWriter, r *http.Request) {
	var req registration.AdminDetails
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := h.svc.RequestAdminCode(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, codeSent(res))
}

func (h *RegistrationHandler) VerifyAdmin(w http.ResponseWriter, r *http.Request) {
	var req adminVerifyRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	view, err := h.svc.CompleteAdminRegistration(r.Context(), req.OTP, req.AdminDetails)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, IdentityEnvelope{Message: "Admin registration successful. You can now log in.", Identity: view})
}

func codeSent(res *registration.CodeRequested) CodeEnvelope {
	env := CodeEnvelope{
		Message:        "OTP sent to your email. Please check your inbox.",
		Email:          res.Email,
		Step:           "otp",
		DeliveryFailed: res.DeliveryFailed,
	}
	if res.DeliveryFailed {
		env.Message = "We could not send the verification email. Please request a new code."
	}
	return env
}
