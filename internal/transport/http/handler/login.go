package handler

import (
	"net/http"

	"github.com/barangay-cms/internal/application/login"
	"github.com/barangay-cms/internal/domain"
)

// Landing pages per role after a completed login.
const (
	userLanding  = "/user.html"
	adminLanding = "/admin-dashboard.html"
)

// CookieConfig describes the session cookie written on login.
type CookieConfig struct {
	Name   string
	Secure bool
}

// LoginHandler handles the two-step login endpoints for both roles.
type LoginHandler struct {
	svc    login.Service
	cookie CookieConfig
}

func NewLoginHandler(svc login.Service, cookie CookieConfig) *LoginHandler {
	return &LoginHandler{svc: svc, cookie: cookie}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *LoginHandler) UserLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := h.svc.RequestUserLogin(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	env := CodeEnvelope{Message: "OTP sent to your email.", Email: p.Email, Step: p.Step, DeliveryFailed: p.DeliveryFailed}
	if p.DeliveryFailed {
		env.Message = "We could not send the login code. Please try again."
	}
	writeJSON(w, http.StatusOK, env)
}

func (h *LoginHandler) UserVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := h.svc.CompleteUserLogin(r.Context(), req.Email, req.OTP)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.loggedIn(w, res)
}

func (h *LoginHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := h.svc.RequestAdminLogin(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CodeEnvelope{Message: "Please enter your 6-digit access key.", Email: p.Email, Step: p.Step})
}

func (h *LoginHandler) AdminAccessKey(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email     string `json:"email"`
		AccessKey string `json:"access_key"`
	}
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := h.svc.CompleteAdminLogin(r.Context(), req.Email, req.AccessKey)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.loggedIn(w, res)
}

func (h *LoginHandler) loggedIn(w http.ResponseWriter, res *login.Result) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    res.Token,
		Path:     "/",
		Expires:  res.Session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	redirect := userLanding
	if res.Session.Role == domain.RoleAdmin {
		redirect = adminLanding
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{
		Bearer:   res.Token,
		Session:  toSafeSession(res.Session),
		Redirect: redirect,
		Message:  "Login successful",
	})
}
