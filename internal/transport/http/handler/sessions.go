package handler

import (
	"net/http"

	"github.com/barangay-cms/internal/application/login"
	"github.com/barangay-cms/internal/transport/http/middleware"
)

// SessionHandler reports and ends the caller's session.
type SessionHandler struct {
	svc        login.Service
	cookieName string
}

func NewSessionHandler(svc login.Service, cookieName string) *SessionHandler {
	return &SessionHandler{svc: svc, cookieName: cookieName}
}

// GetCurrent answers 200 for anonymous callers too, with authenticated=false.
func (h *SessionHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toSafeSession(middleware.AuthorityFromContext(r.Context()).Session()))
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.AuthorityFromContext(r.Context()).Session()
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.Logout(r.Context(), sess.SessionID); err != nil {
		writeDomainError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Logged out successfully"})
}
