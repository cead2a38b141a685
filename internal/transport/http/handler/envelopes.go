package handler

import (
	"encoding/json"
	"net/http"

	"github.com/barangay-cms/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// CodeEnvelope answers a request that issued a one-time code or asks for the
// admin access key.
type CodeEnvelope struct {
	Message        string `json:"message"`
	Email          string `json:"email"`
	Step           string `json:"step,omitempty"`
	DeliveryFailed bool   `json:"delivery_failed,omitempty"`
}

// IdentityEnvelope wraps a completed registration.
type IdentityEnvelope struct {
	Message  string               `json:"message"`
	Identity *domain.IdentityView `json:"identity"`
}

// AuthEnvelope wraps a completed login.
type AuthEnvelope struct {
	Bearer   string       `json:"Bearer,omitempty"`
	Session  *SafeSession `json:"session,omitempty"`
	Redirect string       `json:"redirect,omitempty"`
	Message  string       `json:"message,omitempty"`
}

// SafeSession is the client-visible part of a session.
type SafeSession struct {
	Authenticated bool        `json:"authenticated"`
	Role          domain.Role `json:"role,omitempty"`
	Email         string      `json:"email,omitempty"`
	DisplayName   string      `json:"display_name,omitempty"`
	Barangay      string      `json:"barangay,omitempty"`
}

// BarangaysEnvelope lists barangays with a registered admin.
type BarangaysEnvelope struct {
	Barangays []string `json:"barangays"`
}

func toSafeSession(s *domain.Session) *SafeSession {
	if s == nil {
		return &SafeSession{}
	}
	return &SafeSession{
		Authenticated: s.Authenticated,
		Role:          s.Role,
		Email:         s.Email,
		DisplayName:   s.DisplayName,
		Barangay:      s.Barangay,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg, ErrorCode: status})
}

// maxBodyBytes caps request bodies on the public auth endpoints.
const maxBodyBytes = 8 << 10

func decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}
