package handler

import (
	"net/http"

	"github.com/barangay-cms/internal/application/credential"
)

// BarangayHandler lists barangays that have a registered admin.
type BarangayHandler struct {
	svc credential.Service
}

func NewBarangayHandler(svc credential.Service) *BarangayHandler {
	return &BarangayHandler{svc: svc}
}

func (h *BarangayHandler) Registered(w http.ResponseWriter, r *http.Request) {
	names, err := h.svc.RegisteredBarangays(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, BarangaysEnvelope{Barangays: names})
}
