package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/luishrb/congress-portal/internal/auth"
	"github.com/luishrb/congress-portal/internal/model"
	"github.com/luishrb/congress-portal/internal/service"
)

// RegistrationHandler holds the admin-side handlers for minicourse
// registrations: listing, payment toggles, cancellation, and CSV export.
type RegistrationHandler struct {
	svc *service.MinicourseService
}

// NewRegistrationHandler constructs a RegistrationHandler.
func NewRegistrationHandler(svc *service.MinicourseService) *RegistrationHandler {
	return &RegistrationHandler{svc: svc}
}

// ListByMinicourse handles GET /admin/minicourses/{id}/registrations
func (h *RegistrationHandler) ListByMinicourse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	regs, err := h.svc.ListRegistrations(r.Context(), auth.ActorFrom(r.Context()), id, parsePaidFilter(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if regs == nil {
		regs = []model.Registration{}
	}
	writeJSON(w, http.StatusOK, regs)
}

// Export handles GET /admin/minicourses/{id}/registrations/export
// Streams the registration list as CSV for offline processing.
func (h *RegistrationHandler) Export(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	actor := auth.ActorFrom(r.Context())

	regs, err := h.svc.ListRegistrations(r.Context(), actor, id, nil)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=registrations-%s.csv", id))

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"name", "email", "cpf", "phone", "institution", "paid", "paid_at", "registered_at"})
	for _, reg := range regs {
		paidAt := ""
		if reg.PaidAt != nil {
			paidAt = reg.PaidAt.Format(time.RFC3339)
		}
		_ = cw.Write([]string{
			reg.Name, reg.Email, reg.CPF, reg.Phone, reg.Institution,
			strconv.FormatBool(reg.IsPaid), paidAt, reg.CreatedAt.Format(time.RFC3339),
		})
	}
	cw.Flush()
}

// SetPayment handles POST /admin/registrations/{id}/payment
// Flips is_paid/paid_at without ever touching seat counters.
func (h *RegistrationHandler) SetPayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body model.PaymentUpdate
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	reg, err := h.svc.SetRegistrationPayment(r.Context(), auth.ActorFrom(r.Context()), id, body.IsPaid)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reg)
}

// Cancel handles DELETE /admin/registrations/{id}
// The seat is returned to the parent minicourse regardless of payment state.
func (h *RegistrationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.CancelRegistration(r.Context(), auth.ActorFrom(r.Context()), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
