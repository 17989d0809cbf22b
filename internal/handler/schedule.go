package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/luishrb/congress-portal/internal/auth"
	"github.com/luishrb/congress-portal/internal/model"
	"github.com/luishrb/congress-portal/internal/service"
)

// ScheduleHandler holds HTTP handlers for the congress programme.
type ScheduleHandler struct {
	svc *service.ScheduleService
}

// NewScheduleHandler constructs a ScheduleHandler.
func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

// List handles GET /schedule
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), auth.ActorFrom(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if items == nil {
		items = []model.ScheduleItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Create handles POST /admin/schedule
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.ScheduleInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	item, err := h.svc.Create(r.Context(), auth.ActorFrom(r.Context()), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// Update handles PUT /admin/schedule/{id}
func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in model.ScheduleInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	item, err := h.svc.Update(r.Context(), auth.ActorFrom(r.Context()), chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// SetPublished handles POST /admin/schedule/{id}/publish
func (h *ScheduleHandler) SetPublished(w http.ResponseWriter, r *http.Request) {
	var body model.PublishUpdate
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := h.svc.SetPublished(r.Context(), auth.ActorFrom(r.Context()), chi.URLParam(r, "id"), body.Published); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"published": body.Published})
}

// Delete handles DELETE /admin/schedule/{id}
func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), auth.ActorFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
