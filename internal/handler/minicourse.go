package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/luishrb/congress-portal/internal/auth"
	"github.com/luishrb/congress-portal/internal/model"
	"github.com/luishrb/congress-portal/internal/service"
)

// MinicourseHandler holds HTTP handlers for the minicourse catalog and the
// registration workflow.
type MinicourseHandler struct {
	svc *service.MinicourseService
}

// NewMinicourseHandler constructs a MinicourseHandler.
func NewMinicourseHandler(svc *service.MinicourseService) *MinicourseHandler {
	return &MinicourseHandler{svc: svc}
}

// List handles GET /minicourses
func (h *MinicourseHandler) List(w http.ResponseWriter, r *http.Request) {
	courses, err := h.svc.ListMinicourses(r.Context(), auth.ActorFrom(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if courses == nil {
		courses = []model.Minicourse{}
	}
	writeJSON(w, http.StatusOK, courses)
}

// Get handles GET /minicourses/{id}
func (h *MinicourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m, err := h.svc.GetMinicourse(r.Context(), auth.ActorFrom(r.Context()), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// Register handles POST /minicourses/{id}/register
// Claims one seat atomically with the registration insert.
func (h *MinicourseHandler) Register(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req model.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	reg, err := h.svc.Register(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reg)
}

// Create handles POST /admin/minicourses
func (h *MinicourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.MinicourseInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	m, err := h.svc.CreateMinicourse(r.Context(), auth.ActorFrom(r.Context()), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// Update handles PUT /admin/minicourses/{id}
func (h *MinicourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in model.MinicourseInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	m, err := h.svc.UpdateMinicourse(r.Context(), auth.ActorFrom(r.Context()), id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// UpdateCapacity handles POST /admin/minicourses/{id}/capacity
func (h *MinicourseHandler) UpdateCapacity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body struct {
		Vacancies int `json:"vacancies"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.UpdateCapacity(r.Context(), auth.ActorFrom(r.Context()), id, body.Vacancies); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// SetPublished handles POST /admin/minicourses/{id}/publish
func (h *MinicourseHandler) SetPublished(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body model.PublishUpdate
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.SetPublished(r.Context(), auth.ActorFrom(r.Context()), id, body.Published); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"published": body.Published})
}

// Delete handles DELETE /admin/minicourses/{id}
// Refused while any registration still references the minicourse.
func (h *MinicourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.DeleteMinicourse(r.Context(), auth.ActorFrom(r.Context()), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Summary handles GET /admin/minicourses/{id}/summary
func (h *MinicourseHandler) Summary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	summary, err := h.svc.RegistrationSummary(r.Context(), auth.ActorFrom(r.Context()), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
