package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/luishrb/congress-portal/internal/auth"
	"github.com/luishrb/congress-portal/internal/model"
	"github.com/luishrb/congress-portal/internal/service"
)

// NewsHandler holds HTTP handlers for news posts.
type NewsHandler struct {
	svc *service.NewsService
}

// NewNewsHandler constructs a NewsHandler.
func NewNewsHandler(svc *service.NewsService) *NewsHandler {
	return &NewsHandler{svc: svc}
}

// List handles GET /news
func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), auth.ActorFrom(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if items == nil {
		items = []model.News{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Get handles GET /news/{id}
func (h *NewsHandler) Get(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Get(r.Context(), auth.ActorFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// Create handles POST /admin/news
func (h *NewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.NewsInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	n, err := h.svc.Create(r.Context(), auth.ActorFrom(r.Context()), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

// Update handles PUT /admin/news/{id}
func (h *NewsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in model.NewsInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	n, err := h.svc.Update(r.Context(), auth.ActorFrom(r.Context()), chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// SetPublished handles POST /admin/news/{id}/publish
func (h *NewsHandler) SetPublished(w http.ResponseWriter, r *http.Request) {
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

// Delete handles DELETE /admin/news/{id}
func (h *NewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), auth.ActorFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
