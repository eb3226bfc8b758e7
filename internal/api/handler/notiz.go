package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/exportdesk/exportdesk/internal/api/models"
	"github.com/exportdesk/exportdesk/internal/api/response"
	"github.com/exportdesk/exportdesk/internal/notiz"
)

// NotizHandler handles note endpoints.
type NotizHandler struct {
	service *notiz.Service
}

// NewNotizHandler creates a new NotizHandler.
func NewNotizHandler(service *notiz.Service) *NotizHandler {
	return &NotizHandler{service: service}
}

// ListNotizen handles GET /api/notizen.
func (h *NotizHandler) ListNotizen(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to list notes")
		return
	}
	response.JSON(w, r, http.StatusOK, items)
}

// CreateNotiz handles POST /api/notizen.
func (h *NotizHandler) CreateNotiz(w http.ResponseWriter, r *http.Request) {
	var input models.NotizCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	n, err := h.service.Create(r.Context(), &input)
	if err != nil {
		h.writeError(w, r, err, "failed to create note")
		return
	}
	response.Created(w, r, fmt.Sprintf("/api/notizen/%s", n.ID), n)
}

// UpdateNotiz handles PUT /api/notizen/{notizId}.
func (h *NotizHandler) UpdateNotiz(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "notizId")

	var input models.NotizUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	n, err := h.service.Update(r.Context(), id, &input)
	if err != nil {
		h.writeError(w, r, err, "failed to update note")
		return
	}
	response.JSON(w, r, http.StatusOK, n)
}

// DeleteNotiz handles DELETE /api/notizen/{notizId}.
func (h *NotizHandler) DeleteNotiz(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "notizId")

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err, "failed to delete note")
		return
	}
	response.NoContent(w, r)
}

func (h *NotizHandler) writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var verr *notiz.ValidationError
	switch {
	case errors.As(err, &verr):
		response.BadRequest(w, r, "validation error", verr.Errors)
	case errors.Is(err, notiz.ErrNotizNotFound):
		response.NotFound(w, r, "note not found")
	default:
		response.InternalError(w, r, fallback)
	}
}
